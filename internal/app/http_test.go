package app

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pinboard/pkg/config"
)

func testApp(t *testing.T) *App {
	t.Helper()
	cfg := &config.Config{}
	cfg.Server.Address = "127.0.0.1"
	cfg.Server.Port = 4444 // never bound in this test
	cfg.Board = config.BoardConfig{Width: 10, Height: 10, NoteWidth: 2, NoteHeight: 2, Colors: []string{"red", "blue"}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	return New(config.EffectiveConfigResult{Config: cfg, Source: "test"}, "test")
}

func TestOpsEndpoints(t *testing.T) {
	a := testApp(t)
	srv := httptest.NewServer(a.opsRouter())
	defer srv.Close()
	client := srv.Client()

	// healthz
	resp, err := client.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "\"status\":\"ok\"") {
		t.Fatalf("healthz = %d %s", resp.StatusCode, body)
	}

	// readyz reports not ready before the TCP listener is bound
	resp, err = client.Get(srv.URL + "/readyz")
	if err != nil {
		t.Fatalf("readyz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before listen, got %d", resp.StatusCode)
	}

	// stats reflects the board
	if _, err := a.board.Post(0, 0, "red", "hello"); err != nil {
		t.Fatalf("post: %v", err)
	}
	resp, err = client.Get(srv.URL + "/stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "{\"notes\":1,\"pins\":0}" {
		t.Fatalf("stats = %s", body)
	}

	// metrics is wired
	resp, err = client.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "pinboard_") {
		t.Fatalf("metrics missing pinboard collectors: %d", resp.StatusCode)
	}
}
