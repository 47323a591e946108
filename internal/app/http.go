package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pinboard/pkg/logger"
)

// The ops listener is a plain HTTP sidecar for operators and probes; it
// never speaks the board protocol. Disabled unless an address is
// configured.

// startOps starts the ops HTTP server when configured and returns a
// channel carrying any fatal server error. The channel stays silent (and
// nil) when the listener is disabled.
func (a *App) startOps(_ context.Context) <-chan error {
	addr := a.eff.Config.Ops.Addr
	if addr == "" {
		return nil
	}

	a.ops = &http.Server{
		Addr:         addr,
		Handler:      a.opsRouter(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("ops_listening", "addr", addr)
		if err := a.ops.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// opsRouter builds the ops endpoints.
func (a *App) opsRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", a.healthzHandler).Methods(http.MethodGet)
	r.HandleFunc("/readyz", a.readyzHandler).Methods(http.MethodGet)
	r.HandleFunc("/stats", a.statsHandler).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return r
}

// stopOps shuts the ops server down gracefully.
func (a *App) stopOps() {
	if a.ops == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = a.ops.Shutdown(ctx)
}

func (a *App) healthzHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "{\"status\":\"ok\",\"version\":\"%s\"}", a.version)
}

func (a *App) readyzHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if a.srv.Addr() == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("{\"status\":\"not ready\"}"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("{\"status\":\"ok\"}"))
}

func (a *App) statsHandler(w http.ResponseWriter, _ *http.Request) {
	notes, pins := a.board.Stats()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "{\"notes\":%d,\"pins\":%d}", notes, pins)
}
