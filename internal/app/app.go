package app

import (
	"context"
	"net/http"

	"pinboard/pkg/banner"
	"pinboard/pkg/board"
	"pinboard/pkg/config"
	"pinboard/pkg/server"
	"pinboard/pkg/telemetry"
)

// App encapsulates the server components and lifecycle: the shared board,
// the TCP acceptor and the optional ops HTTP listener.
type App struct {
	eff     config.EffectiveConfigResult
	version string

	board *board.Board
	srv   *server.Server
	ops   *http.Server
}

// New builds the board and the acceptor from an already-validated
// effective config. Nothing is bound yet; call Run to start and block
// until shutdown.
func New(eff config.EffectiveConfigResult, version string) *App {
	cfg := eff.Config
	b := board.New(cfg.Board.Width, cfg.Board.Height, cfg.Board.NoteWidth, cfg.Board.NoteHeight, cfg.Board.Colors)
	srv := server.New(b, server.Options{
		Addr:        cfg.Addr(),
		MaxSessions: cfg.SessionLimit(),
		RPS:         cfg.Limits.RPS,
		Burst:       cfg.Limits.Burst,
	})
	return &App{eff: eff, version: version, board: b, srv: srv}
}

// Run binds the listeners, prints the banner and blocks until ctx is
// cancelled or a fatal server error occurs. In-flight sessions drain
// before it returns.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.srv.Listen(); err != nil {
		return err
	}
	telemetry.SetBoard(a.board.Stats())
	banner.Print(a.eff, a.board.Colors(), a.version)

	opsErr := a.startOps(ctx)

	serveErr := make(chan error, 1)
	go func() { serveErr <- a.srv.Serve(ctx) }()

	var err error
	select {
	case err = <-serveErr:
		cancel()
	case err = <-opsErr:
		cancel()
		<-serveErr
	case <-ctx.Done():
		<-serveErr
	}
	a.stopOps()
	return err
}
