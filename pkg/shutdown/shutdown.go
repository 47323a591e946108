package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"pinboard/pkg/logger"
)

// SetupSignalHandler installs handlers for SIGINT/SIGTERM and returns a
// cancellable context. The returned context is cancelled when either
// signal arrives; a second signal exits immediately.
func SetupSignalHandler(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigc := make(chan os.Signal, 2)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigc
		logger.Info("signal_received", "signal", s.String(), "msg", "shutdown requested")
		cancel()
		s = <-sigc
		logger.Error("signal_received", "signal", s.String(), "msg", "forcing exit")
		os.Exit(1)
	}()

	return ctx, cancel
}
