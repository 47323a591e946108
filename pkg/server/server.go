package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"golang.org/x/sync/errgroup"

	"pinboard/pkg/board"
	"pinboard/pkg/logger"
)

// Options configures the acceptor.
type Options struct {
	// Addr is the TCP listen address (host:port).
	Addr string
	// MaxSessions bounds concurrently served connections; accepts beyond
	// the bound wait for a free slot.
	MaxSessions int
	// RPS and Burst configure the per-peer command rate limit; RPS <= 0
	// disables it.
	RPS   float64
	Burst int
}

// Server accepts TCP connections and runs one session per connection.
// All sessions share a single Board.
type Server struct {
	opts     Options
	board    *board.Board
	limiters *limiterPool
	ln       net.Listener
}

func New(b *board.Board, opts Options) *Server {
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = 8
	}
	return &Server{
		opts:     opts,
		board:    b,
		limiters: newLimiterPool(opts.RPS, opts.Burst),
	}
}

// Listen binds the TCP listener. Separate from Serve so callers (and
// tests) can learn the bound address before serving.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.opts.Addr, err)
	}
	s.ln = ln
	return nil
}

// Addr returns the bound listener address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Serve runs the accept loop until ctx is cancelled, then drains
// in-flight sessions. Accept failures other than shutdown are logged and
// the loop continues.
func (s *Server) Serve(ctx context.Context) error {
	if s.ln == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	logger.Info("server_listening", "addr", s.ln.Addr().String(), "max_sessions", s.opts.MaxSessions)

	// Cancellation closes the listener so Accept unblocks.
	stopListen := context.AfterFunc(ctx, func() { _ = s.ln.Close() })
	defer stopListen()

	g := &errgroup.Group{}
	g.SetLimit(s.opts.MaxSessions)

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			logger.Warn("accept_failed", "error", err)
			continue
		}
		// Close lingering connections when shutdown is requested so the
		// drain below cannot block on an idle reader.
		stopConn := context.AfterFunc(ctx, func() { _ = conn.Close() })
		g.Go(func() error {
			defer stopConn()
			s.handleConn(conn)
			return nil
		})
	}

	_ = g.Wait()
	logger.Info("server_stopped", "addr", s.opts.Addr)
	return nil
}
