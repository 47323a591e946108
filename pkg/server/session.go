package server

import (
	"bufio"
	"io"
	"net"
	"strings"
	"time"

	"pinboard/pkg/logger"
	"pinboard/pkg/protocol"
	"pinboard/pkg/telemetry"
)

// session owns one accepted connection: handshake, then a strict
// read-one-line / write-one-reply loop until DISCONNECT, EOF or an I/O
// error. Protocol failures keep the session open; only socket errors end
// it.
type session struct {
	srv    *Server
	conn   net.Conn
	r      *bufio.Reader
	w      *bufio.Writer
	remote string
}

func (s *Server) handleConn(conn net.Conn) {
	remote := conn.RemoteAddr().String()
	telemetry.SessionOpened()
	logger.Info("client_connected", "remote", remote)
	defer func() {
		_ = conn.Close()
		telemetry.SessionClosed()
		s.limiters.Forget(limiterKey(remote))
		logger.Info("client_disconnected", "remote", remote)
	}()

	sess := &session{
		srv:    s,
		conn:   conn,
		r:      bufio.NewReader(conn),
		w:      bufio.NewWriter(conn),
		remote: remote,
	}
	sess.run()
}

func (ss *session) run() {
	if err := ss.handshake(); err != nil {
		logger.Warn("handshake_write_failed", "remote", ss.remote, "error", err)
		return
	}

	for {
		raw, err := ss.r.ReadString('\n')
		if err != nil && (err != io.EOF || raw == "") {
			if err != io.EOF {
				logger.Warn("session_read_failed", "remote", ss.remote, "error", err)
			}
			return
		}
		atEOF := err == io.EOF

		line := strings.TrimSpace(strings.TrimRight(raw, "\r\n"))
		if line == "" {
			if atEOF {
				return
			}
			continue
		}

		done, werr := ss.handleLine(line)
		if werr != nil {
			logger.Warn("session_write_failed", "remote", ss.remote, "error", werr)
			return
		}
		if done || atEOF {
			return
		}
	}
}

// handshake emits the four greeting lines in order.
func (ss *session) handshake() error {
	geo := ss.srv.board.Geometry()
	lines := []string{
		protocol.BoardLine(geo.BoardW, geo.BoardH),
		protocol.NoteSizeLine(geo.NoteW, geo.NoteH),
		protocol.ColorsLine(ss.srv.board.Colors()),
		protocol.LineReady,
	}
	for _, l := range lines {
		if err := ss.writeLine(l); err != nil {
			return err
		}
	}
	return ss.w.Flush()
}

// handleLine dispatches one inbound line and emits exactly one reply
// message. It returns done=true when the session should close (after
// DISCONNECT) and a non-nil error only for socket write failures.
func (ss *session) handleLine(line string) (done bool, werr error) {
	start := time.Now()

	if !ss.srv.limiters.Allow(limiterKey(ss.remote)) {
		telemetry.CommandHandled("RATE_LIMITED", false, time.Since(start))
		return false, ss.reply(protocol.ErrorLine(protocol.Errorf(protocol.ServerError, "rate limit exceeded")))
	}

	cmd, err := protocol.Parse(line)
	if err != nil {
		logger.Debug("command_rejected", "remote", ss.remote, "error", err)
		telemetry.CommandHandled("INVALID", false, time.Since(start))
		return false, ss.reply(protocol.ErrorLine(err))
	}

	lines, err := ss.execute(cmd)
	telemetry.CommandHandled(cmd.Kind.String(), err == nil, time.Since(start))
	if err != nil {
		logger.Debug("command_failed", "remote", ss.remote, "command", cmd.Kind.String(), "error", err)
		return false, ss.reply(protocol.ErrorLine(err))
	}
	if err := ss.reply(lines...); err != nil {
		return false, err
	}
	return cmd.Kind == protocol.KindDisconnect, nil
}

// execute runs a parsed command against the board and returns the reply
// lines. Board-level failures come back as categorized protocol errors.
func (ss *session) execute(cmd protocol.Command) ([]string, error) {
	b := ss.srv.board
	switch cmd.Kind {
	case protocol.KindPost:
		id, err := b.Post(cmd.X, cmd.Y, cmd.Color, cmd.Message)
		if err != nil {
			return nil, err
		}
		telemetry.SetBoard(b.Stats())
		return []string{protocol.PostedLine(id)}, nil

	case protocol.KindPin:
		if err := b.Pin(cmd.X, cmd.Y); err != nil {
			return nil, err
		}
		telemetry.SetBoard(b.Stats())
		return []string{protocol.PinnedLine(cmd.X, cmd.Y)}, nil

	case protocol.KindUnpin:
		if err := b.Unpin(cmd.X, cmd.Y); err != nil {
			return nil, err
		}
		telemetry.SetBoard(b.Stats())
		return []string{protocol.UnpinnedLine(cmd.X, cmd.Y)}, nil

	case protocol.KindShake:
		removed := b.Shake()
		telemetry.SetBoard(b.Stats())
		return []string{protocol.ShakenLine(removed)}, nil

	case protocol.KindClear:
		b.Clear()
		telemetry.SetBoard(b.Stats())
		return []string{protocol.LineCleared}, nil

	case protocol.KindGetPins:
		pins := b.Pins()
		lines := make([]string, 0, len(pins)+2)
		lines = append(lines, protocol.LineDataBegin)
		for _, p := range pins {
			lines = append(lines, protocol.PinLine(p))
		}
		return append(lines, protocol.LineDataEnd), nil

	case protocol.KindGet:
		notes, err := b.Notes(cmd.Query)
		if err != nil {
			return nil, err
		}
		lines := make([]string, 0, len(notes)+2)
		lines = append(lines, protocol.LineDataBegin)
		for _, n := range notes {
			lines = append(lines, protocol.NoteLine(n.Note, n.Pinned))
		}
		return append(lines, protocol.LineDataEnd), nil

	case protocol.KindDisconnect:
		return []string{protocol.LineBye}, nil
	}
	return nil, protocol.Errorf(protocol.ServerError, "unhandled command %s", cmd.Kind)
}

// reply writes the lines of one reply message and flushes once, so the
// reply is fully emitted before the next command is read.
func (ss *session) reply(lines ...string) error {
	for _, l := range lines {
		if err := ss.writeLine(l); err != nil {
			return err
		}
	}
	return ss.w.Flush()
}

func (ss *session) writeLine(line string) error {
	if _, err := ss.w.WriteString(line); err != nil {
		return err
	}
	return ss.w.WriteByte('\n')
}

// limiterKey buckets by peer host so reconnects share a budget.
func limiterKey(remote string) string {
	if host, _, err := net.SplitHostPort(remote); err == nil {
		return host
	}
	return remote
}
