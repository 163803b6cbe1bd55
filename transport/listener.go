package transport

import (
	"context"
	"net"

	"github.com/chainnode-go/chainnode/ulogger"
	"github.com/google/uuid"
)

// Handler processes one inbound frame's raw JSON payload and optionally
// writes a response frame back over the same connection.
type Handler func(ctx context.Context, raw []byte, reply func(interface{}) error)

// Listener accepts TCP connections and spawns one worker goroutine per
// connection, buffering partial reads until a full frame is available and
// dispatching to handle for each frame received (spec.md §4.10, §5: "the
// listener spawns one worker per accepted connection").
type Listener struct {
	logger ulogger.Logger
	ln     net.Listener
}

// Listen binds addr and returns a Listener ready to Serve.
func Listen(addr string, logger ulogger.Logger) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Listener{logger: logger, ln: ln}, nil
}

func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

func (l *Listener) Close() error { return l.ln.Close() }

// Serve accepts connections until ctx is cancelled or the listener is closed.
func (l *Listener) Serve(ctx context.Context, handle Handler) {
	go func() {
		<-ctx.Done()
		_ = l.ln.Close()
	}()

	for {
		conn, err := l.ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			l.logger.Warnf("accept error: %v", err)
			return
		}
		go l.serveConn(ctx, conn, handle)
	}
}

func (l *Listener) serveConn(ctx context.Context, conn net.Conn, handle Handler) {
	connID := uuid.NewString()
	defer conn.Close()

	for {
		raw, err := ReadFrame(conn)
		if err != nil {
			l.logger.Debugf("connection %s closed: %v", connID, err)
			return
		}

		handle(ctx, raw, func(resp interface{}) error {
			return WriteFrame(conn, resp)
		})
	}
}
