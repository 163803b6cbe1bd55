package transport

import (
	"context"
	"fmt"
	"net"
	"time"
)

// Dial opens a TCP connection to addr with the given timeout. A timeout is
// treated identically to a closed/refused connection by every caller
// (spec.md §5).
func Dial(ctx context.Context, addr string, timeout time.Duration) (net.Conn, error) {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return conn, nil
}

// Request is the one-shot outbound pattern spec.md §4.10 describes: dial,
// write one frame, optionally read one frame, close. readTimeout <= 0 skips
// reading a response (fire-and-forget sends like send_peers/new_block_mined).
func Request(ctx context.Context, addr string, dialTimeout, readTimeout time.Duration, msg interface{}) ([]byte, error) {
	conn, err := Dial(ctx, addr, dialTimeout)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if err := WriteFrame(conn, msg); err != nil {
		return nil, err
	}

	if readTimeout <= 0 {
		return nil, nil
	}

	if err := conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
		return nil, fmt.Errorf("set read deadline: %w", err)
	}

	return ReadFrame(conn)
}
