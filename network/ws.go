package network

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrClosed is returned by Receive and Send once the connection is gone.
var ErrClosed = errors.New("connection closed")

// WSTransport carries JSON text frames over a websocket. One goroutine may
// call Receive while another calls Send.
type WSTransport struct {
	conn    *websocket.Conn
	timeout time.Duration
	logger  *slog.Logger

	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

// Dial opens the websocket at rawURL.
func Dial(ctx context.Context, rawURL string, opts ...option) (*WSTransport, error) {
	s := newSettings(opts)
	conn, resp, err := s.dialer.DialContext(ctx, rawURL, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", rawURL, err)
	}
	conn.SetReadLimit(s.readLimit)
	s.logger.Debug("websocket open", "url", rawURL)
	return &WSTransport{conn: conn, timeout: s.timeout, logger: s.logger}, nil
}

// WebSocketURL derives the websocket endpoint from the server base URL:
// http becomes ws, https becomes wss, and the path is /ws.
func WebSocketURL(base string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported server url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("server url %q has no host", base)
	}
	u.Path = "/ws"
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

// Send writes one text frame.
func (t *WSTransport) Send(ctx context.Context, frame []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	deadline := time.Now().Add(t.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := t.conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("%w: %v", ErrClosed, err)
	}
	if err := t.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		if errors.Is(err, websocket.ErrCloseSent) {
			return ErrClosed
		}
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// Receive blocks until the next frame arrives, the connection closes or ctx
// is done. Binary frames are skipped.
func (t *WSTransport) Receive(ctx context.Context) ([]byte, error) {
	stop := context.AfterFunc(ctx, func() {
		t.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	for {
		kind, payload, err := t.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				t.logger.Warn("websocket closed unexpectedly", "err", err)
			}
			return nil, fmt.Errorf("%w: %w", ErrClosed, err)
		}
		if kind != websocket.TextMessage {
			t.logger.Debug("skipping non-text frame", "kind", kind)
			continue
		}
		return payload, nil
	}
}

// Close sends a close frame and releases the connection. It is safe to call
// more than once.
func (t *WSTransport) Close() error {
	t.closeOnce.Do(func() {
		t.writeMu.Lock()
		t.conn.SetWriteDeadline(time.Now().Add(time.Second))
		t.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		t.writeMu.Unlock()
		t.closeErr = t.conn.Close()
	})
	return t.closeErr
}
