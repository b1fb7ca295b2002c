package network

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultTimeout bounds dialing, single writes and HTTP calls.
const DefaultTimeout = 10 * time.Second

// MaxMessageSize caps a single inbound websocket frame or HTTP body.
const MaxMessageSize = 1 << 20

type settings struct {
	timeout    time.Duration
	readLimit  int64
	httpClient *http.Client
	dialer     *websocket.Dialer
	logger     *slog.Logger
}

type option func(settings) settings

func newSettings(opts []option) settings {
	s := settings{
		timeout:   DefaultTimeout,
		readLimit: MaxMessageSize,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		s = opt(s)
	}
	if s.httpClient == nil {
		s.httpClient = &http.Client{Timeout: s.timeout}
	}
	if s.dialer == nil {
		d := *websocket.DefaultDialer
		d.HandshakeTimeout = s.timeout
		s.dialer = &d
	}
	return s
}

func WithTimeout(timeout time.Duration) option {
	return func(s settings) settings {
		if timeout > 0 {
			s.timeout = timeout
		}
		return s
	}
}

func WithHTTPClient(client *http.Client) option {
	return func(s settings) settings {
		s.httpClient = client
		return s
	}
}

func WithDialer(dialer *websocket.Dialer) option {
	return func(s settings) settings {
		s.dialer = dialer
		return s
	}
}

func WithLogger(logger *slog.Logger) option {
	return func(s settings) settings {
		s.logger = logger
		return s
	}
}

// WithReadLimit caps the size of one inbound websocket frame. Larger frames
// close the connection.
func WithReadLimit(n int64) option {
	return func(s settings) settings {
		if n > 0 {
			s.readLimit = n
		}
		return s
	}
}
