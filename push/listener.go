// Package push keeps a WebSocket connection to the session API open and
// reports session updates announced by the server.
package push

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"

	"github.com/andromeda/focus/internal/apperr"
	"github.com/andromeda/focus/internal/models"
)

const (
	pingInterval = 30 * time.Second
	readTimeout  = 90 * time.Second
	writeTimeout = 10 * time.Second
)

var errUnauthorized = &apperr.Error{
	Message: "push connection refused: missing or invalid token",
}

// Listener receives session_update messages and reconnects with exponential
// backoff whenever the connection drops.
type Listener struct {
	dialer     *websocket.Dialer
	logger     *slog.Logger
	url        string
	token      string
	initial    time.Duration
	maxBackoff time.Duration
}

// Option configures a Listener.
type Option func(*Listener)

// WithToken sends token as a bearer credential during the handshake.
func WithToken(token string) Option {
	return func(l *Listener) {
		l.token = token
	}
}

// WithLogger sets the connection logger.
func WithLogger(lg *slog.Logger) Option {
	return func(l *Listener) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// WithBackoff bounds the delay between reconnection attempts.
func WithBackoff(initial, maxDelay time.Duration) Option {
	return func(l *Listener) {
		l.initial = initial
		l.maxBackoff = maxDelay
	}
}

// NewListener returns a listener for the WebSocket endpoint at url.
func NewListener(url string, opts ...Option) *Listener {
	l := &Listener{
		url:        url,
		logger:     slog.Default(),
		initial:    time.Second,
		maxBackoff: 30 * time.Second,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
			Proxy:            http.ProxyFromEnvironment,
		},
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Run delivers every session update to fn until ctx is cancelled. An
// authentication failure is returned immediately since retrying cannot help.
func (l *Listener) Run(ctx context.Context, fn func(models.SessionUpdate)) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = l.initial
	b.MaxInterval = l.maxBackoff

	for {
		connected, err := l.session(ctx, fn)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if errors.Is(err, errUnauthorized) {
			return err
		}

		if connected {
			b.Reset()
		}

		delay := b.NextBackOff()

		l.logger.Debug(
			"push connection lost",
			slog.String("url", l.url),
			slog.Any("error", err),
			slog.Duration("retry_in", delay),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

func (l *Listener) dial(ctx context.Context) (*websocket.Conn, error) {
	header := http.Header{}
	if l.token != "" {
		header.Set("Authorization", "Bearer "+l.token)
	}

	conn, resp, err := l.dialer.DialContext(ctx, l.url, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, errUnauthorized
		}

		return nil, err
	}

	return conn, nil
}

// session runs one connection until it fails. connected reports whether the
// handshake succeeded.
func (l *Listener) session(
	ctx context.Context,
	fn func(models.SessionUpdate),
) (connected bool, err error) {
	conn, err := l.dial(ctx)
	if err != nil {
		return false, err
	}

	l.logger.Debug("push connection established", slog.String("url", l.url))

	var (
		wg   sync.WaitGroup
		done = make(chan struct{})
	)

	defer func() {
		close(done)
		_ = conn.Close()
		wg.Wait()
	}()

	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	wg.Add(1)

	go func() {
		defer wg.Done()

		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
				_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeTimeout))
				_ = conn.Close()

				return
			case <-ticker.C:
				err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
				if err != nil {
					return
				}
			}
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return true, nil
			}

			return true, err
		}

		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

		var msg models.SessionUpdate

		err = json.Unmarshal(data, &msg)
		if err != nil {
			l.logger.Debug("ignoring malformed push message", slog.Any("error", err))
			continue
		}

		if msg.Type != models.SessionUpdateType {
			continue
		}

		fn(msg)
	}
}
