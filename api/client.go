// Package api is the HTTP client of the focus session API
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andromeda/focus/internal/apperr"
	"github.com/andromeda/focus/internal/models"
)

const (
	categoriesPath = "/focus/api/categories/"
	startPath      = "/focus/api/sessions/start/"
	sessionsPath   = "/focus/api/sessions/"
	statsPath      = "/focus/api/stats/"
	pushPath       = "/ws/focus/"

	defaultTimeout = 10 * time.Second
)

var (
	errInvalidBaseURL = &apperr.Error{
		Message: "invalid api base url %q: expected http(s)://host[:port]",
	}

	errRequest = &apperr.Error{
		Message: "%s %s failed with status %d",
	}

	errRejected = &apperr.Error{
		Message: "the session api rejected the request",
	}

	// ErrNotFound is returned when the server does not know the session.
	ErrNotFound = &apperr.Error{
		Message: "session not found",
	}
)

// Client talks to a focus session API.
type Client struct {
	http    *http.Client
	logger  *slog.Logger
	baseURL *url.URL
	token   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithToken sends token as a bearer credential on every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errInvalidBaseURL.Fmt(baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// PushURL is the WebSocket endpoint that announces session updates.
func (c *Client) PushURL() string {
	u := *c.baseURL

	u.Scheme = "ws"
	if c.baseURL.Scheme == "https" {
		u.Scheme = "wss"
	}

	u.Path += pushPath

	return u.String()
}

// Token returns the bearer credential, if any.
func (c *Client) Token() string {
	return c.token
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Client) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	body, out any,
) error {
	u := *c.baseURL
	u.Path += path
	u.RawQuery = query.Encode()

	var r io.Reader

	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}

		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), r)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}

	defer resp.Body.Close()

	c.logger.Debug(
		"session api request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var e errorResponse

		_ = json.NewDecoder(resp.Body).Decode(&e)

		err := errRequest.Fmt(method, path, resp.StatusCode)
		if e.Error != "" {
			return err.Wrap(errors.New(e.Error))
		}

		return err
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

type successResponse struct {
	Success bool `json:"success"`
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	var res successResponse

	err := c.do(ctx, http.MethodPost, path, nil, body, &res)
	if err != nil {
		return err
	}

	if !res.Success {
		return errRejected
	}

	return nil
}

// Categories lists the categories a session can be filed under.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var res struct {
		Categories []models.Category `json:"categories"`
	}

	err := c.do(ctx, http.MethodGet, categoriesPath, nil, nil, &res)

	return res.Categories, err
}

// StartSession opens a session and returns its id.
func (c *Client) StartSession(ctx context.Context, categoryID int64) (int64, error) {
	var res struct {
		Category  *string `json:"category"`
		SessionID int64   `json:"session_id"`
		Success   bool    `json:"success"`
	}

	body := map[string]int64{"category_id": categoryID}

	err := c.do(ctx, http.MethodPost, startPath, nil, body, &res)
	if err != nil {
		return 0, err
	}

	if !res.Success || res.SessionID == 0 {
		return 0, errRejected
	}

	return res.SessionID, nil
}

func sessionPath(id int64, action string) string {
	return fmt.Sprintf("%s%d/%s/", sessionsPath, id, action)
}

// PauseSession marks a session as paused.
func (c *Client) PauseSession(ctx context.Context, id int64) error {
	return c.post(ctx, sessionPath(id, "pause"), nil)
}

// ResumeSession marks a paused session as ongoing again.
func (c *Client) ResumeSession(ctx context.Context, id int64) error {
	return c.post(ctx, sessionPath(id, "resume"), nil)
}

// CompleteSession closes a session with optional reflection notes.
func (c *Client) CompleteSession(ctx context.Context, id int64, notes string) error {
	return c.post(ctx, sessionPath(id, "complete"), map[string]string{
		"notes": notes,
	})
}

// Sessions lists the sessions matching filter.
func (c *Client) Sessions(
	ctx context.Context,
	filter models.Filter,
) ([]models.Session, error) {
	var res struct {
		Sessions []models.Session `json:"sessions"`
	}

	query := url.Values{}
	if filter != "" {
		query.Set("filter", string(filter))
	}

	err := c.do(ctx, http.MethodGet, sessionsPath, query, nil, &res)

	return res.Sessions, err
}

// Stats returns the summary of completed sessions.
func (c *Client) Stats(ctx context.Context) (*models.Stats, error) {
	var s models.Stats

	err := c.do(ctx, http.MethodGet, statsPath, nil, nil, &s)
	if err != nil {
		return nil, err
	}

	return &s, nil
}
