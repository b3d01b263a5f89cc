package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andromeda/focus/internal/models"
	"github.com/andromeda/focus/store"
)

type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time {
	return c.t
}

func newTestServer(t *testing.T, opts ...Option) (*Server, *testClock) {
	t.Helper()

	db, err := store.NewClient(filepath.Join(t.TempDir(), "focus.db"))
	require.NoError(t, err)

	clock := &testClock{t: time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)}

	s, err := New(db, append([]Option{WithClock(clock.Now)}, opts...)...)
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
		_ = db.Close()
	})

	return s, clock
}

func doRequest(
	t *testing.T,
	s *Server,
	method, path string,
	body any,
	header http.Header,
) (int, map[string]any) {
	t.Helper()

	var r io.Reader

	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)

		r = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")

	for k, v := range header {
		req.Header[k] = v
	}

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	var out map[string]any

	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}

	return w.Code, out
}

func TestCategoriesAreSeeded(t *testing.T) {
	s, _ := newTestServer(t)

	code, body := doRequest(t, s, http.MethodGet, "/focus/api/categories/", nil, nil)
	require.Equal(t, http.StatusOK, code)

	cats, ok := body["categories"].([]any)
	require.True(t, ok)
	require.Len(t, cats, 5)

	first, ok := cats[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Work", first["name"])
	assert.Equal(t, "#FF6B35", first["color"])
}

func TestSessionLifecycle(t *testing.T) {
	s, clock := newTestServer(t)

	doRequest(t, s, http.MethodGet, "/focus/api/categories/", nil, nil)

	code, body := doRequest(t, s, http.MethodPost, "/focus/api/sessions/start/", map[string]any{
		"category_id": 2,
	}, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Study", body["category"])
	assert.InDelta(t, 1, body["session_id"], 0)

	code, _ = doRequest(t, s, http.MethodPost, "/focus/api/sessions/1/pause/", nil, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = doRequest(t, s, http.MethodPost, "/focus/api/sessions/1/resume/", nil, nil)
	require.Equal(t, http.StatusOK, code)

	clock.t = clock.t.Add(25*time.Minute + 30*time.Second)

	code, body = doRequest(t, s, http.MethodPost, "/focus/api/sessions/1/complete/", map[string]any{
		"notes": "finished chapter 3",
	}, nil)
	require.Equal(t, http.StatusOK, code)
	assert.InDelta(t, 25, body["duration"], 0)

	code, body = doRequest(t, s, http.MethodGet, "/focus/api/sessions/?filter=today", nil, nil)
	require.Equal(t, http.StatusOK, code)

	sessions, ok := body["sessions"].([]any)
	require.True(t, ok)
	require.Len(t, sessions, 1)

	sess, ok := sessions[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Study", sess["category__name"])
	assert.Equal(t, "completed", sess["status"])
	assert.Equal(t, "finished chapter 3", sess["notes"])

	code, body = doRequest(t, s, http.MethodGet, "/focus/api/stats/", nil, nil)
	require.Equal(t, http.StatusOK, code)
	assert.InDelta(t, 25, body["today_minutes"], 0)
	assert.InDelta(t, 1, body["week_sessions"], 0)
	assert.Equal(t, "Study", body["favorite_category"])
}

func TestUnknownSession(t *testing.T) {
	s, _ := newTestServer(t)

	for _, path := range []string{
		"/focus/api/sessions/42/pause/",
		"/focus/api/sessions/42/resume/",
		"/focus/api/sessions/42/complete/",
		"/focus/api/sessions/abc/pause/",
	} {
		code, body := doRequest(t, s, http.MethodPost, path, nil, nil)
		assert.Equal(t, http.StatusNotFound, code, path)
		assert.Equal(t, "Session not found", body["error"], path)
	}
}

func TestStartUnknownCategory(t *testing.T) {
	s, _ := newTestServer(t)

	code, _ := doRequest(t, s, http.MethodPost, "/focus/api/sessions/start/", map[string]any{
		"category_id": 77,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestInvalidFilter(t *testing.T) {
	s, _ := newTestServer(t)

	code, _ := doRequest(t, s, http.MethodGet, "/focus/api/sessions/?filter=decade", nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAuthentication(t *testing.T) {
	s, _ := newTestServer(t, WithToken("s3cret"))

	code, body := doRequest(t, s, http.MethodGet, "/focus/api/stats/", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "unauthorized", body["error"])

	code, _ = doRequest(t, s, http.MethodGet, "/focus/api/stats/", nil, http.Header{
		"Authorization": []string{"Bearer s3cret"},
	})
	assert.Equal(t, http.StatusOK, code)

	code, _ = doRequest(t, s, http.MethodGet, "/focus/api/stats/?token=s3cret", nil, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestMetrics(t *testing.T) {
	s, _ := newTestServer(t)

	doRequest(t, s, http.MethodPost, "/focus/api/sessions/start/", map[string]any{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "focus_sessions_started_total 1")
	assert.Contains(t, w.Body.String(), "focus_api_request_duration_seconds")
}

func TestPushOnSessionChange(t *testing.T) {
	s, _ := newTestServer(t)

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/focus/"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	defer conn.Close()

	require.Eventually(t, func() bool {
		return s.Hub().Count() == 1
	}, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Post(
		srv.URL+"/focus/api/sessions/start/",
		"application/json",
		strings.NewReader(`{"category_id": null}`),
	)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var msg models.SessionUpdate

	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, models.SessionUpdateType, msg.Type)
	assert.Equal(t, "started", msg.Event)
	assert.Equal(t, int64(1), msg.SessionID)

	// timer_tick messages are echoed back to the sender
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"timer_tick","elapsed_minutes":3}`)))

	var echo map[string]any

	require.NoError(t, conn.ReadJSON(&echo))
	assert.Equal(t, "timer_tick", echo["type"])
	assert.InDelta(t, 3, echo["elapsed_minutes"], 0)
}
