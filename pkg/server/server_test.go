package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/mazegen/pkg/errors"
	"github.com/matzehuels/mazegen/pkg/grid"
	"github.com/matzehuels/mazegen/pkg/maze"
	"github.com/matzehuels/mazegen/pkg/observability"
	"github.com/matzehuels/mazegen/pkg/session"
)

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	ts := httptest.NewServer(New(cfg).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func create(t *testing.T, ts *httptest.Server, body string) createResponse {
	t.Helper()
	resp := do(t, http.MethodPost, ts.URL+"/api/v1/sessions", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[createResponse](t, resp)
}

func TestCreateSession(t *testing.T) {
	ts := newTestServer(t, Config{})

	got := create(t, ts, `{"width": 4, "height": 3, "seed": 7, "start": "1.2", "connectivity": "8"}`)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, 12, got.Cells)
	assert.Equal(t, grid.Key{X: 1, Y: 2}, got.Options.Start)
	assert.Equal(t, grid.Conn8, got.Options.Conn)
	assert.Equal(t, uint64(7), got.Options.Seed)
}

func TestCreateSessionDefaults(t *testing.T) {
	ts := newTestServer(t, Config{Defaults: session.Options{Width: 5, Height: 5, Seed: 1}})

	got := create(t, ts, "")
	assert.Equal(t, 25, got.Cells)
	assert.Equal(t, uint64(1), got.Options.Seed)
}

func TestCreateSessionInvalid(t *testing.T) {
	ts := newTestServer(t, Config{})

	tests := []struct {
		name   string
		body   string
		status int
		code   errors.Code
	}{
		{"bad json", `{`, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"bad start key", `{"start": "x"}`, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"start outside", `{"width": 2, "height": 2, "start": "5.5"}`, http.StatusBadRequest, errors.ErrCodeInvalidStartKey},
		{"negative size", `{"width": -3}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"too large", `{"width": 4096, "height": 4096}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, ts.URL+"/api/v1/sessions", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			body := decode[errorBody](t, resp)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}

func TestStepToCompletion(t *testing.T) {
	ts := newTestServer(t, Config{})
	sess := create(t, ts, `{"width": 3, "height": 3, "seed": 2}`)
	base := ts.URL + "/api/v1/sessions/" + sess.ID

	resp := do(t, http.MethodPost, base+"/step", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	one := decode[stepResponse](t, resp)
	require.Len(t, one.Results, 1)
	assert.Equal(t, maze.KindProgress, one.Results[0].Kind)
	assert.Len(t, one.Results[0].Touched, 2)
	assert.Equal(t, "running", one.Status.State)

	resp = do(t, http.MethodPost, base+"/step?n=100", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rest := decode[stepResponse](t, resp)
	require.Len(t, rest.Results, 16)
	assert.Equal(t, maze.KindComplete, rest.Results[15].Kind)
	assert.Equal(t, "complete", rest.Status.State)
	assert.Equal(t, 8, rest.Status.Edges)
	assert.Nil(t, rest.Status.Active)

	resp = do(t, http.MethodPost, base+"/step", "")
	after := decode[stepResponse](t, resp)
	require.Len(t, after.Results, 1)
	assert.Equal(t, maze.KindAlreadyComplete, after.Results[0].Kind)
	assert.Equal(t, 17, after.Results[0].Step)
}

func TestStepInvalidN(t *testing.T) {
	ts := newTestServer(t, Config{})
	sess := create(t, ts, `{"width": 2, "height": 2}`)

	for _, n := range []string{"0", "-1", "abc"} {
		resp := do(t, http.MethodPost, ts.URL+"/api/v1/sessions/"+sess.ID+"/step?n="+n, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "n=%s", n)
	}
}

func TestGetSessionAndCell(t *testing.T) {
	ts := newTestServer(t, Config{})
	sess := create(t, ts, `{"width": 3, "height": 2, "start": "1.1", "seed": 4}`)
	base := ts.URL + "/api/v1/sessions/" + sess.ID

	resp := do(t, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	st := decode[session.Status](t, resp)
	assert.Equal(t, sess.ID, st.ID)
	assert.Equal(t, 1, st.Visited)
	require.NotNil(t, st.Active)
	assert.Equal(t, grid.Key{X: 1, Y: 1}, *st.Active)

	resp = do(t, http.MethodGet, base+"/cells/1.1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	c := decode[grid.Cell](t, resp)
	assert.Equal(t, grid.Key{X: 1, Y: 1}, c.Position)
	assert.True(t, c.Visited)
	assert.True(t, c.Active)
	assert.ElementsMatch(t, []grid.Key{{X: 0, Y: 1}, {X: 1, Y: 0}, {X: 2, Y: 1}}, c.Potential)
	assert.Empty(t, c.Tree)

	resp = do(t, http.MethodGet, base+"/cells/9.9", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, errors.ErrCodeUnknownCell, decode[errorBody](t, resp).Error.Code)

	resp = do(t, http.MethodGet, base+"/cells/nope", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, errors.ErrCodeInvalidKey, decode[errorBody](t, resp).Error.Code)
}

func TestWallsAndExport(t *testing.T) {
	ts := newTestServer(t, Config{})
	sess := create(t, ts, `{"width": 3, "height": 1, "seed": 1}`)
	base := ts.URL + "/api/v1/sessions/" + sess.ID

	do(t, http.MethodPost, base+"/step?n=10", "")

	resp := do(t, http.MethodGet, base+"/maze.txt", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "+--+--+--+\n|        |\n+--+--+--+\n", string(body))

	resp = do(t, http.MethodGet, base+"/export?format=dot", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"0.0" -- "1.0";`)
	assert.Equal(t, "miss", resp.Header.Get("X-Cache"))

	resp = do(t, http.MethodGet, base+"/export?format=dot", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hit", resp.Header.Get("X-Cache"))
	cached, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, string(body), string(cached))

	resp = do(t, http.MethodGet, base+"/export", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Empty(t, resp.Header.Get("X-Cache"))

	resp = do(t, http.MethodGet, base+"/export?format=gif", "")
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
}

func TestDeleteAndMissing(t *testing.T) {
	ts := newTestServer(t, Config{})
	sess := create(t, ts, `{"width": 2, "height": 2}`)
	base := ts.URL + "/api/v1/sessions/" + sess.ID

	resp := do(t, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	for _, tc := range []struct{ method, url string }{
		{http.MethodGet, base},
		{http.MethodDelete, base},
		{http.MethodPost, base + "/step"},
		{http.MethodGet, base + "/maze.txt"},
	} {
		resp := do(t, tc.method, tc.url, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "%s %s", tc.method, tc.url)
		assert.Equal(t, errors.ErrCodeSessionNotFound, decode[errorBody](t, resp).Error.Code)
	}

	resp = do(t, http.MethodGet, ts.URL+"/nowhere", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, errors.ErrCodeNotFound, decode[errorBody](t, resp).Error.Code)
}

func TestEviction(t *testing.T) {
	store := session.NewMemoryStore()
	ts := newTestServer(t, Config{MaxSessions: 2, Store: store})

	first := create(t, ts, `{"width": 2, "height": 2}`)
	time.Sleep(time.Millisecond)
	create(t, ts, `{"width": 2, "height": 2}`)
	time.Sleep(time.Millisecond)
	create(t, ts, `{"width": 2, "height": 2}`)

	all, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
	_, err = store.Get(context.Background(), first.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)

	resp := do(t, http.MethodGet, ts.URL+"/api/v1/sessions", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]session.Status](t, resp), 2)
}

func TestEvictionConcurrentCreates(t *testing.T) {
	store := session.NewMemoryStore()
	ts := newTestServer(t, Config{MaxSessions: 3, Store: store})

	var wg sync.WaitGroup
	for range 24 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := http.Post(ts.URL+"/api/v1/sessions", "application/json", strings.NewReader(`{"width": 2, "height": 2}`))
			if err != nil {
				t.Error(err)
				return
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusCreated {
				t.Errorf("status = %d", resp.StatusCode)
			}
		}()
	}
	wg.Wait()

	all, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

type recordingHTTPHooks struct {
	mu        sync.Mutex
	requests  int
	responses map[string]int
}

func (h *recordingHTTPHooks) OnRequest(context.Context, string, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests++
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, method, path string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.responses == nil {
		h.responses = make(map[string]int)
	}
	h.responses[method+" "+path] = status
}

func TestRequestHooksAndLogging(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	ts := newTestServer(t, Config{Logger: logger})

	sess := create(t, ts, `{"width": 2, "height": 2}`)
	do(t, http.MethodGet, ts.URL+"/api/v1/sessions/missing", "")
	do(t, http.MethodGet, ts.URL+"/api/v1/sessions/"+sess.ID, "")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	assert.Equal(t, 3, hooks.requests)
	assert.Equal(t, http.StatusCreated, hooks.responses["POST /api/v1/sessions"])
	assert.Equal(t, http.StatusOK, hooks.responses["GET /api/v1/sessions/{id}"])

	out := buf.String()
	assert.Contains(t, out, "session created")
	assert.Contains(t, out, "request rejected")
}
