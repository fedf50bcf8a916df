package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saythenumber/history"
	"saythenumber/metrics"
	"saythenumber/orchestrator"
	"saythenumber/shared/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubConverter struct {
	mu    sync.Mutex
	seen  []string
	gate  chan struct{}
	words string
}

func (s *stubConverter) convert(path, literal string) (*types.Envelope, error) {
	s.mu.Lock()
	s.seen = append(s.seen, path+":"+literal)
	gate := s.gate
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return &types.Envelope{Status: types.StatusOK, NumInEnglish: s.words}, nil
}

func (s *stubConverter) ConvertNow(ctx context.Context, literal string) (*types.Envelope, error) {
	return s.convert("now", literal)
}

func (s *stubConverter) ConvertWithDelay(ctx context.Context, literal string) (*types.Envelope, error) {
	return s.convert("delay", literal)
}

func (s *stubConverter) Seen() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.seen...)
}

type memStore struct {
	mu      sync.Mutex
	objects map[string]string
}

func (m *memStore) Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[bucket+"/"+key] = string(b)
	return nil
}

func (m *memStore) Exists(ctx context.Context, bucket, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[bucket+"/"+key]
	return ok, nil
}

type fixture struct {
	router   *gin.Engine
	orch     *orchestrator.Orchestrator
	conv     *stubConverter
	recorder *history.Recorder
	store    *memStore
}

func newFixture(t *testing.T, withExporter bool) *fixture {
	t.Helper()
	f := &fixture{
		conv:     &stubConverter{words: "forty-two"},
		recorder: history.NewRecorder(10),
		store:    &memStore{objects: map[string]string{}},
	}
	collector := metrics.NewCollector()
	f.orch = orchestrator.New(f.conv, orchestrator.WithObservers(f.recorder, collector))

	deps := Dependencies{
		Orchestrator: f.orch,
		History:      f.recorder,
		Metrics:      collector.Handler(),
	}
	if withExporter {
		deps.Exporter = history.NewExporter(f.store, "bucket", "history")
	}
	f.router = NewRouter(deps)
	return f
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) settle(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, f.orch.Wait(ctx))
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) types.Snapshot {
	t.Helper()
	var snap types.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap), rec.Body.String())
	return snap
}

func TestHealth(t *testing.T) {
	f := newFixture(t, false)
	rec := f.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSayNowNormalizesAndDispatches(t *testing.T) {
	f := newFixture(t, false)

	rec := f.do(http.MethodPost, "/api/say-now", `{"number":"abc4-2"}`)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	f.settle(t)

	assert.Equal(t, []string{"now:-42"}, f.conv.Seen())

	status := f.do(http.MethodGet, "/api/status", "")
	snap := decodeSnapshot(t, status)
	assert.Equal(t, types.StateSucceeded, snap.State)
	assert.Equal(t, "forty-two", snap.Answer)
	assert.Equal(t, "-42", snap.Literal)
}

func TestSayAcceptedBodyIsDispatchView(t *testing.T) {
	f := newFixture(t, false)

	// The stub answers at once, so the attempt often settles before the body is written.
	for i := 0; i < 20; i++ {
		rec := f.do(http.MethodPost, "/api/say-now", `{"number":"7"}`)
		require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
		snap := decodeSnapshot(t, rec)
		assert.Equal(t, types.StateLoading, snap.State)
		assert.True(t, snap.Loading)
		assert.Empty(t, snap.Answer)
		f.settle(t)
	}
}

func TestSayDelayAcceptsJSONNumber(t *testing.T) {
	f := newFixture(t, false)

	rec := f.do(http.MethodPost, "/api/say-delay", `{"number":42.50}`)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	f.settle(t)

	assert.Equal(t, []string{"delay:42.50"}, f.conv.Seen())
}

func TestSayLocalFailureIsImmediate(t *testing.T) {
	f := newFixture(t, false)

	cases := []struct {
		name string
		body string
		kind types.ErrorKind
	}{
		{"empty", `{"number":"letters only"}`, types.KindEmptyInput},
		{"missing field", `{}`, types.KindEmptyInput},
		{"too large", `{"number":"123456789123456789123456789"}`, types.KindTooLarge},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := f.do(http.MethodPost, "/api/say-now", c.body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			snap := decodeSnapshot(t, rec)
			assert.Equal(t, types.StateFailed, snap.State)
			require.NotNil(t, snap.Error)
			assert.Equal(t, c.kind, snap.Error.Kind)
		})
	}
	assert.Empty(t, f.conv.Seen())
}

func TestSayConflictWhileLoading(t *testing.T) {
	f := newFixture(t, false)
	f.conv.gate = make(chan struct{})

	require.Equal(t, http.StatusAccepted, f.do(http.MethodPost, "/api/say-now", `{"number":"1"}`).Code)

	rec := f.do(http.MethodPost, "/api/say-delay", `{"number":"2"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"loading":true`)

	close(f.conv.gate)
	f.settle(t)
	assert.Equal(t, []string{"now:1"}, f.conv.Seen())
}

func TestSayBadJSON(t *testing.T) {
	f := newFixture(t, false)
	for _, body := range []string{`{"number":`, `{"number":true}`} {
		rec := f.do(http.MethodPost, "/api/say-now", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestHistoryAndExport(t *testing.T) {
	f := newFixture(t, true)

	f.do(http.MethodPost, "/api/say-now", `{"number":""}`)
	f.do(http.MethodPost, "/api/say-now", `{"number":"7"}`)
	f.settle(t)

	rec := f.do(http.MethodGet, "/api/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var outcomes []types.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcomes))
	require.Len(t, outcomes, 2)
	assert.Equal(t, types.StateFailed, outcomes[0].State)
	assert.Equal(t, "7", outcomes[1].Literal)

	rec = f.do(http.MethodPost, "/api/history/export", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var body struct {
		Key string `json:"key"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, strings.HasPrefix(body.Key, "history/"), body.Key)
	assert.Equal(t, 2, strings.Count(f.store.objects["bucket/"+body.Key], "\n"))
}

func TestExportNotConfigured(t *testing.T) {
	f := newFixture(t, false)
	rec := f.do(http.MethodPost, "/api/history/export", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsRoute(t *testing.T) {
	f := newFixture(t, false)
	f.do(http.MethodPost, "/api/say-now", `{"number":""}`)

	rec := f.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `saythenumber_attempts_total{kind="empty_input",path="now",state="failed"} 1`)
}
