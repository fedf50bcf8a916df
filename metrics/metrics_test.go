package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saythenumber/shared/types"
)

func TestAttemptFinishedCounts(t *testing.T) {
	c := NewCollector()
	start := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

	c.AttemptFinished(types.Outcome{Path: types.PathNow, State: types.StateSucceeded, StartedAt: start, FinishedAt: start.Add(200 * time.Millisecond)})
	c.AttemptFinished(types.Outcome{Path: types.PathNow, State: types.StateSucceeded, StartedAt: start, FinishedAt: start.Add(time.Second)})
	c.AttemptFinished(types.Outcome{
		Path: types.PathDelay, State: types.StateFailed,
		Error:     &types.ErrorInfo{Kind: types.KindRateLimited},
		StartedAt: start, FinishedAt: start.Add(3 * time.Second),
	})
	c.AttemptFinished(types.Outcome{
		Path: types.PathNow, State: types.StateFailed,
		Error: &types.ErrorInfo{Kind: types.KindEmptyInput},
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(c.attempts.WithLabelValues("now", "succeeded", "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.attempts.WithLabelValues("delay", "failed", "rate_limited")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.attempts.WithLabelValues("now", "failed", "empty_input")))

	// one series per timed path; the local rejection is not observed
	assert.Equal(t, 2, testutil.CollectAndCount(c.duration))
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := NewCollector()
	c.AttemptFinished(types.Outcome{Path: types.PathNow, State: types.StateSucceeded})

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `saythenumber_attempts_total{kind="",path="now",state="succeeded"} 1`), body)
	assert.Contains(t, body, "go_goroutines")
}
