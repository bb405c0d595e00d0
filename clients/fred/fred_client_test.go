package fred

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, bodies map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/series/observations", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		body, ok := bodies[r.URL.Query().Get("series_id")]
		if !ok {
			http.Error(w, `{"error_message":"Bad Request"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLatest_SkipsMissingObservations(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"DFF": `{"observations":[{"date":"2024-05-02","value":"."},{"date":"2024-05-01","value":"5.33"}]}`,
	})
	c := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(100))

	v, err := c.Latest(context.Background(), SeriesInterestRate)
	require.NoError(t, err)
	assert.Equal(t, 5.33, v)
}

func TestLatest_NoObservations(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"UNRATE": `{"observations":[{"date":"2024-05-01","value":"."}]}`,
	})
	c := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(100))

	_, err := c.Latest(context.Background(), SeriesUnemploymentRate)
	assert.ErrorIs(t, err, ErrNoObservations)
}

func TestLatest_RequiresAPIKey(t *testing.T) {
	_, err := NewClient("").Latest(context.Background(), SeriesInterestRate)
	assert.Error(t, err)
}

func TestIndicators_PartialFailure(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"DFF":    `{"observations":[{"date":"2024-05-01","value":"2.5"}]}`,
		"UNRATE": `{"observations":[{"date":"2024-05-01","value":"4.0"}]}`,
	})
	c := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(100))

	macro, err := c.Indicators(context.Background())
	assert.Error(t, err)
	require.NotNil(t, macro.InterestRate)
	require.NotNil(t, macro.UnemploymentRate)
	assert.InDelta(t, 0.025, *macro.InterestRate, 1e-12)
	assert.InDelta(t, 0.04, *macro.UnemploymentRate, 1e-12)
	assert.Nil(t, macro.GDPGrowth)
}
