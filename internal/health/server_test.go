package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthAndLive(t *testing.T) {
	s := NewServer(Config{ServiceName: "bet-outlier", Version: "1.0.0", Port: "9999"})

	for _, path := range []string{"/health", "/live"} {
		rec := serve(t, s, path)
		require.Equal(t, http.StatusOK, rec.Code, path)

		var resp StatusReport
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, "bet-outlier", resp.Service)
		assert.Equal(t, "1.0.0", resp.Version)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	}
}

func TestReadyRequiresSetReady(t *testing.T) {
	s := NewServer(Config{ServiceName: "bet-outlier"})

	rec := serve(t, s, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp StatusReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "not_ready", resp.Checks["watch"])

	s.SetReady(true)
	rec = serve(t, s, "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyRunsChecks(t *testing.T) {
	var tablesErr error
	s := NewServer(Config{
		ServiceName: "bet-outlier",
		Checks: map[string]Checker{
			"reference": CheckerFunc(func() error { return tablesErr }),
		},
	})
	s.SetReady(true)

	rec := serve(t, s, "/ready")
	require.Equal(t, http.StatusOK, rec.Code)

	tablesErr = errors.New("reference tables not loaded")
	rec = serve(t, s, "/ready")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp StatusReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "not_ready", resp.Status)
	assert.Equal(t, "error: reference tables not loaded", resp.Checks["reference"])
	assert.Equal(t, "ok", resp.Checks["watch"])
}

func TestMetricsHandlerMounted(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("bet_outlier_analyses_total 1\n"))
	})

	s := NewServer(Config{ServiceName: "bet-outlier", MetricsHandler: metrics, MetricsPath: "/prom"})
	rec := serve(t, s, "/prom")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bet_outlier_analyses_total")

	rec = serve(t, NewServer(Config{ServiceName: "bet-outlier"}), "/metrics")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPortFallback(t *testing.T) {
	t.Setenv("HEALTH_PORT", "")
	assert.Equal(t, "8080", NewServer(Config{}).cfg.Port)

	t.Setenv("HEALTH_PORT", "9100")
	assert.Equal(t, "9100", NewServer(Config{}).cfg.Port)
}
