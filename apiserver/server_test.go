package apiserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/netrixframework/kbandit/log"
	"github.com/netrixframework/kbandit/simulation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResult() *simulation.Result {
	return &simulation.Result{
		Seed:      5,
		K:         2,
		Runs:      1,
		Timesteps: 3,
		Method:    "sample_average",
		Configs: []*simulation.ConfigResult{
			{
				Epsilon:       0.1,
				MeanReward:    []float64{0.5, 1, 1.5},
				OptimalAction: []float64{0, 1, 1},
				TrueValues:    []float64{1.2, -0.3},
				BestAction:    0,
				RewardNoise:   1,
			},
		},
	}
}

func get(t *testing.T, srv *APIServer, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestNoResultYet(t *testing.T) {
	srv := NewAPIServer("", log.Discard())
	for _, path := range []string{"/results", "/results/0", "/summary", "/charts/rewards", "/charts/distribution/0"} {
		assert.Equal(t, http.StatusServiceUnavailable, get(t, srv, path).Code, path)
	}
}

func TestResults(t *testing.T) {
	srv := NewAPIServer("", log.Discard())
	srv.SetResult(testResult())

	w := get(t, srv, "/results")
	require.Equal(t, http.StatusOK, w.Code)
	var result simulation.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, testResult(), &result)

	w = get(t, srv, "/results/0")
	require.Equal(t, http.StatusOK, w.Code)
	var config simulation.ConfigResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &config))
	assert.Equal(t, testResult().Configs[0], &config)

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/results/1").Code)
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/results/-1").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/results/abc").Code)
}

func TestSummary(t *testing.T) {
	srv := NewAPIServer("", log.Discard())
	srv.SetResult(testResult())

	w := get(t, srv, "/summary")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Seed      uint64               `json:"seed"`
		Summaries []simulation.Summary `json:"summaries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, uint64(5), body.Seed)
	require.Len(t, body.Summaries, 1)
	assert.Equal(t, 1.5, body.Summaries[0].FinalMeanReward)
	assert.Equal(t, 1.0, body.Summaries[0].FinalOptimal)
}

func TestCharts(t *testing.T) {
	srv := NewAPIServer("", log.Discard())
	srv.SetResult(testResult())

	for _, path := range []string{"/charts/rewards", "/charts/optimal", "/charts/distribution/0"} {
		w := get(t, srv, path)
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.NotZero(t, w.Body.Len())
	}
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/charts/distribution/3").Code)
}

func TestRootRedirect(t *testing.T) {
	srv := NewAPIServer("", log.Discard())
	w := get(t, srv, "/")
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "/results", w.Header().Get("Location"))
}
