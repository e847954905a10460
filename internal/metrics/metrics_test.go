package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRegistryIdempotent(t *testing.T) {
	first := InitRegistry()
	second := InitRegistry()
	require.NotNil(t, first)
	assert.Same(t, first, second)
	assert.Same(t, first, GetRegistry())
}

func TestRecordersDoNotPanic(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordSimulationRun("majority_agree", "success")
		RecordOptimizerSweep(36)
		SetOptimizerProgress(10, 36)
		ObserveMonteCarloDuration(0.25)
		RecordPredictionFetch("success")
		RecordPredictionCache("hit")
	})
}

func TestHandlerServesMetrics(t *testing.T) {
	InitRegistry()
	RecordSimulationRun("all_agree", "success")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "hindsight_simulation_runs_total"),
		"expected simulation counter in metrics output")
}
