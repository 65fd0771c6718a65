package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordTurn(t *testing.T) {
	before := testutil.ToFloat64(turnsTotal.WithLabelValues("clarify"))
	RecordTurn("clarify")
	assert.Equal(t, before+1, testutil.ToFloat64(turnsTotal.WithLabelValues("clarify")))
}

func TestRecordOracleCostIgnoresZero(t *testing.T) {
	before := testutil.ToFloat64(oracleCostUSD.WithLabelValues("gemini-test"))
	RecordOracleCost("gemini-test", 0)
	RecordOracleCost("gemini-test", -1)
	assert.Equal(t, before, testutil.ToFloat64(oracleCostUSD.WithLabelValues("gemini-test")))

	RecordOracleCost("gemini-test", 0.25)
	assert.InDelta(t, before+0.25, testutil.ToFloat64(oracleCostUSD.WithLabelValues("gemini-test")), 1e-9)
}

func TestFallbackCounters(t *testing.T) {
	state := testutil.ToFloat64(stateFallbacksTotal)
	clarify := testutil.ToFloat64(clarifyFallbacksTotal)

	RecordStateFallback()
	RecordClarifyFallback()

	assert.Equal(t, state+1, testutil.ToFloat64(stateFallbacksTotal))
	assert.Equal(t, clarify+1, testutil.ToFloat64(clarifyFallbacksTotal))
}

func TestObserveHTTP(t *testing.T) {
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "/chat", "200"))
	ObserveHTTP("POST", "/chat", "200", 150*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "/chat", "200")))

	HTTPInflightInc()
	assert.Equal(t, float64(1), testutil.ToFloat64(httpInflight))
	HTTPInflightDec()
	assert.Equal(t, float64(0), testutil.ToFloat64(httpInflight))
}
