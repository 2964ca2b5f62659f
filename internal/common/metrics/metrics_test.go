package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(CacheLookups.WithLabelValues("catalog", "hit"))
	CacheLookups.WithLabelValues("catalog", "hit").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(CacheLookups.WithLabelValues("catalog", "hit")))

	WorkerJobsFailed.WithLabelValues("submit-assessment", "ASSESSMENT_PERSIST_FAILED").Inc()
	assert.GreaterOrEqual(t, testutil.ToFloat64(WorkerJobsFailed.WithLabelValues("submit-assessment", "ASSESSMENT_PERSIST_FAILED")), 1.0)
}

func TestMatchScoresHistogram(t *testing.T) {
	MatchScores.Observe(85)
	assert.Equal(t, 1, testutil.CollectAndCount(MatchScores))
}
