package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordOutcome(t *testing.T) {
	before := testutil.ToFloat64(OutcomesTotal.WithLabelValues("success"))
	RecordOutcome("success")
	assert.Equal(t, before+1, testutil.ToFloat64(OutcomesTotal.WithLabelValues("success")))
}

func TestSetWatcherActive(t *testing.T) {
	SetWatcherActive(true)
	assert.Equal(t, float64(1), testutil.ToFloat64(WatcherActive))
	SetWatcherActive(false)
	assert.Equal(t, float64(0), testutil.ToFloat64(WatcherActive))
}

func TestObserveStep(t *testing.T) {
	before := testutil.CollectAndCount(StepDuration)
	ObserveStep("test_step", time.Now().Add(-time.Second))
	assert.Equal(t, before+1, testutil.CollectAndCount(StepDuration))
}
