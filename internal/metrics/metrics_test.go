package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIsIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	require.NoError(t, Register(reg))
}

func TestObserveUploadCountsOutcomes(t *testing.T) {
	success := testutil.ToFloat64(uploadsTotal.WithLabelValues(OutcomeSuccess))
	failed := testutil.ToFloat64(uploadsTotal.WithLabelValues(OutcomeError))

	ObserveUpload(20*time.Millisecond, 12, OutcomeSuccess)
	ObserveUpload(0, 0, OutcomeError)
	ObserveUpload(-time.Second, 3, "anything else")

	assert.Equal(t, success+2, testutil.ToFloat64(uploadsTotal.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, failed+1, testutil.ToFloat64(uploadsTotal.WithLabelValues(OutcomeError)))
}
