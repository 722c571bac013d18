package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetrics_RegistersOnce(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()
	assert.Same(t, a, b)

	before := testutil.ToFloat64(a.TurnsTotal.WithLabelValues("healthcare", "results"))
	b.TurnsTotal.WithLabelValues("healthcare", "results").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(a.TurnsTotal.WithLabelValues("healthcare", "results")))
}
