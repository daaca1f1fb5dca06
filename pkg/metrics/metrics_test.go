package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordSave("insert")
	m.RecordSave("insert")
	m.RecordSave("update")
	m.RecordRemove()
	m.RecordAuthEvent("sign_in")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TradesSavedTotal.WithLabelValues("insert")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TradesSavedTotal.WithLabelValues("update")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TradesRemovedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthEventsTotal.WithLabelValues("sign_in")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordSave("insert")
		m.RecordRemove()
		m.RecordAuthEvent("sign_out")
	})
}
