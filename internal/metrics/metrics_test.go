package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestLedgerObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLedger(reg)

	m.Observe("apply_delta", time.Now(), nil)
	m.Observe("apply_delta", time.Now(), nil)
	m.Observe("settle", time.Now(), errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("apply_delta", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("settle", ResultError)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.operations.WithLabelValues("settle", ResultOK)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
}

func TestNilLedgerIsNoop(t *testing.T) {
	var m *Ledger
	assert.NotPanics(t, func() { m.Observe("settle", time.Now(), nil) })
}
