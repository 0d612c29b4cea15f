package prometheus

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/bank-ledger/internal/metrics"
)

func TestPrometheusCollector(t *testing.T) {
	pc := NewPrometheusCollector("ledger")
	reg := prometheus.NewRegistry()
	require.NoError(t, pc.Register(reg))

	pc.RecordAccountOpened()
	pc.RecordAccountOpened()
	pc.RecordTransfer(metrics.StatusOK, 2*time.Millisecond)
	pc.RecordTransfer(metrics.StatusInsufficientFunds, time.Millisecond)
	pc.RecordFlagged()
	pc.RecordAuditError("kafka")

	assert.Equal(t, 2.0, testutil.ToFloat64(pc.accountsOpened))
	assert.Equal(t, 1.0, testutil.ToFloat64(pc.transfers.WithLabelValues(metrics.StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(pc.transfers.WithLabelValues(metrics.StatusInsufficientFunds)))
	assert.Equal(t, 1.0, testutil.ToFloat64(pc.flagged))
	assert.Equal(t, 1.0, testutil.ToFloat64(pc.auditErrors.WithLabelValues("kafka")))
}

func TestRegisterTwiceFails(t *testing.T) {
	pc := NewPrometheusCollector("ledger")
	reg := prometheus.NewRegistry()
	require.NoError(t, pc.Register(reg))
	assert.Error(t, pc.Register(reg))
}
