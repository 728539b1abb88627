package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"ledger/internal/domain"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCollector_RecordTransaction(t *testing.T) {
	m := NewMetricsCollector(nil)

	m.RecordTransaction("deposit", domain.OutcomeAccepted, 100)
	m.RecordTransaction("withdrawal", domain.OutcomeAccepted, 40)
	m.RecordTransaction("withdrawal", "insufficient_funds", 900)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.transactions.WithLabelValues("deposit", domain.OutcomeAccepted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transactions.WithLabelValues("withdrawal", "insufficient_funds")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.transactionAmount))
}

func TestMetricsCollector_UpdateAccountBalance(t *testing.T) {
	m := NewMetricsCollector(nil)

	m.UpdateAccountBalance(1, 70)
	m.UpdateAccountBalance(1, 65.5)

	assert.Equal(t, 65.5, testutil.ToFloat64(m.accountBalance.WithLabelValues("1")))
}

func TestMetricsCollector_Handler(t *testing.T) {
	m := NewMetricsCollector(nil)
	m.RecordTransaction("deposit", domain.OutcomeAccepted, 10)

	rec := httptest.NewRecorder()
	m.GetHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `ledger_transactions_total{kind="deposit",outcome="accepted"} 1`))
}
