package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"ledger/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsCollector struct {
	registry          *prometheus.Registry
	transactions      *prometheus.CounterVec
	transactionAmount *prometheus.HistogramVec
	accountBalance    *prometheus.GaugeVec
	logger            *slog.Logger
}

func NewMetricsCollector(logger *slog.Logger) *MetricsCollector {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()

	return &MetricsCollector{
		registry: registry,
		transactions: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_transactions_total",
			Help: "Deposits and withdrawals by outcome",
		}, []string{"kind", "outcome"}),
		transactionAmount: promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ledger_transaction_amount",
			Help:    "Amounts of accepted transactions",
			Buckets: []float64{10, 50, 100, 250, 500, 1000, 5000},
		}, []string{"kind"}),
		accountBalance: promauto.With(registry).NewGaugeVec(prometheus.GaugeOpts{
			Name: "ledger_account_balance",
			Help: "Current account balance",
		}, []string{"account"}),
		logger: logger,
	}
}

// RecordTransaction counts one evaluated operation. outcome is
// domain.OutcomeAccepted or the rejection reason; amount is observed only for
// accepted operations.
func (m *MetricsCollector) RecordTransaction(kind, outcome string, amount float64) {
	m.transactions.WithLabelValues(kind, outcome).Inc()
	if outcome == domain.OutcomeAccepted {
		m.transactionAmount.WithLabelValues(kind).Observe(amount)
	}
}

func (m *MetricsCollector) UpdateAccountBalance(accountNumber int, balance float64) {
	m.accountBalance.WithLabelValues(strconv.Itoa(accountNumber)).Set(balance)
}

func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

func (m *MetricsCollector) GetHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *MetricsCollector) StartMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.GetHandler())

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		m.logger.Info("Starting metrics server", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			m.logger.Error("Metrics server failed", slog.String("error", err.Error()))
		}
	}()

	return server
}

func (m *MetricsCollector) Shutdown(ctx context.Context, server *http.Server) error {
	if server == nil {
		return nil
	}
	if err := server.Shutdown(ctx); err != nil {
		return err
	}
	m.logger.Info("Metrics server shutdown complete")
	return nil
}
