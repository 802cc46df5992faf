package contract

import (
	"math/big"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"moloch_dao/contract/dao"
)

const metricsNamespace = "moloch"

// Metrics exposes engine activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	calls           *prometheus.CounterVec
	callDuration    *prometheus.HistogramVec
	processed       *prometheus.CounterVec
	transfers       prometheus.Counter
	totalShares     prometheus.Gauge
	sharesRequested prometheus.Gauge
	bankBalance     prometheus.Gauge
	queueLength     prometheus.Gauge
}

// NewMetrics builds and registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "engine",
			Name:      "calls_total",
			Help:      "Engine calls by action and result kind",
		}, []string{"action", "result"}),
		callDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "engine",
			Name:      "call_duration_seconds",
			Help:      "Wall time of engine calls including commit",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"action"}),
		processed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "proposals",
			Name:      "processed_total",
			Help:      "Processed proposals by outcome",
		}, []string{"outcome"}),
		transfers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "bank",
			Name:      "transfers_total",
			Help:      "Outgoing token transfers executed",
		}),
		totalShares: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "guild",
			Name:      "total_shares",
			Help:      "Current total shares",
		}),
		sharesRequested: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "guild",
			Name:      "total_shares_requested",
			Help:      "Shares requested by unprocessed proposals",
		}),
		bankBalance: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "bank",
			Name:      "balance",
			Help:      "Guild bank balance in token base units",
		}),
		queueLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "proposals",
			Name:      "queue_length",
			Help:      "Proposals ever submitted",
		}),
	}
	reg.MustRegister(m.calls, m.callDuration, m.processed, m.transfers,
		m.totalShares, m.sharesRequested, m.bankBalance, m.queueLength)
	return m
}

func (m *Metrics) observeCall(action string, err error, took time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = KindOf(err).String()
	}
	m.calls.WithLabelValues(action, result).Inc()
	m.callDuration.WithLabelValues(action).Observe(took.Seconds())
}

func (m *Metrics) observeProcessed(passed bool) {
	if m == nil {
		return
	}
	if passed {
		m.processed.WithLabelValues(dao.PhasePassed.String()).Inc()
	} else {
		m.processed.WithLabelValues(dao.PhaseFailed.String()).Inc()
	}
}

func (m *Metrics) observeTransfer() {
	if m == nil {
		return
	}
	m.transfers.Inc()
}

func (m *Metrics) observeTotals(t dao.Totals) {
	if m == nil {
		return
	}
	m.totalShares.Set(u128Float(t.TotalShares))
	m.sharesRequested.Set(u128Float(t.TotalSharesRequested))
	m.bankBalance.Set(u128Float(t.BankBalance))
	m.queueLength.Set(float64(t.QueueLength))
}

// u128Float loses precision above 2^53, fine for dashboards.
func u128Float(v dao.U128) float64 {
	f, _ := new(big.Float).SetInt(v.Int().ToBig()).Float64()
	return f
}
