package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "openweb3"

var (
	// wallet operations by name and outcome
	walletOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "wallet",
		Name:      "operations_total",
		Help:      "Total number of wallet session operations",
	}, []string{"op", "result"})

	// scrypt and derivation dominate these
	walletOpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "wallet",
		Name:      "operation_duration_seconds",
		Help:      "Duration of wallet session operations in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"op"})

	walletUnlocked = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "wallet",
		Name:      "unlocked",
		Help:      "Whether the wallet session is unlocked (1 = unlocked, 0 = locked or uninitialized)",
	})

	apiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "Total number of local API requests",
	}, []string{"method", "status"})
)

// ObserveOp records one finished wallet operation
func ObserveOp(op, result string, started time.Time) {
	walletOpsTotal.WithLabelValues(op, result).Inc()
	walletOpDuration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

func SetUnlocked(unlocked bool) {
	if unlocked {
		walletUnlocked.Set(1)
	} else {
		walletUnlocked.Set(0)
	}
}

func ObserveRequest(method string, status int) {
	apiRequestsTotal.WithLabelValues(method, statusClass(status)).Inc()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
