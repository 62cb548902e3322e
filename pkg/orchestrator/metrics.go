package orchestrator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/entrhq/wifitoggle/pkg/reconcile"
)

var (
	metricRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wifitoggle",
		Name:      "runs_total",
		Help:      "Number of check and toggle runs, by mode and result.",
	}, []string{"mode", "result"})
	metricDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wifitoggle",
		Name:      "decisions_total",
		Help:      "Transitions chosen by toggle runs.",
	}, []string{"decision"})
	metricTeardowns = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wifitoggle",
		Name:      "browser_teardowns_total",
		Help:      "Number of browser sessions closed.",
	})
)

func recordRun(mode string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	metricRuns.WithLabelValues(mode, result).Inc()
}

func recordDecision(d reconcile.Decision) {
	metricDecisions.WithLabelValues(d.String()).Inc()
}

func recordTeardown() {
	metricTeardowns.Inc()
}
