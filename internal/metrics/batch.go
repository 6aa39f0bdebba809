package metrics

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Registry holds every pulsesim collector. It is separate from the default
// registry so that dumps contain only simulator series.
var Registry = prometheus.NewRegistry()

var (
	batchesTotal = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: "pulsesim",
		Name:      "batches_total",
		Help:      "Batches executed, by trial kind and outcome.",
	}, []string{"kind", "status"})

	trialsTotal = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: "pulsesim",
		Name:      "trials_total",
		Help:      "Trials written into completed batches.",
	}, []string{"kind"})

	batchDuration = promauto.With(Registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pulsesim",
		Name:      "batch_duration_seconds",
		Help:      "Wall time of a whole batch.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
	}, []string{"kind"})
)

const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// ObserveBatch records one finished batch. trials is only counted for
// successful batches since failed ones return no results.
func ObserveBatch(kind string, trials int, elapsed time.Duration, err error) {
	if kind == "" {
		kind = "unnamed"
	}
	if err != nil {
		batchesTotal.WithLabelValues(kind, StatusFailed).Inc()
		return
	}
	batchesTotal.WithLabelValues(kind, StatusOK).Inc()
	trialsTotal.WithLabelValues(kind).Add(float64(trials))
	batchDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// WriteText dumps Registry in the Prometheus text exposition format.
func WriteText(w io.Writer) error {
	families, err := Registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
