package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	ferrors "git.home.luguber.info/inful/faqindex/internal/foundation/errors"
)

const namespace = "faqindex"

// PrometheusRecorder implements Recorder on a Prometheus registry.
type PrometheusRecorder struct {
	registry      *prom.Registry
	stageDuration *prom.HistogramVec
	entries       prom.Gauge
	runOutcomes   *prom.CounterVec
	drift         prom.Gauge
}

// NewPrometheusRecorder registers the run metrics on reg, or on a fresh
// registry when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual generation stages",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"stage"}),
		entries: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "entries",
			Help:      "Number of entries in the last generated index",
		}),
		runOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "run_outcomes_total",
			Help:      "Runs by mode and final outcome",
		}, []string{"mode", "outcome"}),
		drift: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "drift_detected",
			Help:      "1 when the last check found the committed index out of date",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.entries, pr.runOutcomes, pr.drift)
	return pr
}

// Registry returns the registry the metrics are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.registry }

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) SetEntries(n int) {
	p.entries.Set(float64(n))
}

func (p *PrometheusRecorder) IncRunOutcome(mode string, outcome Outcome) {
	p.runOutcomes.WithLabelValues(mode, string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetDriftDetected(drifted bool) {
	v := 0.0
	if drifted {
		v = 1
	}
	p.drift.Set(v)
}

// WriteTextfile writes the registry in the text exposition format. The
// client library writes to a temporary file and renames it into place.
func (p *PrometheusRecorder) WriteTextfile(filename string) error {
	if err := prom.WriteToTextfile(filename, p.registry); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write metrics textfile").WithPath(filename).Build()
	}
	return nil
}
