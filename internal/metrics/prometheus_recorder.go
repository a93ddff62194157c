package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder on client_golang collectors.
type PrometheusRecorder struct {
	stageDuration  *prom.HistogramVec
	buildDuration  prom.Histogram
	stageResults   *prom.CounterVec
	buildOutcomes  *prom.CounterVec
	pagesConverted prom.Counter
	brokenLinks    prom.Gauge
}

// NewPrometheusRecorder constructs collectors and registers them on reg.
// A nil registry gets its own private one, which keeps tests independent.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "blogbuild",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "blogbuild",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "blogbuild",
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		buildOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "blogbuild",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		pagesConverted: prom.NewCounter(prom.CounterOpts{
			Namespace: "blogbuild",
			Name:      "pages_converted_total",
			Help:      "Gemini pages written across builds",
		}),
		brokenLinks: prom.NewGauge(prom.GaugeOpts{
			Namespace: "blogbuild",
			Name:      "broken_links",
			Help:      "Broken internal links found by the last link check",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults,
		pr.buildOutcomes, pr.pagesConverted, pr.brokenLinks)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil {
		return
	}
	p.buildOutcomes.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) AddPagesConverted(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.pagesConverted.Add(float64(n))
}

func (p *PrometheusRecorder) SetBrokenLinks(n int) {
	if p == nil {
		return
	}
	p.brokenLinks.Set(float64(n))
}
