// Package metrics defines observability hooks for the build pipeline.
// The default NoopRecorder keeps one-shot CLI builds dependency-free at
// runtime; watch mode swaps in the Prometheus recorder behind /metrics.
package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder receives build and stage observations. Implementations must
// tolerate concurrent use; watch mode rebuilds while scrapes happen.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	// IncBuildOutcome takes the report outcome: success|warning|failed|canceled.
	IncBuildOutcome(outcome string)
	AddPagesConverted(n int)
	SetBrokenLinks(n int)
}

// NoopRecorder is the Recorder used when metrics are not configured.
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncBuildOutcome(string)                     {}
func (NoopRecorder) AddPagesConverted(int)                      {}
func (NoopRecorder) SetBrokenLinks(int)                         {}
