package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/KamilPietrzak/blogbuild/internal/config"
	"github.com/KamilPietrzak/blogbuild/internal/gemini"
	"github.com/KamilPietrzak/blogbuild/internal/linkcheck"
	"github.com/KamilPietrzak/blogbuild/internal/logfields"
	"github.com/KamilPietrzak/blogbuild/internal/metrics"
	"github.com/KamilPietrzak/blogbuild/internal/site"
)

// Stage is a discrete unit of work in the site build.
type Stage func(ctx context.Context, st *State) error

// Stage names, in execution order.
const (
	stageResolveSite   = "resolve_site"
	stageRunHugo       = "run_hugo"
	stageConvertGemini = "convert_gemini"
	stageCheckLinks    = "check_links"
	stageRecordHistory = "record_history"
)

// StageErrorKind enumerates structured stage error categories.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Build must abort.
	StageErrorWarning  StageErrorKind = "warning"  // Non-fatal; record and continue.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying category and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage string, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}

func newWarnStageError(stage string, err error) *StageError {
	return &StageError{Kind: StageErrorWarning, Stage: stage, Err: err}
}

func newCanceledStageError(stage string, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// State carries mutable build state across stages.
type State struct {
	Config       *config.Config
	RootOverride string
	Site         site.Site
	Report       *Report
	Gemini       *gemini.Result
	Links        *linkcheck.Result

	historyAttempted bool
}

type namedStage struct {
	name string
	fn   Stage
}

// runStages executes stages in order, recording per-stage timings and
// stopping at the first fatal or canceled error. Warnings are recorded
// and the pipeline continues.
func (s *Service) runStages(ctx context.Context, st *State, stages []namedStage) error {
	for _, stage := range stages {
		select {
		case <-ctx.Done():
			se := newCanceledStageError(stage.name, ctx.Err())
			st.Report.Errors = append(st.Report.Errors, se)
			st.Report.StageErrorKinds[stage.name] = se.Kind
			s.recorder.IncStageResult(stage.name, metrics.ResultCanceled)
			return se
		default:
		}

		t0 := time.Now()
		err := stage.fn(ctx, st)
		dur := time.Since(t0)
		st.Report.StageDurations[stage.name] = dur
		s.recorder.ObserveStageDuration(stage.name, dur)

		if err == nil {
			s.recorder.IncStageResult(stage.name, metrics.ResultSuccess)
			slog.Debug("Stage completed",
				logfields.Stage(stage.name),
				logfields.DurationMS(float64(dur)/float64(time.Millisecond)))
			continue
		}

		var se *StageError
		if !errors.As(err, &se) {
			se = newFatalStageError(stage.name, err)
		}
		st.Report.StageErrorKinds[stage.name] = se.Kind

		switch se.Kind {
		case StageErrorWarning:
			st.Report.Warnings = append(st.Report.Warnings, se)
			s.recorder.IncStageResult(stage.name, metrics.ResultWarning)
			slog.Warn("Stage completed with warning",
				logfields.Stage(stage.name),
				logfields.Error(se.Err))
			continue
		case StageErrorCanceled:
			st.Report.Errors = append(st.Report.Errors, se)
			s.recorder.IncStageResult(stage.name, metrics.ResultCanceled)
			return se
		default:
			st.Report.Errors = append(st.Report.Errors, se)
			s.recorder.IncStageResult(stage.name, metrics.ResultFatal)
			return se
		}
	}
	return nil
}
