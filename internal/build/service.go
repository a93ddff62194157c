// Package build provides the canonical build execution pipeline: render
// the Hugo site, convert content to Gemini, then run the optional
// post-build stages. All execution paths (CLI, watch mode, tests) route
// through BuildService.
package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KamilPietrzak/blogbuild/internal/gemini"
	"github.com/KamilPietrzak/blogbuild/internal/gitinfo"
	"github.com/KamilPietrzak/blogbuild/internal/history"
	"github.com/KamilPietrzak/blogbuild/internal/hugo"
	"github.com/KamilPietrzak/blogbuild/internal/linkcheck"
	"github.com/KamilPietrzak/blogbuild/internal/logfields"
	"github.com/KamilPietrzak/blogbuild/internal/metrics"
	"github.com/KamilPietrzak/blogbuild/internal/notify"
	"github.com/KamilPietrzak/blogbuild/internal/site"

	"github.com/KamilPietrzak/blogbuild/internal/config"
)

// BuildService is the canonical interface for executing site builds.
type BuildService interface {
	// Run executes the complete pipeline: resolve root, render Hugo,
	// convert to Gemini, check links, record history.
	Run(ctx context.Context, req Request) (*Result, error)
}

// Request contains the inputs for one build.
type Request struct {
	// Config is the loaded configuration for this build.
	Config *config.Config
	// Root overrides executable-derived site root resolution when set.
	Root string
}

// Result contains the outcome of a build execution.
type Result struct {
	// Status mirrors Report.Outcome for callers that only branch on it.
	Status Outcome
	// Report carries detailed metrics and diagnostics.
	Report *Report
	// Root is the resolved site root the build ran in.
	Root      string
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// Service is the standard implementation of BuildService.
type Service struct {
	renderer  hugo.Renderer
	recorder  metrics.Recorder
	store     history.Store
	publisher notify.Publisher
	stdout    io.Writer
}

var _ BuildService = (*Service)(nil)

// NewService creates a Service with no-op observability hooks. The
// renderer defaults to the hugo binary configured per request.
func NewService() *Service {
	return &Service{
		recorder:  metrics.NoopRecorder{},
		publisher: notify.NoopPublisher{},
		stdout:    os.Stdout,
	}
}

// WithRenderer injects a site renderer (used by tests and dry runs).
func (s *Service) WithRenderer(r hugo.Renderer) *Service {
	s.renderer = r
	return s
}

// WithRecorder injects a metrics recorder.
func (s *Service) WithRecorder(r metrics.Recorder) *Service {
	if r != nil {
		s.recorder = r
	}
	return s
}

// WithHistoryStore enables build history recording.
func (s *Service) WithHistoryStore(st history.Store) *Service {
	s.store = st
	return s
}

// WithPublisher injects a build notification publisher.
func (s *Service) WithPublisher(p notify.Publisher) *Service {
	if p != nil {
		s.publisher = p
	}
	return s
}

// WithStdout redirects progress banners (used by tests).
func (s *Service) WithStdout(w io.Writer) *Service {
	if w != nil {
		s.stdout = w
	}
	return s
}

// Run executes the complete build pipeline.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Config == nil {
		s.recorder.IncBuildOutcome(string(OutcomeFailed))
		return nil, ErrConfigRequired
	}

	report := newReport(uuid.NewString())
	result := &Result{StartTime: report.Start, Report: report}

	slog.Info("Build started", logfields.BuildID(report.BuildID))

	st := &State{Config: req.Config, RootOverride: req.Root, Report: report}
	stages := []namedStage{
		{stageResolveSite, s.resolveSite},
		{stageRunHugo, s.runHugo},
		{stageConvertGemini, s.convertGemini},
		{stageCheckLinks, s.checkLinks},
		{stageRecordHistory, s.recordHistory},
	}

	runErr := s.runStages(ctx, st, stages)

	report.finish()
	report.deriveOutcome()

	result.Status = report.Outcome
	result.Root = st.Site.Root
	result.EndTime = report.End
	result.Duration = report.End.Sub(report.Start)

	s.recorder.ObserveBuildDuration(result.Duration)
	s.recorder.IncBuildOutcome(string(report.Outcome))

	// Failed and canceled builds still land in history; the stage only
	// runs on the happy path.
	if s.store != nil && !st.historyAttempted {
		if err := s.appendHistory(context.WithoutCancel(ctx), report, req.Config.History.Keep); err != nil {
			slog.Warn("Failed to record build history", logfields.Error(err))
		}
	}

	s.notifyCompleted(report)

	if runErr != nil {
		slog.Error("Build failed",
			logfields.BuildID(report.BuildID),
			logfields.Outcome(string(report.Outcome)),
			logfields.Error(runErr))
		return result, runErr
	}

	fmt.Fprintf(s.stdout, "Build complete: HTML in %s/, Gemini in %s/\n",
		req.Config.Site.OutputDir, req.Config.Gemini.OutputDir)
	slog.Info("Build finished",
		logfields.BuildID(report.BuildID),
		logfields.Outcome(string(report.Outcome)),
		logfields.DurationMS(float64(result.Duration)/float64(time.Millisecond)))

	return result, nil
}

// resolveSite derives the project root, warns when it does not look
// like a Hugo site, and stamps the report with the git revision.
func (s *Service) resolveSite(_ context.Context, st *State) error {
	resolved, err := site.Resolve(st.RootOverride)
	if err != nil {
		return newFatalStageError(stageResolveSite, fmt.Errorf("%w: %w", ErrSiteResolve, err))
	}
	st.Site = resolved
	st.Report.Root = resolved.Root

	if err := resolved.Probe(); err != nil {
		slog.Warn("Root does not look like a Hugo site",
			logfields.Path(resolved.Root),
			logfields.Error(err))
	}

	st.Report.Revision = gitinfo.Describe(resolved.Root).String()
	slog.Info("Site resolved", logfields.Path(resolved.Root))
	return nil
}

// runHugo renders the HTML site. A failing hugo child is fatal and its
// exit status stays in the error chain for the CLI to propagate.
func (s *Service) runHugo(ctx context.Context, st *State) error {
	fmt.Fprintln(s.stdout, "==> Building Hugo site")

	renderer := s.renderer
	if renderer == nil {
		renderer = &hugo.BinaryRenderer{
			Path:      st.Config.Site.HugoPath,
			Minify:    st.Config.Site.MinifyEnabled(),
			OutputDir: st.Config.Site.OutputDir,
			ExtraArgs: st.Config.Site.ExtraArgs,
		}
	}

	if err := renderer.Execute(ctx, st.Site.Root); err != nil {
		if errors.Is(err, context.Canceled) {
			return newCanceledStageError(stageRunHugo, err)
		}
		return newFatalStageError(stageRunHugo, fmt.Errorf("%w: %w", ErrHugoBuild, err))
	}

	st.Report.PagesRendered = countRenderedPages(st.Site.Path(st.Config.Site.OutputDir))
	slog.Info("Hugo site rendered",
		logfields.Output(st.Config.Site.OutputDir),
		logfields.Count(st.Report.PagesRendered))
	return nil
}

// convertGemini produces the Gemtext tree, printing per-file progress
// the way the standalone converter does.
func (s *Service) convertGemini(ctx context.Context, st *State) error {
	fmt.Fprintln(s.stdout, "==> Converting content to Gemini")

	conv := gemini.New(st.Config.Gemini, gemini.WithProgress(func(src, dst string) {
		fmt.Fprintf(s.stdout, "Converted: %s -> %s\n", src, dst)
	}))

	res, err := conv.Convert(ctx, st.Site.Root)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return newCanceledStageError(stageConvertGemini, err)
		}
		return newFatalStageError(stageConvertGemini, fmt.Errorf("%w: %w", ErrGeminiBuild, err))
	}

	st.Gemini = res
	st.Report.PagesConverted = res.Converted
	st.Report.PagesSkipped = res.Skipped
	s.recorder.AddPagesConverted(res.Converted)

	if res.IndexPath != "" {
		fmt.Fprintf(s.stdout, "Created index: %s\n", res.IndexPath)
	}
	fmt.Fprintf(s.stdout, "\nTotal files converted: %d\n", res.Converted)
	return nil
}

// checkLinks verifies the rendered tree when enabled. Broken links
// degrade the build to a warning, never fail it.
func (s *Service) checkLinks(ctx context.Context, st *State) error {
	if !st.Config.Check.Enabled {
		slog.Debug("Link check disabled")
		return nil
	}

	checker := linkcheck.New(st.Config.Check)
	res, err := checker.Run(ctx, st.Site.Path(st.Config.Site.OutputDir))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return newCanceledStageError(stageCheckLinks, err)
		}
		return newWarnStageError(stageCheckLinks, fmt.Errorf("%w: %w", ErrLinkCheck, err))
	}

	st.Links = res
	st.Report.BrokenLinks = len(res.Broken)
	s.recorder.SetBrokenLinks(len(res.Broken))

	if !res.OK() {
		return newWarnStageError(stageCheckLinks,
			fmt.Errorf("%w: %d broken references", ErrLinkCheck, len(res.Broken)))
	}
	return nil
}

// recordHistory appends the build record. Failures are warnings; a
// broken history database must not fail an otherwise good build.
func (s *Service) recordHistory(ctx context.Context, st *State) error {
	if s.store == nil {
		return nil
	}
	st.historyAttempted = true

	// Outcome so far; only this stage's own result is still unknown.
	st.Report.deriveOutcome()

	if err := s.appendHistory(ctx, st.Report, st.Config.History.Keep); err != nil {
		return newWarnStageError(stageRecordHistory, fmt.Errorf("%w: %w", ErrHistory, err))
	}
	return nil
}

func (s *Service) appendHistory(ctx context.Context, report *Report, keep int) error {
	dur := time.Since(report.Start)
	if !report.End.IsZero() {
		dur = report.End.Sub(report.Start)
	}

	rec := history.Record{
		ID:             report.BuildID,
		StartedAt:      report.Start,
		Duration:       dur,
		Outcome:        string(report.Outcome),
		PagesRendered:  report.PagesRendered,
		PagesConverted: report.PagesConverted,
		BrokenLinks:    report.BrokenLinks,
		Revision:       report.Revision,
	}
	if len(report.Errors) > 0 {
		msgs := make([]string, len(report.Errors))
		for i, e := range report.Errors {
			msgs[i] = e.Error()
		}
		rec.Error = strings.Join(msgs, "; ")
	}

	if err := s.store.Append(ctx, rec); err != nil {
		return err
	}

	if keep > 0 {
		removed, err := s.store.Prune(ctx, keep)
		if err != nil {
			slog.Warn("History prune failed", logfields.Error(err))
		} else if removed > 0 {
			slog.Debug("History pruned", logfields.Count(removed))
		}
	}
	return nil
}

// notifyCompleted publishes the build event. Best effort: a missing
// broker only warns.
func (s *Service) notifyCompleted(report *Report) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	evt := &notify.Event{
		BuildID:        report.BuildID,
		Outcome:        string(report.Outcome),
		StartedAt:      report.Start,
		DurationMS:     report.End.Sub(report.Start).Milliseconds(),
		PagesRendered:  report.PagesRendered,
		PagesConverted: report.PagesConverted,
		BrokenLinks:    report.BrokenLinks,
		Revision:       report.Revision,
	}
	if len(report.Errors) > 0 {
		evt.Error = report.Errors[0].Error()
	}

	if err := s.publisher.PublishBuildCompleted(ctx, evt); err != nil {
		slog.Warn("Build notification failed", logfields.Error(err))
	}
}

// countRenderedPages tallies .html files under dir. Failures count as
// zero pages; the number is informational.
func countRenderedPages(dir string) int {
	n := 0
	_ = filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".html") {
			n++
		}
		return nil
	})
	return n
}
