// Package watch implements the long-running rebuild loop: a filesystem
// watcher over the content tree feeds a debouncer that coalesces change
// bursts into serial rebuilds, while an HTTP server previews the rendered
// site and exposes health and metrics endpoints.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/KamilPietrzak/blogbuild/internal/build"
	"github.com/KamilPietrzak/blogbuild/internal/config"
	"github.com/KamilPietrzak/blogbuild/internal/logfields"
	"github.com/KamilPietrzak/blogbuild/internal/site"
)

var (
	// ErrWatchSetup wraps failures before the watch loop starts.
	ErrWatchSetup = errors.New("blogbuild: watch setup error")
	// ErrPreviewServer wraps preview server failures.
	ErrPreviewServer = errors.New("blogbuild: preview server error")
)

// Watcher drives watch mode. Construct with New; Run blocks until the
// context is canceled.
type Watcher struct {
	cfg      *config.Config
	builder  build.BuildService
	root     string
	registry *prom.Registry
	status   *status
}

// New creates a Watcher around builder. Wire history, notifications and
// the metrics recorder into the builder before handing it over.
func New(cfg *config.Config, builder build.BuildService) *Watcher {
	return &Watcher{
		cfg:     cfg,
		builder: builder,
		status:  newStatus(),
	}
}

// WithRoot overrides executable-derived root resolution.
func (w *Watcher) WithRoot(root string) *Watcher {
	w.root = root
	return w
}

// WithRegistry sets the registry served at /metrics. Pass the one the
// builder's PrometheusRecorder is registered on so build metrics and
// runtime metrics share a scrape.
func (w *Watcher) WithRegistry(reg *prom.Registry) *Watcher {
	w.registry = reg
	return w
}

// Run builds once, then serves and rebuilds until ctx is canceled.
// Rebuild failures keep the loop alive and surface on /healthz; only
// setup failures return an error.
func (w *Watcher) Run(ctx context.Context) error {
	resolved, err := site.Resolve(w.root)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWatchSetup, err)
	}
	contentDir := resolved.Path(w.cfg.Gemini.ContentDir)
	if info, err := os.Stat(contentDir); err != nil || !info.IsDir() {
		return fmt.Errorf("%w: content directory not found: %s", ErrWatchSetup, contentDir)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: fsnotify: %w", ErrWatchSetup, err)
	}
	defer func() { _ = fw.Close() }()
	watchTree(fw, contentDir)

	rebuildCh := make(chan struct{}, 1)
	requestRebuild := func() {
		select {
		case rebuildCh <- struct{}{}:
		default:
		}
	}

	var sched gocron.Scheduler
	if interval := w.cfg.Watch.RebuildInterval(); interval > 0 {
		sched, err = gocron.NewScheduler()
		if err != nil {
			return fmt.Errorf("%w: scheduler: %w", ErrWatchSetup, err)
		}
		defer func() { _ = sched.Shutdown() }()
		if _, err := sched.NewJob(
			gocron.DurationJob(interval),
			gocron.NewTask(func() {
				slog.Info("Periodic rebuild due", slog.Duration("interval", interval))
				requestRebuild()
			}),
			gocron.WithName("periodic-rebuild"),
		); err != nil {
			return fmt.Errorf("%w: periodic rebuild job: %w", ErrWatchSetup, err)
		}
	}

	// Initial build before serving anything. A failure is recorded for
	// /healthz rather than aborting, same as any later rebuild.
	w.rebuild(ctx, resolved.Root)

	srv, err := w.startPreviewServer(resolved.Path(w.cfg.Site.OutputDir))
	if err != nil {
		return err
	}

	deb := newDebouncer(w.cfg.Watch.DebounceDuration(), requestRebuild)
	go deb.Run(ctx)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-rebuildCh:
				slog.Info("Change detected, rebuilding")
				w.rebuild(ctx, resolved.Root)
			}
		}
	}()

	if sched != nil {
		sched.Start()
	}

	slog.Info("Watching for changes", logfields.Path(contentDir))

	for {
		select {
		case <-ctx.Done():
			return w.shutdown(srv)
		case ev, ok := <-fw.Events:
			if !ok {
				return w.shutdown(srv)
			}
			w.handleEvent(fw, ev, deb)
		case err, ok := <-fw.Errors:
			if !ok {
				return w.shutdown(srv)
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// rebuild runs one build and records the outcome for /healthz. Build
// failures never stop watch mode.
func (w *Watcher) rebuild(ctx context.Context, root string) {
	if ctx.Err() != nil {
		return
	}
	res, err := w.builder.Run(ctx, build.Request{Config: w.cfg, Root: root})
	if err != nil {
		outcome := ""
		if res != nil {
			outcome = string(res.Status)
		}
		w.status.recordFailure(outcome, err)
		slog.Warn("Rebuild failed", logfields.Error(err))
		return
	}
	w.status.recordSuccess(string(res.Status))
}

// handleEvent filters editor noise and adds newly created directories to
// the watch set before handing the event to the debouncer.
func (w *Watcher) handleEvent(fw *fsnotify.Watcher, ev fsnotify.Event, deb *debouncer) {
	if ignoreEvent(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			watchTree(fw, ev.Name)
		}
	}
	slog.Debug("Content change detected",
		logfields.Path(ev.Name),
		slog.String("op", ev.Op.String()))
	deb.Trigger()
}

// shutdown stops the preview server with a bounded grace period.
func (w *Watcher) shutdown(srv *previewServer) error {
	slog.Info("Shutting down watch mode")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		slog.Warn("Preview server shutdown error", logfields.Error(err))
	}
	return nil
}

// watchTree registers root and every directory below it. Hidden trees
// like .obsidian never get watched, so their events never fire.
func watchTree(fw *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return fs.SkipDir
		}
		if err := fw.Add(path); err != nil {
			slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// ignoreEvent reports whether a filesystem event is editor or OS noise
// that must not trigger a rebuild.
func ignoreEvent(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") {
		return true
	}
	if strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}
