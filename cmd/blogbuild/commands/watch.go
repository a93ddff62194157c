package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/KamilPietrzak/blogbuild/internal/metrics"
	"github.com/KamilPietrzak/blogbuild/internal/watch"
)

// WatchCmd runs watch mode: rebuild on content changes and serve the
// rendered site locally with health and metrics endpoints.
type WatchCmd struct {
	Addr string `help:"Preview listen address (default: watch.addr)."`
}

func (wc *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, projectRoot, err := root.loadConfig()
	if err != nil {
		return err
	}
	root.applyLogging(cfg)

	if wc.Addr != "" {
		cfg.Watch.Addr = wc.Addr
	}

	// Build metrics and runtime metrics share one registry so a single
	// scrape covers both.
	reg := metrics.NewRegistry()
	svc, cleanup := newBuildService(cfg, projectRoot)
	defer cleanup()
	svc.WithRecorder(metrics.NewPrometheusRecorder(reg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watch.New(cfg, svc).
		WithRoot(projectRoot).
		WithRegistry(reg).
		Run(ctx)
}
