// Package commands defines the blogbuild CLI grammar and the Run
// implementations behind each subcommand.
package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/KamilPietrzak/blogbuild/internal/build"
	"github.com/KamilPietrzak/blogbuild/internal/config"
	"github.com/KamilPietrzak/blogbuild/internal/history"
	"github.com/KamilPietrzak/blogbuild/internal/logfields"
	"github.com/KamilPietrzak/blogbuild/internal/notify"
	"github.com/KamilPietrzak/blogbuild/internal/site"
)

// Global is the binding point for state shared across subcommands.
type Global struct{}

// CLI is the root command grammar. Build is the default command so a
// bare invocation runs the full pipeline.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: blogbuild.yaml at the project root)."`
	Root    string           `help:"Project root (default: the parent of the binary's directory)."`
	Verbose bool             `short:"v" help:"Enable verbose logging."`
	Version kong.VersionFlag `name:"version" help:"Show version and exit."`

	Build   BuildCmd   `cmd:"" default:"1" help:"Build the HTML site and the Gemini capsule."`
	Convert ConvertCmd `cmd:"" help:"Convert Markdown content to Gemtext without building the site."`
	Check   CheckCmd   `cmd:"" help:"Check links in the rendered HTML tree."`
	Watch   WatchCmd   `cmd:"" help:"Rebuild on content changes and serve a local preview."`
	History HistoryCmd `cmd:"" help:"List recent builds."`
	Init    InitCmd    `cmd:"" help:"Write an example blogbuild.yaml."`
}

// AfterApply runs after flag parsing; set up logging once so config
// loading itself logs consistently. Commands reapply the handler when
// the config names a level or format.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// preliminaryRoot is the root used to look for the config file: the
// --root flag, or the executable-derived default.
func (c *CLI) preliminaryRoot() (string, error) {
	if c.Root != "" {
		return c.Root, nil
	}
	return site.DefaultRoot()
}

// loadConfig resolves the configuration and the effective project root.
// The --root flag outranks the config file's root key, which outranks
// the executable-derived default.
func (c *CLI) loadConfig() (*config.Config, string, error) {
	prelim, err := c.preliminaryRoot()
	if err != nil {
		return nil, "", err
	}

	var cfg *config.Config
	if c.Config != "" {
		cfg, err = config.Load(c.Config)
	} else {
		cfg, err = config.Discover(prelim)
	}
	if err != nil {
		return nil, "", err
	}

	root := c.Root
	if root == "" && cfg.Root != "" {
		root = cfg.Root
	}
	if root == "" {
		root = prelim
	}
	return cfg, root, nil
}

// applyLogging reapplies the slog handler once the config is known.
// --verbose outranks the configured level.
func (c *CLI) applyLogging(cfg *config.Config) {
	level := config.NormalizeLogLevel(cfg.Log.Level).SlogLevel()
	if c.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if config.NormalizeLogFormat(cfg.Log.Format) == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// historyPath resolves the history database path against the root.
func historyPath(cfg *config.Config, root string) string {
	if filepath.IsAbs(cfg.History.Path) {
		return cfg.History.Path
	}
	return filepath.Join(root, cfg.History.Path)
}

// newBuildService wires history and notifications into a build service
// per config. Wiring failures degrade the respective feature with a
// warning instead of blocking the build.
func newBuildService(cfg *config.Config, root string) (*build.Service, func()) {
	svc := build.NewService()
	cleanup := func() {}

	if cfg.History.HistoryEnabled() {
		store, err := history.NewSQLiteStore(historyPath(cfg, root))
		if err != nil {
			slog.Warn("Build history disabled", logfields.Error(err))
		} else {
			svc.WithHistoryStore(store)
			next := cleanup
			cleanup = func() { _ = store.Close(); next() }
		}
	}

	pub, err := notify.NewPublisher(cfg.Notify)
	if err != nil {
		slog.Warn("Build notifications disabled", logfields.Error(err))
	} else {
		svc.WithPublisher(pub)
		next := cleanup
		cleanup = func() { _ = pub.Close(); next() }
	}

	return svc, cleanup
}
