package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/KamilPietrzak/blogbuild/internal/build"
)

// BuildCmd implements the default 'build' command: render the Hugo
// site, then convert the content tree to a Gemini capsule.
type BuildCmd struct {
	JSON bool `help:"Print the build report as JSON on stdout."`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, projectRoot, err := root.loadConfig()
	if err != nil {
		return err
	}
	root.applyLogging(cfg)

	svc, cleanup := newBuildService(cfg, projectRoot)
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := svc.Run(ctx, build.Request{Config: cfg, Root: projectRoot})
	if res != nil && b.JSON {
		if data, jerr := res.Report.JSON(); jerr == nil {
			fmt.Println(string(data))
		}
	}
	return err
}
