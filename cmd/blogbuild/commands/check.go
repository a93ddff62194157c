package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/KamilPietrzak/blogbuild/internal/linkcheck"
	"github.com/KamilPietrzak/blogbuild/internal/site"
)

// CheckCmd runs the link check against an already rendered HTML tree.
type CheckCmd struct {
	External bool `help:"Also probe absolute http(s) links over the network."`
}

func (cc *CheckCmd) Run(_ *Global, root *CLI) error {
	cfg, projectRoot, err := root.loadConfig()
	if err != nil {
		return err
	}
	root.applyLogging(cfg)

	resolved, err := site.Resolve(projectRoot)
	if err != nil {
		return err
	}

	// The standalone command always checks; the config toggle only
	// gates the build pipeline stage.
	checkCfg := cfg.Check
	checkCfg.Enabled = true
	if cc.External {
		checkCfg.External = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := linkcheck.New(checkCfg).Run(ctx, resolved.Path(cfg.Site.OutputDir))
	if err != nil {
		return err
	}

	fmt.Printf("Checked %d links across %d pages (%d skipped)\n",
		res.Checked, res.Pages, res.Skipped)
	if res.OK() {
		fmt.Println("No broken links found")
		return nil
	}

	for _, b := range res.Broken {
		fmt.Printf("  %s: %s (%s)\n", b.Page, b.URL, b.Reason)
	}
	return fmt.Errorf("%d broken links", len(res.Broken))
}
