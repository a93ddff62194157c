package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/KamilPietrzak/blogbuild/internal/gemini"
	"github.com/KamilPietrzak/blogbuild/internal/site"
)

// ConvertCmd runs the Markdown to Gemtext conversion on its own, the
// second build step without the Hugo render before it.
type ConvertCmd struct {
	ContentDir string `arg:"" optional:"" help:"Content directory (default: gemini.content_dir)."`
	OutputDir  string `arg:"" optional:"" help:"Output directory (default: gemini.output_dir)."`
}

func (cc *ConvertCmd) Run(_ *Global, root *CLI) error {
	cfg, projectRoot, err := root.loadConfig()
	if err != nil {
		return err
	}
	root.applyLogging(cfg)

	gcfg := cfg.Gemini
	if cc.ContentDir != "" {
		gcfg.ContentDir = cc.ContentDir
	}
	if cc.OutputDir != "" {
		gcfg.OutputDir = cc.OutputDir
	}

	resolved, err := site.Resolve(projectRoot)
	if err != nil {
		return err
	}

	fmt.Println("Converting Hugo content to Gemini format...")
	fmt.Printf("Content directory: %s\n", resolved.Path(gcfg.ContentDir))
	fmt.Printf("Output directory: %s\n", resolved.Path(gcfg.OutputDir))
	fmt.Println()

	conv := gemini.New(gcfg, gemini.WithProgress(func(src, dst string) {
		fmt.Printf("Converted: %s -> %s\n", src, dst)
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := conv.Convert(ctx, resolved.Root)
	if err != nil {
		return err
	}

	if res.IndexPath != "" {
		fmt.Printf("Created index: %s\n", res.IndexPath)
	}
	fmt.Printf("\nTotal files converted: %d\n", res.Converted)
	return nil
}
