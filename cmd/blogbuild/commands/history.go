package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KamilPietrzak/blogbuild/internal/history"
)

// HistoryCmd lists recent builds from the history store, newest first.
type HistoryCmd struct {
	Limit int  `help:"Number of builds to list." default:"10"`
	JSON  bool `help:"Print records as JSON."`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, projectRoot, err := root.loadConfig()
	if err != nil {
		return err
	}
	root.applyLogging(cfg)

	if !cfg.History.HistoryEnabled() {
		return errors.New("build history is disabled in configuration")
	}

	store, err := history.NewSQLiteStore(historyPath(cfg, projectRoot))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	records, err := store.ListRecent(ctx, h.Limit)
	if err != nil {
		return err
	}

	if h.JSON {
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	if len(records) == 0 {
		fmt.Println("No builds recorded yet")
		return nil
	}
	for _, r := range records {
		printRecord(r)
	}
	return nil
}

func printRecord(r history.Record) {
	line := fmt.Sprintf("%s  %-8s  %8s  rendered=%d converted=%d broken=%d",
		r.StartedAt.Local().Format("2006-01-02 15:04:05"),
		r.Outcome,
		r.Duration.Round(time.Millisecond),
		r.PagesRendered, r.PagesConverted, r.BrokenLinks)
	if r.Revision != "" {
		line += "  rev=" + r.Revision
	}
	fmt.Println(line)
	if r.Error != "" {
		fmt.Printf("    error: %s\n", r.Error)
	}
}
