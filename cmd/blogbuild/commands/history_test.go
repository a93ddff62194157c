package commands

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/KamilPietrzak/blogbuild/internal/history"
)

func seedHistory(t *testing.T, root string, records ...history.Record) {
	t.Helper()
	store, err := history.NewSQLiteStore(filepath.Join(root, ".blogbuild", "history.db"))
	require.NoError(t, err)
	defer store.Close()
	for _, rec := range records {
		require.NoError(t, store.Append(context.Background(), rec))
	}
}

func TestHistoryCmd_ListsSeededRecords(t *testing.T) {
	root := t.TempDir()
	seedHistory(t, root,
		history.Record{ID: "b-1", StartedAt: time.Now().Add(-time.Hour), Duration: 2 * time.Second, Outcome: "success", PagesConverted: 4},
		history.Record{ID: "b-2", StartedAt: time.Now(), Duration: time.Second, Outcome: "failed", Error: "exit status 1"},
	)

	cli := &CLI{Root: root}
	require.NoError(t, (&HistoryCmd{Limit: 10}).Run(&Global{}, cli))
	require.NoError(t, (&HistoryCmd{Limit: 10, JSON: true}).Run(&Global{}, cli))
}

func TestHistoryCmd_EmptyStore(t *testing.T) {
	cli := &CLI{Root: t.TempDir()}
	require.NoError(t, (&HistoryCmd{Limit: 10}).Run(&Global{}, cli))
}

func TestHistoryCmd_DisabledInConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "blogbuild.yaml"), "history:\n  enabled: false\n")

	cli := &CLI{Root: root}
	err := (&HistoryCmd{Limit: 10}).Run(&Global{}, cli)
	require.Error(t, err)
	require.Contains(t, err.Error(), "disabled")
}
