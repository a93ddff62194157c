package history

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testRecord(n int) Record {
	return Record{
		ID:             fmt.Sprintf("build-%d", n),
		StartedAt:      time.UnixMilli(1700000000000 + int64(n)*60_000),
		Duration:       time.Duration(n) * time.Second,
		Outcome:        "success",
		PagesRendered:  10 + n,
		PagesConverted: 5 + n,
		BrokenLinks:    0,
		Revision:       "abc12345",
	}
}

func TestSQLiteStoreAppendAndList(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := t.Context()
	want := testRecord(1)
	want.Error = "hugo build: exit status 1"

	require.NoError(t, store.Append(ctx, want))

	got, err := store.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, want, got[0])
}

func TestSQLiteStoreNewestFirst(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := t.Context()
	for n := 1; n <= 3; n++ {
		require.NoError(t, store.Append(ctx, testRecord(n)))
	}

	got, err := store.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "build-3", got[0].ID)
	require.Equal(t, "build-2", got[1].ID)
}

func TestSQLiteStorePrune(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := t.Context()
	for n := 1; n <= 5; n++ {
		require.NoError(t, store.Append(ctx, testRecord(n)))
	}

	removed, err := store.Prune(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, 3, removed)

	got, err := store.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "build-5", got[0].ID)
	require.Equal(t, "build-4", got[1].ID)

	// keep <= 0 must not wipe the table
	removed, err = store.Prune(ctx, 0)
	require.NoError(t, err)
	require.Zero(t, removed)
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), ".blogbuild", "history.db")
	ctx := t.Context()

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, testRecord(1)))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "build-1", got[0].ID)
}

func TestSQLiteStoreImplementsStore(t *testing.T) {
	var _ Store = (*SQLiteStore)(nil)
}
