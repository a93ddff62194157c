package gemini

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteIndex_ListsPostsNewestFirst(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "content/blog/starszy/index.md", "---\ntitle: Starszy wpis\ndate: 2023-01-05\n---\ntreść\n")
	writePage(t, root, "content/blog/nowszy/index.md", "---\ntitle: Nowszy wpis\ndate: 2024-11-20\n---\ntreść\n")

	res, err := New(testConfig()).Convert(context.Background(), root)
	require.NoError(t, err)

	index := readOutput(t, root, "public_gemini/index.gmi")
	want := strings.Join([]string{
		"# Blog",
		"",
		"Witaj w wersji Gemini mojego bloga!",
		"",
		"## Posty",
		"",
		"=> blog/nowszy.gmi [2024-11-20] Nowszy wpis",
		"=> blog/starszy.gmi [2023-01-05] Starszy wpis",
		"",
	}, "\n")
	require.Equal(t, want, index)
	require.Equal(t, filepath.Join(root, "public_gemini", "index.gmi"), res.IndexPath)
}

func TestWriteIndex_TitleFallsBackToDirName(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "content/blog/bez-tytulu/index.md", "Sam tekst.\n")

	_, err := New(testConfig()).Convert(context.Background(), root)
	require.NoError(t, err)

	index := readOutput(t, root, "public_gemini/index.gmi")
	require.Contains(t, index, "=> blog/bez-tytulu.gmi bez-tytulu\n")
}

func TestWriteIndex_SkipsDraftPosts(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "content/blog/szkic/index.md", "---\ntitle: Szkic\ndraft: true\n---\n")
	writePage(t, root, "content/blog/gotowy/index.md", "---\ntitle: Gotowy\ndate: 2024-01-01\n---\n")

	_, err := New(testConfig()).Convert(context.Background(), root)
	require.NoError(t, err)

	index := readOutput(t, root, "public_gemini/index.gmi")
	require.NotContains(t, index, "szkic")
	require.Contains(t, index, "gotowy.gmi")
}

func TestWriteIndex_NoPostsSectionStillWritesIndex(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "content/o-stronie.md", "Treść.\n")

	res, err := New(testConfig()).Convert(context.Background(), root)
	require.NoError(t, err)
	require.NotEmpty(t, res.IndexPath)

	index := readOutput(t, root, "public_gemini/index.gmi")
	require.True(t, strings.HasPrefix(index, "# Blog\n"))
	require.NotContains(t, index, "=> ")
}

func TestWriteIndex_CustomStrings(t *testing.T) {
	cfg := testConfig()
	cfg.Index.Title = "Dziennik"
	cfg.Index.Intro = "Wersja tekstowa."
	cfg.Index.PostsHeading = "Archiwum"

	root := t.TempDir()
	writePage(t, root, "content/blog/wpis/index.md", "---\ntitle: Wpis\ndate: 2024-03-03\n---\n")

	_, err := New(cfg).Convert(context.Background(), root)
	require.NoError(t, err)

	index := readOutput(t, root, "public_gemini/index.gmi")
	require.Contains(t, index, "# Dziennik\n")
	require.Contains(t, index, "Wersja tekstowa.\n")
	require.Contains(t, index, "## Archiwum\n")
}

func TestWriteIndex_CustomPostsSection(t *testing.T) {
	cfg := testConfig()
	cfg.Index.PostsSection = "notatki"

	root := t.TempDir()
	writePage(t, root, "content/notatki/pierwsza/index.md", "---\ntitle: Pierwsza\ndate: 2024-02-02\n---\n")

	_, err := New(cfg).Convert(context.Background(), root)
	require.NoError(t, err)

	index := readOutput(t, root, "public_gemini/index.gmi")
	require.Contains(t, index, "=> notatki/pierwsza.gmi [2024-02-02] Pierwsza")
}
