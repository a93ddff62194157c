package gemini

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KamilPietrzak/blogbuild/internal/config"
)

func testConfig() config.GeminiConfig {
	return config.Default().Gemini
}

func writePage(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readOutput(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, rel))
	require.NoError(t, err)
	return string(data)
}

const firstPost = `---
title: Pierwszy post
date: 2024-05-10
summary: Kilka słów na start.
---

Cześć! To **ja**.
`

func TestConvert_WritesCapsuleTree(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "content/blog/pierwszy-post/index.md", firstPost)
	writePage(t, root, "content/about.md", "---\ntitle: O mnie\n---\n\nStrona o mnie.\n")

	res, err := New(testConfig()).Convert(context.Background(), root)
	require.NoError(t, err)
	require.Equal(t, 2, res.Converted)
	require.Equal(t, 0, res.Skipped)
	require.Equal(t, 0, res.Warnings)

	post := readOutput(t, root, "public_gemini/blog/pierwszy-post.gmi")
	want := "# Pierwszy post\n\nData: 2024-05-10\n\nKilka słów na start.\n\nCześć! To ja.\n"
	require.Equal(t, want, post)

	about := readOutput(t, root, "public_gemini/about.gmi")
	require.Equal(t, "# O mnie\n\nStrona o mnie.\n", about)

	require.Equal(t, filepath.Join(root, "public_gemini", "index.gmi"), res.IndexPath)
}

func TestConvert_SkipsSectionPages(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "content/blog/_index.md", "---\ntitle: Sekcja\n---\n")
	writePage(t, root, "content/wpis.md", "Treść.\n")

	res, err := New(testConfig()).Convert(context.Background(), root)
	require.NoError(t, err)
	require.Equal(t, 1, res.Converted)
	require.Equal(t, 1, res.Skipped)
	require.NoFileExists(t, filepath.Join(root, "public_gemini", "blog", "_index.gmi"))
}

func TestConvert_SkipsDraftsByDefault(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "content/szkic.md", "---\ntitle: Szkic\ndraft: true\n---\n\nJeszcze nie.\n")

	res, err := New(testConfig()).Convert(context.Background(), root)
	require.NoError(t, err)
	require.Equal(t, 0, res.Converted)
	require.Equal(t, 1, res.Skipped)

	cfg := testConfig()
	cfg.IncludeDrafts = true
	res, err = New(cfg).Convert(context.Background(), root)
	require.NoError(t, err)
	require.Equal(t, 1, res.Converted)
}

func TestConvert_MalformedFrontmatterDegradesToBody(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "content/zepsuty.md", "---\ntitle: Bez końca\n\nTreść mimo wszystko.\n")

	res, err := New(testConfig()).Convert(context.Background(), root)
	require.NoError(t, err)
	require.Equal(t, 1, res.Converted)
	require.Equal(t, 1, res.Warnings)

	out := readOutput(t, root, "public_gemini/zepsuty.gmi")
	// The malformed header renders as body text instead of vanishing.
	require.Contains(t, out, "Treść mimo wszystko.")
	require.Contains(t, out, "title: Bez końca")
}

func TestConvert_MissingContentDir(t *testing.T) {
	_, err := New(testConfig()).Convert(context.Background(), t.TempDir())
	require.ErrorIs(t, err, ErrContentDirMissing)
}

func TestConvert_ShortcodeLinesDropped(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "content/wpis.md",
		"Przed.\n\n{{< youtube abc123 >}}\n\n{{% notice %}}uwaga{{% /notice %}}\n\nPo.\n")

	_, err := New(testConfig()).Convert(context.Background(), root)
	require.NoError(t, err)

	out := readOutput(t, root, "public_gemini/wpis.gmi")
	require.Equal(t, "Przed.\n\nPo.\n", out)
}

func TestConvert_HiddenFilesIgnored(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "content/.ukryty.md", "sekret\n")
	writePage(t, root, "content/.obsidian/notatka.md", "sekret\n")
	writePage(t, root, "content/jawny.md", "Treść.\n")

	res, err := New(testConfig()).Convert(context.Background(), root)
	require.NoError(t, err)
	require.Equal(t, 1, res.Converted)
}

func TestConvert_CanceledContext(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "content/wpis.md", "Treść.\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(testConfig()).Convert(ctx, root)
	require.ErrorIs(t, err, context.Canceled)
}

func TestConvert_ProgressCallback(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "content/a.md", "A.\n")
	writePage(t, root, "content/b.md", "B.\n")

	var seen []string
	conv := New(testConfig(), WithProgress(func(src, dst string) {
		seen = append(seen, filepath.Base(dst))
	}))
	_, err := conv.Convert(context.Background(), root)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a.gmi", "b.gmi"}, seen)
}

func TestConvert_ExplicitAbsoluteDirs(t *testing.T) {
	srcRoot := t.TempDir()
	outRoot := t.TempDir()
	writePage(t, srcRoot, "content/wpis.md", "Treść.\n")

	cfg := testConfig()
	cfg.ContentDir = filepath.Join(srcRoot, "content")
	cfg.OutputDir = filepath.Join(outRoot, "kapsuła")

	res, err := New(cfg).Convert(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, 1, res.Converted)
	require.FileExists(t, filepath.Join(outRoot, "kapsuła", "wpis.gmi"))
}

func TestConvert_RerunsAreIdempotent(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "content/blog/wpis/index.md", firstPost)

	conv := New(testConfig())
	_, err := conv.Convert(context.Background(), root)
	require.NoError(t, err)
	first := readOutput(t, root, "public_gemini/blog/wpis.gmi")
	firstIndex := readOutput(t, root, "public_gemini/index.gmi")

	_, err = conv.Convert(context.Background(), root)
	require.NoError(t, err)
	require.Equal(t, first, readOutput(t, root, "public_gemini/blog/wpis.gmi"))
	require.Equal(t, firstIndex, readOutput(t, root, "public_gemini/index.gmi"))
}
