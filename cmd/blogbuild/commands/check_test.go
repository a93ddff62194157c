package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KamilPietrzak/blogbuild/internal/linkcheck"
)

func TestCheckCmd_CleanTree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "public", "index.html"),
		`<html><body><a href="/o-mnie/">O mnie</a></body></html>`)
	writeFile(t, filepath.Join(root, "public", "o-mnie", "index.html"),
		`<html><body><a href="/">start</a></body></html>`)

	cli := &CLI{Root: root}
	require.NoError(t, (&CheckCmd{}).Run(&Global{}, cli))
}

func TestCheckCmd_BrokenLinksFail(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "public", "index.html"),
		`<html><body><a href="/nie-ma/">nie ma</a></body></html>`)

	cli := &CLI{Root: root}
	err := (&CheckCmd{}).Run(&Global{}, cli)
	require.Error(t, err)
	require.Contains(t, err.Error(), "broken links")
}

func TestCheckCmd_RunsEvenWhenStageDisabled(t *testing.T) {
	root := t.TempDir()
	// The pipeline stage toggle must not gate the standalone command.
	writeFile(t, filepath.Join(root, "blogbuild.yaml"), "check:\n  enabled: false\n")
	writeFile(t, filepath.Join(root, "public", "index.html"),
		`<html><body><a href="/zepsuty/">zepsuty</a></body></html>`)

	cli := &CLI{Root: root}
	err := (&CheckCmd{}).Run(&Global{}, cli)
	require.Error(t, err)
	require.Contains(t, err.Error(), "broken links")
}

func TestCheckCmd_MissingOutputDir(t *testing.T) {
	cli := &CLI{Root: t.TempDir()}
	err := (&CheckCmd{}).Run(&Global{}, cli)
	require.ErrorIs(t, err, linkcheck.ErrOutputDirMissing)
}
