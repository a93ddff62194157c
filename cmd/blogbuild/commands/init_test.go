package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KamilPietrzak/blogbuild/internal/config"
)

func TestInitCmd_WritesExampleConfig(t *testing.T) {
	root := t.TempDir()

	cli := &CLI{Root: root}
	require.NoError(t, (&InitCmd{}).Run(&Global{}, cli))

	path := filepath.Join(root, config.FileName)
	require.FileExists(t, path)

	// The written file must load cleanly.
	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "public", cfg.Site.OutputDir)
	require.Equal(t, "public_gemini", cfg.Gemini.OutputDir)
}

func TestInitCmd_RefusesToOverwrite(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, config.FileName)
	writeFile(t, path, "root: /custom\n")

	cli := &CLI{Root: root}
	err := (&InitCmd{}).Run(&Global{}, cli)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists")

	data, rerr := os.ReadFile(path)
	require.NoError(t, rerr)
	require.Equal(t, "root: /custom\n", string(data))
}

func TestInitCmd_ForceOverwrites(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, config.FileName)
	writeFile(t, path, "root: /custom\n")

	cli := &CLI{Root: root}
	require.NoError(t, (&InitCmd{Force: true}).Run(&Global{}, cli))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "blogbuild configuration")
}

func TestInitCmd_HonorsConfigFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "osobny.yaml")

	cli := &CLI{Config: path}
	require.NoError(t, (&InitCmd{}).Run(&Global{}, cli))
	require.FileExists(t, path)
}
