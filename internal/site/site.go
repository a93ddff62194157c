// Package site resolves the blog project root and describes its layout.
//
// The binary is expected to live in a subdirectory of the blog checkout
// (conventionally bin/ or scripts/), so the project root is the parent of
// the directory containing the executable. That makes a bare invocation
// work from any working directory.
package site

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	// ErrNoContentDir indicates the resolved root has no content tree.
	ErrNoContentDir = errors.New("no content directory")
	// ErrNotDirectory indicates an explicit root override is not a directory.
	ErrNotDirectory = errors.New("root is not a directory")
)

// hugoConfigNames are the site config files Hugo recognizes at the root.
var hugoConfigNames = []string{
	"hugo.toml", "hugo.yaml", "hugo.json",
	"config.toml", "config.yaml", "config.json",
}

// Site describes a resolved blog checkout.
type Site struct {
	// Root is the absolute project root directory.
	Root string
	// ConfigFile is the Hugo site config found at the root, empty if none.
	ConfigFile string
}

// ContentDir returns the content tree under the root.
func (s Site) ContentDir() string { return filepath.Join(s.Root, "content") }

// Path resolves rel against the project root.
func (s Site) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(s.Root, rel)
}

// DefaultRoot derives the project root from the running executable: the
// parent of the directory holding the binary. Symlinks are resolved first
// so a linked binary still lands in its real checkout.
func DefaultRoot() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(filepath.Dir(exe)), nil
}

// Resolve produces the Site for an explicit root override, or the
// executable-derived default when override is empty.
func Resolve(override string) (Site, error) {
	root := override
	if root == "" {
		var err error
		root, err = DefaultRoot()
		if err != nil {
			return Site{}, err
		}
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return Site{}, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return Site{}, fmt.Errorf("failed to stat root: %w", err)
	}
	if !info.IsDir() {
		return Site{}, fmt.Errorf("%w: %s", ErrNotDirectory, abs)
	}

	return Site{Root: abs, ConfigFile: findHugoConfig(abs)}, nil
}

// Probe verifies the root looks like a Hugo site. A missing content tree is
// an error; a missing Hugo config file only means ConfigFile stays empty,
// since hugo itself will complain more precisely.
func (s Site) Probe() error {
	info, err := os.Stat(s.ContentDir())
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w under %s", ErrNoContentDir, s.Root)
	}
	return nil
}

func findHugoConfig(root string) string {
	for _, name := range hugoConfigNames {
		path := filepath.Join(root, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
