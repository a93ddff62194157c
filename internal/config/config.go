// Package config loads and validates the optional blogbuild.yaml project
// configuration. A missing file is not an error: every field has a default
// so the zero-config invocation works on a bare Hugo site checkout.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned by Load when an explicitly requested config file
// does not exist. Discover treats the same condition as "use defaults".
var ErrNotFound = errors.New("config file not found")

// FileName is the config file probed for at the project root.
const FileName = "blogbuild.yaml"

// Config is the root configuration document.
type Config struct {
	// Root overrides the executable-derived project root when set.
	Root string `yaml:"root,omitempty"`

	Site    SiteConfig    `yaml:"site"`
	Gemini  GeminiConfig  `yaml:"gemini"`
	Check   CheckConfig   `yaml:"check"`
	Watch   WatchConfig   `yaml:"watch"`
	History HistoryConfig `yaml:"history"`
	Notify  NotifyConfig  `yaml:"notify"`
	Log     LogConfig     `yaml:"log"`
}

// SiteConfig controls the external Hugo invocation.
type SiteConfig struct {
	// HugoPath overrides PATH lookup of the hugo binary.
	HugoPath string `yaml:"hugo_path,omitempty"`
	// Minify defaults to true; nil means unset.
	Minify    *bool    `yaml:"minify,omitempty"`
	ExtraArgs []string `yaml:"extra_args,omitempty"`
	OutputDir string   `yaml:"output_dir"`
}

// MinifyEnabled reports the effective minify setting.
func (s SiteConfig) MinifyEnabled() bool {
	return s.Minify == nil || *s.Minify
}

// GeminiConfig controls the Markdown to Gemtext conversion.
type GeminiConfig struct {
	ContentDir    string      `yaml:"content_dir"`
	OutputDir     string      `yaml:"output_dir"`
	DateLabel     string      `yaml:"date_label"`
	DateFormat    string      `yaml:"date_format"`
	IncludeDrafts bool        `yaml:"include_drafts"`
	Slugify       bool        `yaml:"slugify"`
	Index         IndexConfig `yaml:"index"`
}

// IndexConfig holds the capsule index page strings. Defaults mirror the
// blog this tool was written for, so a plain rebuild reproduces its capsule.
type IndexConfig struct {
	Title        string `yaml:"title"`
	Intro        string `yaml:"intro"`
	PostsHeading string `yaml:"posts_heading"`
	PostsSection string `yaml:"posts_section"`
}

// CheckConfig controls the post-build link check stage.
type CheckConfig struct {
	Enabled bool `yaml:"enabled"`
	// External enables HEAD requests against absolute URLs. Off by default;
	// the build must not depend on the network.
	External bool `yaml:"external"`
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	Addr string `yaml:"addr"`
	// Debounce is the quiet window after the last filesystem event before a
	// rebuild fires, as a time.ParseDuration string.
	Debounce string `yaml:"debounce"`
	// RebuildEvery forces a periodic full rebuild when non-empty.
	RebuildEvery string `yaml:"rebuild_every,omitempty"`
}

// HistoryConfig controls the build history store.
type HistoryConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Path    string `yaml:"path"`
	// Keep bounds the number of retained build records.
	Keep int `yaml:"keep"`
}

// HistoryEnabled reports the effective history setting (default on).
func (h HistoryConfig) HistoryEnabled() bool {
	return h.Enabled == nil || *h.Enabled
}

// NotifyConfig controls post-build NATS notifications. Empty URL disables.
type NotifyConfig struct {
	URL     string `yaml:"url,omitempty"`
	Subject string `yaml:"subject"`
}

// LogConfig controls structured logging on stderr.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads, expands and validates the config file at path. The file must
// exist; callers wanting optional-file semantics use Discover.
func Load(path string) (*Config, error) {
	loadEnvFiles(filepath.Dir(path))

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand ${VAR} references so secrets stay out of the file.
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Discover loads blogbuild.yaml from the project root when present and
// returns full defaults otherwise.
func Discover(root string) (*Config, error) {
	path := filepath.Join(root, FileName)
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, ErrNotFound) {
		return Default(), nil
	}
	return nil, err
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// loadEnvFiles loads .env/.env.local next to the config file without
// overriding the process environment. Absence is not an error.
func loadEnvFiles(dir string) {
	for _, name := range []string{".env", ".env.local"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			fmt.Fprintf(os.Stderr, "Note: %s could not be loaded: %v\n", path, err)
		}
	}
}

const exampleConfig = `# blogbuild configuration. Every key is optional; the defaults below are
# the values used when this file is absent.

# root: /path/to/blog   # overrides the executable-derived project root

site:
  output_dir: public
  minify: true
  # hugo_path: /usr/local/bin/hugo
  # extra_args: ["--gc"]

gemini:
  content_dir: content
  output_dir: public_gemini
  date_label: "Data:"
  date_format: "2006-01-02"
  include_drafts: false
  slugify: false
  index:
    title: Blog
    intro: Witaj w wersji Gemini mojego bloga!
    posts_heading: Posty
    posts_section: blog

check:
  enabled: false
  external: false

watch:
  addr: 127.0.0.1:1414
  debounce: 500ms
  # rebuild_every: 30m

history:
  enabled: true
  path: .blogbuild/history.db
  keep: 100

notify:
  # url: nats://localhost:4222
  subject: blogbuild.builds

log:
  level: info
  format: text
`

// Init writes a commented example config to path.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}
	if err := os.WriteFile(path, []byte(exampleConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
