package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// Validate rejects configurations that would fail mid-build. Defaults must
// already be applied.
func Validate(cfg *Config) error {
	if err := validateOutputs(cfg); err != nil {
		return err
	}
	if err := validateWatch(&cfg.Watch); err != nil {
		return err
	}
	if err := validateHistory(&cfg.History); err != nil {
		return err
	}
	return nil
}

// validateOutputs keeps the two output trees distinct so one build cannot
// clobber the other.
func validateOutputs(cfg *Config) error {
	site := filepath.Clean(cfg.Site.OutputDir)
	gem := filepath.Clean(cfg.Gemini.OutputDir)
	if site == gem {
		return fmt.Errorf("site.output_dir and gemini.output_dir must differ (both %s)", site)
	}
	if filepath.Clean(cfg.Gemini.ContentDir) == gem {
		return fmt.Errorf("gemini.output_dir must not be the content directory (%s)", gem)
	}
	return nil
}

func validateWatch(w *WatchConfig) error {
	if _, err := time.ParseDuration(w.Debounce); err != nil {
		return fmt.Errorf("invalid watch.debounce: %s: %w", w.Debounce, err)
	}
	if w.RebuildEvery != "" {
		d, err := time.ParseDuration(w.RebuildEvery)
		if err != nil {
			return fmt.Errorf("invalid watch.rebuild_every: %s: %w", w.RebuildEvery, err)
		}
		if d < time.Minute {
			return fmt.Errorf("watch.rebuild_every (%s) must be at least 1m", w.RebuildEvery)
		}
	}
	return nil
}

func validateHistory(h *HistoryConfig) error {
	if h.Keep < 0 {
		return fmt.Errorf("history.keep cannot be negative: %d", h.Keep)
	}
	return nil
}

// DebounceDuration returns the parsed debounce window. Validate guarantees
// the string parses.
func (w WatchConfig) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(w.Debounce)
	if err != nil {
		return 500 * time.Millisecond
	}
	return d
}

// RebuildInterval returns the parsed periodic rebuild interval, zero when
// disabled.
func (w WatchConfig) RebuildInterval() time.Duration {
	if w.RebuildEvery == "" {
		return 0
	}
	d, err := time.ParseDuration(w.RebuildEvery)
	if err != nil {
		return 0
	}
	return d
}
