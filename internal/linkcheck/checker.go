// Package linkcheck verifies the rendered HTML tree after a build:
// every internal reference must resolve to a file under the output
// directory. External URLs are only probed when explicitly enabled,
// so the default build never touches the network.
package linkcheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/KamilPietrzak/blogbuild/internal/config"
	"github.com/KamilPietrzak/blogbuild/internal/logfields"
)

var (
	// ErrOutputDirMissing is returned when the rendered site does not exist.
	ErrOutputDirMissing = errors.New("linkcheck: output directory not found")
	// ErrWalkFailed is returned when the output tree cannot be traversed.
	ErrWalkFailed = errors.New("linkcheck: walk failed")
)

// Broken describes one reference whose target could not be resolved.
type Broken struct {
	Page   string `json:"page"` // page path relative to the output dir
	URL    string `json:"url"`
	Tag    string `json:"tag"`
	Reason string `json:"reason"`
	Status int    `json:"status,omitempty"` // HTTP status for external probes
}

// Result summarizes one pass over the rendered tree.
type Result struct {
	Pages   int      `json:"pages"`
	Checked int      `json:"checked"`
	Skipped int      `json:"skipped"`
	Broken  []Broken `json:"broken,omitempty"`
}

// OK reports whether every checked reference resolved.
func (r *Result) OK() bool {
	return len(r.Broken) == 0
}

// Checker walks a rendered site and verifies its references.
type Checker struct {
	external bool
	client   *http.Client
}

// New builds a Checker from the check section of the site config.
func New(cfg config.CheckConfig) *Checker {
	c := &Checker{external: cfg.External}
	if cfg.External {
		c.client = &http.Client{Timeout: 10 * time.Second}
	}
	return c
}

// Run checks every .html file under outputDir. Broken references are
// collected, not fatal; the caller decides what a non-empty Broken
// list means for the build.
func (c *Checker) Run(ctx context.Context, outputDir string) (*Result, error) {
	if _, err := os.Stat(outputDir); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrOutputDirMissing, outputDir)
	}

	result := &Result{}

	err := filepath.WalkDir(outputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}

		result.Pages++
		return c.checkPage(ctx, outputDir, path, result)
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrWalkFailed, err)
	}

	slog.Info("Link check completed",
		slog.Int("pages", result.Pages),
		slog.Int("checked", result.Checked),
		slog.Int("broken", len(result.Broken)))

	return result, nil
}

func (c *Checker) checkPage(ctx context.Context, outputDir, pagePath string, result *Result) error {
	file, err := os.Open(filepath.Clean(pagePath))
	if err != nil {
		return err
	}
	defer func() {
		_ = file.Close()
	}()

	links, err := ExtractLinks(file)
	if err != nil {
		return fmt.Errorf("parse %s: %w", pagePath, err)
	}

	page, relErr := filepath.Rel(outputDir, pagePath)
	if relErr != nil {
		page = pagePath
	}

	for _, link := range links {
		if !shouldCheck(link) {
			result.Skipped++
			continue
		}

		if link.Internal {
			result.Checked++
			if ok, reason := resolveInternal(outputDir, pagePath, link.URL); !ok {
				result.Broken = append(result.Broken, Broken{
					Page:   filepath.ToSlash(page),
					URL:    link.URL,
					Tag:    link.Tag,
					Reason: reason,
				})
				slog.Warn("Broken link detected",
					logfields.URL(link.URL),
					logfields.Path(page),
					slog.String("reason", reason))
			}
			continue
		}

		if !c.external {
			result.Skipped++
			continue
		}

		result.Checked++
		status, probeErr := c.probeExternal(ctx, link.URL)
		if probeErr != nil {
			result.Broken = append(result.Broken, Broken{
				Page:   filepath.ToSlash(page),
				URL:    link.URL,
				Tag:    link.Tag,
				Reason: probeErr.Error(),
				Status: status,
			})
			slog.Warn("Broken link detected",
				logfields.URL(link.URL),
				logfields.Path(page),
				slog.Int("status", status))
		}
	}

	return nil
}

// resolveInternal maps a reference to the file it should point at.
// Root-relative URLs resolve against the output dir, everything else
// against the directory of the referencing page. Directory targets
// must contain an index.html, matching how Hugo publishes pages.
func resolveInternal(outputDir, pagePath, rawURL string) (bool, string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false, "invalid URL"
	}

	// Query-only or fragment-only references stay on the current page.
	if u.Path == "" {
		return true, ""
	}

	var fsPath string
	if strings.HasPrefix(u.Path, "/") {
		fsPath = filepath.Join(outputDir, filepath.FromSlash(u.Path))
	} else {
		fsPath = filepath.Join(filepath.Dir(pagePath), filepath.FromSlash(u.Path))
	}

	info, err := os.Stat(fsPath)
	if err != nil {
		return false, "target not found"
	}
	if info.IsDir() {
		if _, err := os.Stat(filepath.Join(fsPath, "index.html")); err != nil {
			return false, "directory without index.html"
		}
	}

	return true, ""
}

// probeExternal issues a HEAD request. Auth-guarded responses count
// as alive since the URL exists even when we may not read it.
func (c *Checker) probeExternal(ctx context.Context, linkURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, linkURL, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "blogbuild-linkcheck/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	_, _ = io.Copy(io.Discard, resp.Body)

	if isAuthStatus(resp.StatusCode) {
		return resp.StatusCode, nil
	}
	if resp.StatusCode >= 400 {
		return resp.StatusCode, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	return resp.StatusCode, nil
}

func isAuthStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusMethodNotAllowed:
		return true
	}
	return false
}
