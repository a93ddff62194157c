// Package gemini converts a Hugo content tree into a Gemini capsule:
// one .gmi document per content page plus a generated capsule index.
package gemini

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/KamilPietrzak/blogbuild/internal/config"
	"github.com/KamilPietrzak/blogbuild/internal/frontmatter"
	"github.com/KamilPietrzak/blogbuild/internal/gemtext"
	"github.com/KamilPietrzak/blogbuild/internal/logfields"
)

var (
	// ErrContentDirMissing indicates the content tree to convert does not exist.
	ErrContentDirMissing = errors.New("content directory missing")
	// ErrWalkFailed indicates the content tree could not be traversed.
	ErrWalkFailed = errors.New("content walk failed")
	// ErrFileConvert indicates a single page failed to convert.
	ErrFileConvert = errors.New("page conversion failed")
)

// Result summarizes one conversion run.
type Result struct {
	// Converted counts written .gmi pages, the capsule index excluded.
	Converted int
	// Skipped counts section pages, hidden files and excluded drafts.
	Skipped int
	// Failed counts pages that aborted the run (0 or 1; the converter
	// fails fast).
	Failed int
	// Warnings counts pages whose frontmatter degraded to plain body.
	Warnings int
	// IndexPath is the written capsule index file.
	IndexPath string
}

// Converter renders a content tree to Gemtext.
type Converter struct {
	cfg      config.GeminiConfig
	progress func(src, dst string)
}

// Option configures a Converter.
type Option func(*Converter)

// WithProgress registers a per-file callback, invoked after each page is
// written. The convert command uses it for stdout progress lines.
func WithProgress(fn func(src, dst string)) Option {
	return func(c *Converter) { c.progress = fn }
}

// New creates a Converter. The zero config.GeminiConfig is not usable;
// callers pass a defaulted config section.
func New(cfg config.GeminiConfig, opts ...Option) *Converter {
	c := &Converter{cfg: cfg}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert walks the content tree under root and writes the capsule.
// Directories from config resolve against root unless absolute.
func (c *Converter) Convert(ctx context.Context, root string) (*Result, error) {
	contentDir := resolveDir(root, c.cfg.ContentDir)
	outputDir := resolveDir(root, c.cfg.OutputDir)

	if info, err := os.Stat(contentDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrContentDirMissing, contentDir)
	}
	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	res := &Result{}
	err := filepath.Walk(contentDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		name := info.Name()
		if info.IsDir() {
			if strings.HasPrefix(name, ".") && path != contentDir {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || !isMarkdownFile(name) {
			return nil
		}
		if name == "_index.md" || name == "_index.markdown" {
			res.Skipped++
			return nil
		}

		rel, err := filepath.Rel(contentDir, path)
		if err != nil {
			return fmt.Errorf("failed to derive relative path for %s: %w", path, err)
		}
		return c.convertFile(path, rel, outputDir, res)
	})
	if err != nil {
		if res.Failed == 0 && !errors.Is(err, context.Canceled) {
			err = fmt.Errorf("%w: %w", ErrWalkFailed, err)
		}
		return res, err
	}

	indexPath, err := c.writeIndex(contentDir, outputDir)
	if err != nil {
		return res, err
	}
	res.IndexPath = indexPath

	slog.Info("Gemini conversion finished",
		logfields.Count(res.Converted),
		slog.Int("skipped", res.Skipped),
		slog.Int("warnings", res.Warnings),
		logfields.Output(outputDir))
	return res, nil
}

// convertFile renders one page and writes it under outputDir.
func (c *Converter) convertFile(path, rel, outputDir string, res *Result) error {
	content, err := os.ReadFile(path)
	if err != nil {
		res.Failed++
		return fmt.Errorf("%w: %s: %w", ErrFileConvert, path, err)
	}

	fields, body, _, warn := frontmatter.SplitLenient(content)
	if warn != nil {
		res.Warnings++
		slog.Warn("Frontmatter ignored", logfields.File(rel), logfields.Error(warn))
	}
	meta := frontmatter.Meta(fields)
	if meta.Draft && !c.cfg.IncludeDrafts {
		res.Skipped++
		slog.Debug("Skipping draft", logfields.File(rel))
		return nil
	}

	doc := c.renderDocument(meta, body)

	dst := filepath.Join(outputDir, c.mapRelPath(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		res.Failed++
		return fmt.Errorf("%w: %s: %w", ErrFileConvert, path, err)
	}
	if err := os.WriteFile(dst, doc, 0o644); err != nil {
		res.Failed++
		return fmt.Errorf("%w: %s: %w", ErrFileConvert, path, err)
	}

	res.Converted++
	slog.Debug("Converted page", logfields.File(rel), logfields.Path(dst))
	if c.progress != nil {
		c.progress(path, dst)
	}
	return nil
}

// renderDocument combines the frontmatter-derived header with the rendered
// body: title heading, a labeled date line, the summary paragraph, body.
func (c *Converter) renderDocument(meta frontmatter.PostMeta, body []byte) []byte {
	var doc bytes.Buffer

	if meta.Title != "" {
		doc.WriteString("# " + meta.Title + "\n\n")
	}
	if date := c.formatDate(meta); date != "" {
		doc.WriteString(c.cfg.DateLabel + " " + date + "\n\n")
	}
	if meta.Summary != "" {
		doc.WriteString(strings.TrimSpace(meta.Summary) + "\n\n")
	}

	doc.Write(gemtext.Render(stripShortcodeLines(body)))

	out := bytes.TrimRight(doc.Bytes(), "\n")
	if len(out) == 0 {
		return []byte{}
	}
	return append(out, '\n')
}

func (c *Converter) formatDate(meta frontmatter.PostMeta) string {
	if meta.HasDate() {
		return meta.Date.Format(c.cfg.DateFormat)
	}
	return meta.RawDate
}

func resolveDir(root, dir string) string {
	if filepath.IsAbs(dir) || root == "" {
		return dir
	}
	return filepath.Join(root, dir)
}

func isMarkdownFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".md" || ext == ".markdown"
}
