package gemini

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KamilPietrzak/blogbuild/internal/frontmatter"
	"github.com/KamilPietrzak/blogbuild/internal/logfields"
)

// postEntry is one capsule index line.
type postEntry struct {
	title   string
	dateKey string
	path    string
}

// writeIndex generates the capsule front page: title, intro, and every post
// under the configured section sorted newest first. It runs after page
// conversion, so a root-level index.md is deliberately overwritten.
func (c *Converter) writeIndex(contentDir, outputDir string) (string, error) {
	posts, err := c.collectPosts(contentDir)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("# " + c.cfg.Index.Title + "\n\n")
	sb.WriteString(c.cfg.Index.Intro + "\n\n")
	sb.WriteString("## " + c.cfg.Index.PostsHeading + "\n\n")

	for _, p := range posts {
		if p.dateKey != "" {
			sb.WriteString(fmt.Sprintf("=> %s [%s] %s\n", p.path, p.dateKey, p.title))
		} else {
			sb.WriteString(fmt.Sprintf("=> %s %s\n", p.path, p.title))
		}
	}

	indexPath := filepath.Join(outputDir, "index.gmi")
	if err := os.WriteFile(indexPath, []byte(sb.String()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write capsule index: %w", err)
	}

	slog.Info("Capsule index written", logfields.Path(indexPath), logfields.Count(len(posts)))
	return indexPath, nil
}

// collectPosts finds post bundles one level under the posts section:
// content/<section>/<post>/index.md.
func (c *Converter) collectPosts(contentDir string) ([]postEntry, error) {
	section := c.cfg.Index.PostsSection
	sectionDir := filepath.Join(contentDir, section)

	entries, err := os.ReadDir(sectionDir)
	if err != nil {
		if os.IsNotExist(err) {
			// A site without the posts section still gets an index page.
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read posts section %s: %w", sectionDir, err)
	}

	var posts []postEntry
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		indexFile := filepath.Join(sectionDir, entry.Name(), "index.md")
		content, err := os.ReadFile(indexFile)
		if err != nil {
			continue // directory without a page bundle
		}

		fields, _, _, warn := frontmatter.SplitLenient(content)
		if warn != nil {
			slog.Warn("Frontmatter ignored in index scan",
				logfields.File(indexFile), logfields.Error(warn))
		}
		meta := frontmatter.Meta(fields)
		if meta.Draft && !c.cfg.IncludeDrafts {
			continue
		}

		title := meta.Title
		if title == "" {
			title = entry.Name()
		}

		rel := filepath.ToSlash(filepath.Join(section, entry.Name())) + ".gmi"
		if c.cfg.Slugify {
			rel = slugifyPath(rel)
		}

		posts = append(posts, postEntry{
			title:   title,
			dateKey: c.formatDate(meta),
			path:    rel,
		})
	}

	// Newest first; title breaks date ties so output is deterministic.
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].dateKey != posts[j].dateKey {
			return posts[i].dateKey > posts[j].dateKey
		}
		return posts[i].title < posts[j].title
	})
	return posts, nil
}
