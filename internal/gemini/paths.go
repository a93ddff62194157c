package gemini

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// mapRelPath maps a content-relative Markdown path to its capsule path.
// Hugo page bundles collapse onto their directory name:
//
//	blog/my-post/index.md -> blog/my-post.gmi
//	about.md              -> about.gmi
func (c *Converter) mapRelPath(rel string) string {
	rel = filepath.ToSlash(rel)
	base := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))

	var mapped string
	if base == "index" {
		dir := filepath.ToSlash(filepath.Dir(rel))
		if dir == "." {
			mapped = "index.gmi"
		} else {
			mapped = dir + ".gmi"
		}
	} else {
		dir := filepath.ToSlash(filepath.Dir(rel))
		if dir == "." {
			mapped = base + ".gmi"
		} else {
			mapped = dir + "/" + base + ".gmi"
		}
	}

	if c.cfg.Slugify {
		mapped = slugifyPath(mapped)
	}
	return filepath.FromSlash(mapped)
}

// slugifyPath slugifies every path segment, keeping the .gmi extension.
func slugifyPath(p string) string {
	segs := strings.Split(p, "/")
	for i, seg := range segs {
		ext := ""
		if i == len(segs)-1 {
			ext = filepath.Ext(seg)
			seg = strings.TrimSuffix(seg, ext)
		}
		segs[i] = Slugify(seg) + ext
	}
	return strings.Join(segs, "/")
}

// polishFolds covers letters NFD decomposition leaves intact.
var polishFolds = strings.NewReplacer("ł", "l", "Ł", "L")

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify lowercases, strips diacritics and reduces a segment to
// [a-z0-9-]. Empty results fall back to "x" so paths stay valid.
func Slugify(s string) string {
	s = polishFolds.Replace(s)
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)

	var sb strings.Builder
	lastDash := true // no leading dash
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				sb.WriteByte('-')
				lastDash = true
			}
		}
	}
	out := strings.TrimRight(sb.String(), "-")
	if out == "" {
		return "x"
	}
	return out
}
