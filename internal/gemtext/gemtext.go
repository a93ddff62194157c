// Package gemtext renders Markdown to Gemtext (the Gemini protocol's text
// format). Rendering walks the Goldmark AST instead of pattern-matching
// lines, so nested inline constructs flatten correctly.
//
// Gemtext is line-oriented: headings up to level 3, single-line paragraphs,
// `* ` list items, `> ` quotes, ``` fenced blocks and `=> ` link lines.
// Inline styling does not exist, so emphasis and code spans reduce to their
// literal text and links move onto their own `=> ` lines directly after the
// block that referenced them.
package gemtext

import (
	"strings"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/unicode/norm"
)

// Render converts a Markdown body (frontmatter already removed) to Gemtext.
// Output is NFC-normalized, blank runs are collapsed outside code fences,
// and the document ends with exactly one trailing newline.
func Render(src []byte) []byte {
	md := goldmark.New(goldmark.WithExtensions(emoji.Emoji))
	root := md.Parser().Parse(text.NewReader(src))

	w := &writer{src: src}
	for child := root.FirstChild(); child != nil; child = child.NextSibling() {
		w.renderBlock(child)
	}
	return w.finalize()
}

// linkRef is a link collected while flattening inline content, to be emitted
// as a `=> ` line after the enclosing block.
type linkRef struct {
	dest  string
	label string
}

// outLine is one output line. Raw lines come from code fences and are
// exempt from blank collapsing and trailing-space trimming.
type outLine struct {
	text string
	raw  bool
}

type writer struct {
	src   []byte
	lines []outLine
	links []linkRef
}

func (w *writer) line(s string)    { w.lines = append(w.lines, outLine{text: s}) }
func (w *writer) rawLine(s string) { w.lines = append(w.lines, outLine{text: s, raw: true}) }

// endBlock separates blocks with a blank line; finalize collapses runs.
func (w *writer) endBlock() { w.lines = append(w.lines, outLine{}) }

// flushLinks emits collected links in document order, directly after the
// block they appeared in. A label equal to the destination adds nothing.
func (w *writer) flushLinks() {
	for _, l := range w.links {
		if l.dest == "" {
			continue
		}
		label := strings.TrimSpace(l.label)
		if label == "" || label == l.dest {
			w.line("=> " + l.dest)
		} else {
			w.line("=> " + l.dest + " " + label)
		}
	}
	w.links = w.links[:0]
}

func (w *writer) finalize() []byte {
	out := make([]string, 0, len(w.lines))
	blank := true // swallows leading blanks
	for _, ln := range w.lines {
		if ln.raw {
			out = append(out, ln.text)
			blank = false
			continue
		}
		trimmed := strings.TrimRight(ln.text, " \t")
		if trimmed == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, trimmed)
		blank = false
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return []byte{}
	}
	return norm.NFC.Bytes([]byte(strings.Join(out, "\n") + "\n"))
}
