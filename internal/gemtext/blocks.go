package gemtext

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func (w *writer) renderBlock(n ast.Node) {
	switch node := n.(type) {
	case *ast.Heading:
		w.renderHeading(node)
	case *ast.Paragraph:
		w.renderParagraph(node)
	case *ast.TextBlock:
		if line := w.inlineText(node); line != "" {
			w.line(line)
		}
		w.flushLinks()
		w.endBlock()
	case *ast.List:
		w.renderList(node, "* ")
		w.flushLinks()
		w.endBlock()
	case *ast.Blockquote:
		w.renderBlockquote(node)
	case *ast.FencedCodeBlock:
		w.renderCode(node, string(node.Language(w.src)))
	case *ast.CodeBlock:
		w.renderCode(node, "")
	case *ast.ThematicBreak:
		w.line("---")
		w.endBlock()
	case *ast.HTMLBlock:
		// Raw HTML has no Gemtext rendering.
	default:
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			w.renderBlock(child)
		}
	}
}

// renderHeading clamps to Gemtext's three levels.
func (w *writer) renderHeading(h *ast.Heading) {
	level := h.Level
	if level > 3 {
		level = 3
	}
	title := w.inlineText(h)
	if title != "" {
		w.line(strings.Repeat("#", level) + " " + title)
	}
	w.flushLinks()
	w.endBlock()
}

func (w *writer) renderParagraph(p *ast.Paragraph) {
	// A paragraph that is exactly one strong span is a "bold heading", a
	// convention some posts use instead of real headings.
	if em, ok := soleStrongChild(p); ok {
		w.line("## " + w.inlineText(em))
		w.flushLinks()
		w.endBlock()
		return
	}
	if line := w.inlineText(p); line != "" {
		w.line(line)
	}
	w.flushLinks()
	w.endBlock()
}

func soleStrongChild(p *ast.Paragraph) (*ast.Emphasis, bool) {
	child := p.FirstChild()
	if child == nil || child.NextSibling() != nil {
		return nil, false
	}
	em, ok := child.(*ast.Emphasis)
	if !ok || em.Level != 2 {
		return nil, false
	}
	return em, true
}

// renderList flattens list items (ordered or not, any nesting depth) to
// `* ` lines. Gemtext has a single list form and no indentation.
func (w *writer) renderList(list *ast.List, prefix string) {
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		var parts []string
		var nested []*ast.List
		for child := item.FirstChild(); child != nil; child = child.NextSibling() {
			if inner, ok := child.(*ast.List); ok {
				nested = append(nested, inner)
				continue
			}
			if txt := w.inlineText(child); txt != "" {
				parts = append(parts, txt)
			}
		}
		if len(parts) > 0 {
			w.line(prefix + strings.Join(parts, " "))
		}
		for _, inner := range nested {
			w.renderList(inner, prefix)
		}
	}
}

func (w *writer) renderBlockquote(q *ast.Blockquote) {
	for child := q.FirstChild(); child != nil; child = child.NextSibling() {
		switch inner := child.(type) {
		case *ast.List:
			w.renderList(inner, "> * ")
		default:
			if txt := w.inlineText(child); txt != "" {
				w.line("> " + txt)
			}
		}
	}
	w.flushLinks()
	w.endBlock()
}

// renderCode emits a fenced block verbatim, keeping the fence info string as
// Gemtext alt text.
func (w *writer) renderCode(n ast.Node, alt string) {
	w.rawLine("```" + alt)
	w.writeCodeLines(n)
	w.rawLine("```")
	w.endBlock()
}

func (w *writer) writeCodeLines(n ast.Node) {
	block, ok := n.(interface{ Lines() *text.Segments })
	if !ok {
		return
	}
	var sb strings.Builder
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(w.src))
	}
	content := strings.TrimSuffix(sb.String(), "\n")
	if content == "" {
		return
	}
	for _, ln := range strings.Split(content, "\n") {
		w.rawLine(strings.TrimSuffix(ln, "\r"))
	}
}
