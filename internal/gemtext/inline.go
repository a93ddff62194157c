package gemtext

import (
	"strings"

	east "github.com/yuin/goldmark-emoji/ast"
	"github.com/yuin/goldmark/ast"
)

// inlineText flattens a block's inline content to one plain-text line.
// Links and images encountered along the way land in w.links.
func (w *writer) inlineText(n ast.Node) string {
	var sb strings.Builder
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		w.appendInline(&sb, child)
	}
	return strings.TrimSpace(sb.String())
}

func (w *writer) appendInline(sb *strings.Builder, n ast.Node) {
	switch node := n.(type) {
	case *ast.Text:
		sb.Write(node.Segment.Value(w.src))
		// Soft and hard breaks both flatten to a space: a Gemtext
		// paragraph is a single long line.
		if node.SoftLineBreak() || node.HardLineBreak() {
			sb.WriteByte(' ')
		}
	case *ast.String:
		sb.Write(node.Value)
	case *ast.CodeSpan:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			w.appendInline(sb, c)
		}
	case *ast.Emphasis:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			w.appendInline(sb, c)
		}
	case *ast.Link:
		label := w.collectText(node)
		w.links = append(w.links, linkRef{dest: string(node.Destination), label: label})
		sb.WriteString(label)
	case *ast.AutoLink:
		url := string(node.URL(w.src))
		w.links = append(w.links, linkRef{dest: url})
		sb.WriteString(url)
	case *ast.Image:
		// The alt text belongs on the link line, not inline.
		alt := w.collectText(node)
		w.links = append(w.links, linkRef{dest: string(node.Destination), label: alt})
	case *east.Emoji:
		if node.Value != nil {
			sb.WriteString(string(node.Value.Unicode))
		}
	case *ast.RawHTML:
		// Inline HTML is dropped; its text content, if any, arrives as
		// sibling Text nodes.
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			w.appendInline(sb, c)
		}
	}
}

// collectText flattens a node's children without writing to the main line.
func (w *writer) collectText(n ast.Node) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		w.appendInline(&sb, c)
	}
	return strings.TrimSpace(sb.String())
}
