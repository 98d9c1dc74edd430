// Package chat classifies prompts as commands or conversation and routes
// them to the wiki operations or the model fallback.
package chat

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Normalize trims a raw prompt and unwraps a markdown-link-shaped prompt
// into its link text, so a pasted link reads as the intended command text.
// A string that is anything more than a single link is returned trimmed
// as-is. Empty input normalizes to the empty string.
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if label, ok := soleLinkLabel(trimmed); ok {
		return strings.TrimSpace(label)
	}
	return trimmed
}

// soleLinkLabel reports whether src is exactly one markdown link with no
// surrounding text, and returns its label if so. Detection uses the
// markdown parser rather than pattern matching: the document must be a
// single paragraph whose only inline node is a link.
func soleLinkLabel(src string) (string, bool) {
	source := []byte(src)
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	if doc.ChildCount() != 1 {
		return "", false
	}
	para, ok := doc.FirstChild().(*ast.Paragraph)
	if !ok || para.ChildCount() != 1 {
		return "", false
	}
	link, ok := para.FirstChild().(*ast.Link)
	if !ok {
		return "", false
	}
	return inlineText(link, source), true
}

// inlineText collects the text content of an inline node's subtree.
func inlineText(n ast.Node, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			b.Write(t.Segment.Value(source))
			continue
		}
		b.WriteString(inlineText(c, source))
	}
	return b.String()
}
