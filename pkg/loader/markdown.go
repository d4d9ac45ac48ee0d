package loader

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

// extractMarkdown renders markdown down to plain text by walking the
// parsed AST: formatting and link targets drop away, text and code
// block contents remain, block boundaries become blank lines.
func extractMarkdown(data []byte) string {
	root := goldmark.New().Parser().Parse(gmtext.NewReader(data))

	var b strings.Builder
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			switch n.Kind() {
			case ast.KindParagraph, ast.KindHeading, ast.KindListItem, ast.KindBlockquote:
				b.WriteString("\n\n")
			}
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(data))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.FencedCodeBlock:
			writeCodeLines(&b, data, node.Lines())
			b.WriteString("\n\n")
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock:
			writeCodeLines(&b, data, node.Lines())
			b.WriteString("\n\n")
			return ast.WalkSkipChildren, nil
		case *ast.AutoLink:
			b.Write(node.URL(data))
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

func writeCodeLines(b *strings.Builder, data []byte, lines *gmtext.Segments) {
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(data))
	}
}
