package pysrc

import (
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// Span is a half-open byte range [Start, End) into the parsed source.
type Span struct {
	Start uint
	End   uint
}

// Comments returns the byte spans of every comment in the tree, in
// document order.
func (t *Tree) Comments() []Span {
	var spans []Span

	visit(t.root(), func(n sitter.Node) {
		if n.Type() == "comment" {
			spans = append(spans, Span{Start: n.StartByte(), End: n.EndByte()})
		}
	})

	return spans
}
