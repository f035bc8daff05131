// Package pysrc parses Python source text with the tree-sitter Python
// grammar and extracts the import facts the packer needs: raw import
// descriptors, import-style predicates, and comment spans.
package pysrc

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alexaandru/go-sitter-forest/python"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// Sentinel errors for parse operations.
var (
	ErrSyntax   = errors.New("python syntax error")
	errNoRoot   = errors.New("no root node")
	errPoolType = errors.New("parser pool returned unexpected type")
)

// language is the shared tree-sitter Python language handle.
var language = sitter.NewLanguage(python.GetLanguage())

// parserPool recycles tree-sitter parser instances across parses.
var parserPool = sync.Pool{
	New: func() any {
		p := sitter.NewParser()
		p.SetLanguage(language)

		return p
	},
}

// Tree wraps a parsed Python syntax tree together with its source bytes.
// Close must be called when the tree is no longer needed.
type Tree struct {
	tree   *sitter.Tree
	source []byte
}

// Parse parses Python source into a Tree. A source whose top-level parse
// contains tree-sitter ERROR nodes is rejected with ErrSyntax, carrying the
// byte offset of the first error.
func Parse(ctx context.Context, source []byte) (*Tree, error) {
	parser, ok := parserPool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}
	defer parserPool.Put(parser)

	tree, err := parser.ParseString(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	root := tree.RootNode()
	if root.IsNull() {
		tree.Close()

		return nil, errNoRoot
	}

	if errNode, found := findErrorNode(root); found {
		offset := errNode.StartByte()
		tree.Close()

		return nil, fmt.Errorf("%w at byte %d", ErrSyntax, offset)
	}

	return &Tree{tree: tree, source: source}, nil
}

// Close releases the underlying tree-sitter tree.
func (t *Tree) Close() {
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

// root returns the root node of the tree.
func (t *Tree) root() sitter.Node {
	return t.tree.RootNode()
}

// text returns the source text covered by a node.
func (t *Tree) text(n sitter.Node) string {
	start, end := n.StartByte(), n.EndByte()
	if end > uint(len(t.source)) {
		return ""
	}

	return string(t.source[start:end])
}

// findErrorNode locates the first ERROR node in a parse tree, if any.
func findErrorNode(n sitter.Node) (sitter.Node, bool) {
	if n.Type() == "ERROR" {
		return n, true
	}

	for idx := range n.NamedChildCount() {
		if errNode, found := findErrorNode(n.NamedChild(idx)); found {
			return errNode, true
		}
	}

	return sitter.Node{}, false
}

// visit walks every named node in the tree in document order.
func visit(n sitter.Node, fn func(sitter.Node)) {
	fn(n)

	for idx := range n.NamedChildCount() {
		visit(n.NamedChild(idx), fn)
	}
}
