package pysrc

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// Node kinds of the tree-sitter Python grammar consulted while walking.
const (
	kindImport         = "import_statement"
	kindImportFrom     = "import_from_statement"
	kindFutureImport   = "future_import_statement"
	kindDottedName     = "dotted_name"
	kindAliasedImport  = "aliased_import"
	kindRelativeImport = "relative_import"
	kindImportPrefix   = "import_prefix"
	kindWildcardImport = "wildcard_import"
)

// RawImport is one import reference as stated in the source: the dotted
// name being referenced and the relative-import level (zero for absolute,
// n for n leading dots).
type RawImport struct {
	Name  string
	Level int
}

// ExtractImports parses source and returns every import reference it
// states, in document order. `import a.b, c` yields a.b and c at level 0;
// `from ..pkg import x, y` yields pkg.x and pkg.y at level 2; `from . import
// m` yields m at level 1; `from pkg import *` yields pkg.* at level 0.
func ExtractImports(ctx context.Context, source []byte) ([]RawImport, error) {
	tree, err := Parse(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("extract imports: %w", err)
	}
	defer tree.Close()

	return tree.Imports(), nil
}

// Imports collects the raw import references stated anywhere in the tree,
// including inside function bodies and conditional blocks.
func (t *Tree) Imports() []RawImport {
	var imports []RawImport

	visit(t.root(), func(n sitter.Node) {
		switch n.Type() {
		case kindImport:
			imports = append(imports, t.plainImports(n)...)
		case kindImportFrom, kindFutureImport:
			imports = append(imports, t.fromImports(n)...)
		}
	})

	return imports
}

// plainImports handles `import a.b, c as d`: one reference per listed name.
func (t *Tree) plainImports(n sitter.Node) []RawImport {
	var imports []RawImport

	for idx := range n.NamedChildCount() {
		if name := t.importedName(n.NamedChild(idx)); name != "" {
			imports = append(imports, RawImport{Name: name})
		}
	}

	return imports
}

// fromImports handles `from <module> import a, b as c` and the wildcard
// form. The referenced name is module.a for each listed name, or just the
// listed name when the module part is empty (`from . import a`).
func (t *Tree) fromImports(n sitter.Node) []RawImport {
	module, level, start := t.fromModule(n)

	var imports []RawImport

	for idx := start; idx < n.NamedChildCount(); idx++ {
		child := n.NamedChild(idx)

		var name string

		switch child.Type() {
		case kindWildcardImport:
			name = "*"
		default:
			name = t.importedName(child)
		}

		if name == "" {
			continue
		}

		if module != "" {
			name = module + "." + name
		}

		imports = append(imports, RawImport{Name: name, Level: level})
	}

	return imports
}

// fromModule reads the module part of a from-import: the dotted name, the
// relative level (count of leading dots), and the child index where the
// imported-name list begins. A future import has no module child in the
// grammar; its module is __future__ by construction.
func (t *Tree) fromModule(n sitter.Node) (module string, level int, start uint32) {
	if n.Type() == kindFutureImport {
		return "__future__", 0, 0
	}

	if n.NamedChildCount() == 0 {
		return "", 0, 0
	}

	first := n.NamedChild(0)

	switch first.Type() {
	case kindDottedName:
		return t.text(first), 0, 1
	case kindRelativeImport:
		module, level = t.relativeModule(first)

		return module, level, 1
	}

	return "", 0, 0
}

// relativeModule decodes a relative_import node: `..pkg` has level 2 and
// module pkg, a bare `.` has level 1 and an empty module.
func (t *Tree) relativeModule(n sitter.Node) (string, int) {
	var (
		module string
		level  int
	)

	for idx := range n.NamedChildCount() {
		child := n.NamedChild(idx)

		switch child.Type() {
		case kindImportPrefix:
			level = strings.Count(t.text(child), ".")
		case kindDottedName:
			module = t.text(child)
		}
	}

	return module, level
}

// importedName extracts the dotted name of one list entry, unwrapping
// `x as y` aliases. The alias never matters for resolution.
func (t *Tree) importedName(n sitter.Node) string {
	switch n.Type() {
	case kindDottedName:
		return t.text(n)
	case kindAliasedImport:
		name := n.ChildByFieldName("name")
		if name.IsNull() {
			return ""
		}

		return t.text(name)
	}

	return ""
}
