package pysrc

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// HasAbsoluteImportOf reports whether source contains an absolute import of
// module or of any of its submodules. Relative imports never match, even
// when they resolve to the same module at pack time.
func HasAbsoluteImportOf(ctx context.Context, source []byte, module string) (bool, error) {
	tree, err := Parse(ctx, source)
	if err != nil {
		return false, fmt.Errorf("absolute import check: %w", err)
	}
	defer tree.Close()

	found := false

	visit(tree.root(), func(n sitter.Node) {
		if found {
			return
		}

		switch n.Type() {
		case kindImport:
			for _, imp := range tree.plainImports(n) {
				if matchesModule(imp.Name, module) {
					found = true
				}
			}
		case kindImportFrom:
			name, level, _ := tree.fromModule(n)
			if level == 0 && matchesModule(name, module) {
				found = true
			}
		}
	})

	return found, nil
}

// HasRelativeImport reports whether source contains any relative import.
func HasRelativeImport(ctx context.Context, source []byte) (bool, error) {
	tree, err := Parse(ctx, source)
	if err != nil {
		return false, fmt.Errorf("relative import check: %w", err)
	}
	defer tree.Close()

	found := false

	visit(tree.root(), func(n sitter.Node) {
		if n.Type() == kindImportFrom {
			if _, level, _ := tree.fromModule(n); level > 0 {
				found = true
			}
		}
	})

	return found, nil
}

// matchesModule reports whether name is module itself or dotted below it.
func matchesModule(name, module string) bool {
	return name == module || strings.HasPrefix(name, module+".")
}
