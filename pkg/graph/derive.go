package graph

import (
	"os"
	"path/filepath"
	"strings"
)

// sourceExt is the source-file extension the scanner accepts.
const sourceExt = ".py"

// packageMarker is the file whose presence makes a directory an importable
// unit named after the directory.
const packageMarker = "__init__.py"

// buildDescriptor sits outside the module it describes in many layouts and
// must never be mistaken for a module of its own.
const buildDescriptor = "setup.py"

// deriveName computes the canonical dotted name for a file. Starting from
// the containing directory it walks upward while the current directory is
// still part of a contiguous source tree (its parent holds at least one
// source file), collecting directory names; the file's own basename is
// appended unless the file is the package marker. fileName may carry path
// segments when derivation is invoked with a compound relative name; only
// the last segment survives.
func deriveName(fileName, dir string) string {
	var parts []string

	elements := strings.Split(filepath.Clean(dir), string(filepath.Separator))
	for len(elements) > 0 {
		parts = append(parts, elements[len(elements)-1])
		elements = elements[:len(elements)-1]

		parent := strings.Join(elements, string(filepath.Separator))
		if !containsSource(parent) {
			break
		}
	}

	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}

	name := strings.Join(parts, ".")

	if !strings.Contains(fileName, packageMarker) {
		base := strings.TrimSuffix(fileName, sourceExt)
		if idx := strings.LastIndex(base, string(filepath.Separator)); idx >= 0 {
			base = base[idx+1:]
		}

		name += "." + base
	}

	return name
}

// containsSource reports whether dir holds at least one source file other
// than the build descriptor. An empty or unreadable dir counts as no.
func containsSource(dir string) bool {
	if dir == "" {
		return false
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, sourceExt) && name != buildDescriptor {
			return true
		}
	}

	return false
}
