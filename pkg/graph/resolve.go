package graph

import (
	"os"
	"path/filepath"
	"strings"
)

// resolveImport maps one raw import reference to the canonical name of the
// local module that satisfies it. It returns an empty string for
// references the deployment host provides, and the original unshortened
// name as a best-effort fallback when nothing matches (the orderer ignores
// edges to names that never become modules).
//
// The second result is false exactly when the fallback path was taken, so
// the caller can keep the unresolved-alias bookkeeping without changing
// the resolved name.
//
// Callers must hold g.mu: resolution reads the search path list and reads
// and writes the memoization cache.
func (g *ModuleGraph) resolveImport(name string, level int, originDir string) (string, bool) {
	if g.isExternal(name) {
		return "", true
	}

	// A wildcard reference names the module itself.
	if strings.HasSuffix(name, ".*") {
		return strings.TrimSuffix(name, ".*"), true
	}

	// A relative import above the immediate parent resolves against a
	// directory level-1 steps up from the importing file.
	extra := ""

	if level > 1 {
		elements := strings.Split(originDir, string(filepath.Separator))
		if up := level - 1; up < len(elements) {
			elements = elements[:len(elements)-up]
			extra = strings.Join(elements, string(filepath.Separator))
		}
	}

	if cached, ok := g.cache[cacheKey{name: name, extra: extra}]; ok {
		return cached, true
	}

	for probe := name; probe != ""; probe = shorten(probe) {
		if resolved, ok := g.lookupModuleFile(probe, extra); ok {
			return resolved, true
		}

		if resolved, ok := g.lookupPackageDir(probe, extra); ok {
			return resolved, true
		}
	}

	return name, false
}

// isExternal reports whether the reference targets a host-provided module.
// A dotted reference is external when any of its prefixes is registered:
// importing os.path presumes the host provides os.
func (g *ModuleGraph) isExternal(name string) bool {
	for probe := name; probe != ""; probe = shorten(probe) {
		if _, ok := g.opts.Externals[probe]; ok {
			return true
		}
	}

	return false
}

// lookupModuleFile probes for a plain module file: name with dots turned
// into separators plus the source extension, under the extra directory
// first and then each search path entry in order. First match wins. A hit
// is derived to its canonical name and memoized under the probed name.
func (g *ModuleGraph) lookupModuleFile(name, extra string) (string, bool) {
	relative := strings.ReplaceAll(name, ".", string(filepath.Separator)) + sourceExt

	if extra != "" {
		if full := filepath.Join(extra, relative); pathExists(full) {
			return g.cacheDerived(name, extra, relative, filepath.Dir(full)), true
		}
	}

	for _, entry := range g.paths {
		if isFile(entry) {
			continue
		}

		if full := filepath.Join(entry, relative); pathExists(full) {
			return g.cacheDerived(name, extra, relative, filepath.Dir(full)), true
		}
	}

	return "", false
}

// lookupPackageDir probes for a package: the marker file inside a
// directory named after the target.
func (g *ModuleGraph) lookupPackageDir(name, extra string) (string, bool) {
	return g.lookupModuleFile(name+".__init__", extra)
}

// cacheDerived derives the canonical name for a resolved file and records
// it in the resolution cache.
func (g *ModuleGraph) cacheDerived(name, extra, relative, dir string) string {
	derived := deriveName(relative, dir)
	g.cache[cacheKey{name: name, extra: extra}] = derived

	return derived
}

// shorten strips the last dotted segment, resolving references like
// pkg.sub.Symbol down to the file pkg/sub. Returns an empty string when no
// segment remains.
func shorten(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return ""
	}

	return name[:idx]
}

func pathExists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}
