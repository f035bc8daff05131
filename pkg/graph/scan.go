package graph

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/src-d/enry/v2"

	"github.com/pypack-dev/pypack/pkg/pysrc"
)

// pythonLanguage is the language name enry reports for Python sources.
const pythonLanguage = "Python"

// candidate is one file awaiting extraction, as a (file, containing
// directory) pair.
type candidate struct {
	file string
	dir  string
	path string
}

// extracted carries a worker's parse result into the merge phase.
type extracted struct {
	content []byte
	imports []pysrc.RawImport
	skipped bool
}

// Scan walks the given roots, parses every candidate source file, and
// populates the registry with one Module per file, dependencies resolved.
// Roots may be files or directories; a root that does not exist is skipped
// silently. Reads and parses fan out across the worker pool; registration
// and resolution run on a single writer so the registry and the resolution
// cache see a consistent, deterministic sequence.
//
// Any unreadable or unparsable file aborts the scan: a partial graph could
// order the pack in violation of real execution dependencies.
func (g *ModuleGraph) Scan(ctx context.Context, roots ...string) error {
	candidates, err := g.collect(roots)
	if err != nil {
		return err
	}

	results, err := g.extractAll(ctx, candidates)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	for i, c := range candidates {
		if results[i].skipped {
			continue
		}

		g.buildModule(c, results[i])
	}

	return nil
}

// collect walks each root, appending every visited directory to the
// search path list in visit order and gathering candidate files. The
// build descriptor is excluded: in many layouts it sits outside the
// module it describes and would be misread as a module of its own.
func (g *ModuleGraph) collect(roots []string) ([]candidate, error) {
	var candidates []candidate

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			g.logger.Debug("skipping missing root", "root", root)

			continue
		}

		if !info.IsDir() {
			dir := filepath.Dir(root)
			g.appendPath(dir)

			candidates = append(candidates, candidate{file: filepath.Base(root), dir: dir, path: root})

			continue
		}

		walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrDiscovery, path, err)
			}

			if entry.IsDir() {
				g.appendPath(path)

				return nil
			}

			name := entry.Name()
			if !strings.HasSuffix(name, sourceExt) || name == buildDescriptor {
				return nil
			}

			candidates = append(candidates, candidate{file: name, dir: filepath.Dir(path), path: path})

			return nil
		})
		if walkErr != nil {
			return nil, walkErr
		}
	}

	return candidates, nil
}

// appendPath records a directory on the search path list, preserving
// first-seen order.
func (g *ModuleGraph) appendPath(dir string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.paths = append(g.paths, dir)
}

// extractAll reads and parses every candidate across the worker pool.
// Results land at the candidate's index so the merge phase stays in walk
// order regardless of worker scheduling. The first failure cancels the
// remaining work.
func (g *ModuleGraph) extractAll(ctx context.Context, candidates []candidate) ([]extracted, error) {
	results := make([]extracted, len(candidates))
	jobs := make(chan int)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err

			cancel()
		})
	}

	for range g.opts.Workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for idx := range jobs {
				result, err := g.extractOne(ctx, candidates[idx])
				if err != nil {
					fail(err)

					return
				}

				results[idx] = result
			}
		}()
	}

feed:
	for idx := range candidates {
		select {
		case jobs <- idx:
		case <-ctx.Done():
			break feed
		}
	}

	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan canceled: %w", err)
	}

	return results, nil
}

// extractOne reads one file and extracts its raw imports.
func (g *ModuleGraph) extractOne(ctx context.Context, c candidate) (extracted, error) {
	content, err := os.ReadFile(c.path)
	if err != nil {
		return extracted{}, fmt.Errorf("%w: %s: %v", ErrDiscovery, c.path, err)
	}

	if g.opts.StrictLang {
		if lang := enry.GetLanguage(c.file, content); lang != pythonLanguage {
			g.logger.Debug("skipping non-python candidate", "file", c.path, "language", lang)

			return extracted{skipped: true}, nil
		}
	}

	imports, err := pysrc.ExtractImports(ctx, content)
	if err != nil {
		return extracted{}, fmt.Errorf("%s: %w", c.path, err)
	}

	return extracted{content: content, imports: imports}, nil
}

// buildModule derives the canonical name for one extracted file, resolves
// its raw imports against the current path facts, and registers the
// resulting Module. Self-edges are dropped; references the host provides
// contribute nothing; unresolvable references keep their raw name as a
// best-effort placeholder and are noted for the alias advisory.
//
// Caller holds g.mu.
func (g *ModuleGraph) buildModule(c candidate, result extracted) {
	module := &Module{
		Name:      deriveName(c.file, c.dir),
		File:      c.path,
		IsPackage: c.file == packageMarker,
		Content:   string(result.content),
		Imports:   make(map[string]struct{}),
	}

	for _, raw := range result.imports {
		dep, resolved := g.resolveImport(raw.Name, raw.Level, c.dir)
		if dep == "" || dep == module.Name {
			continue
		}

		if !resolved {
			g.fallbacks[dep] = append(g.fallbacks[dep], c.path)
		}

		module.Imports[dep] = struct{}{}
	}

	g.register(module)
	g.logger.Debug("registered module", "name", module.Name, "file", c.path, "deps", len(module.Imports))
}
