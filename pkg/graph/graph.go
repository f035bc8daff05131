// Package graph builds the module dependency graph for a pack run: it
// discovers Python sources under a set of roots, derives a canonical
// dotted name per file, resolves every import reference to the file that
// satisfies it (or to nothing, for host-provided modules), and orders the
// result so every dependency precedes its dependents.
package graph

import (
	"log/slog"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
)

// Module is one discovered source file: a node in the dependency graph.
type Module struct {
	// Name is the canonical dotted module name, globally unique.
	Name string
	// File is the path of the source file the module came from.
	File string
	// IsPackage is true when the file is the __init__.py marker of its
	// directory; the canonical name is then the directory's name.
	IsPackage bool
	// Content is the file's source text.
	Content string
	// Imports holds the canonical names this module depends on. It is
	// populated during the scan and frozen before ordering reads it.
	Imports map[string]struct{}
}

// Options configures a ModuleGraph.
type Options struct {
	// SearchPath lists supplementary directories consulted, in order,
	// when a reference does not resolve inside the scanned roots. Earlier
	// entries win.
	SearchPath []string
	// Externals names modules the deployment host provides (builtins,
	// stdlib, preloaded libraries). References to them, or to anything
	// dotted below them, contribute no edge.
	Externals map[string]struct{}
	// StrictLang skips candidate files whose detected language is not
	// Python, on top of the extension check.
	StrictLang bool
	// Workers bounds the file read+parse pool. Zero means GOMAXPROCS.
	Workers int
	// Logger receives scan diagnostics. Nil means slog.Default().
	Logger *slog.Logger
}

// cacheKey identifies one memoized resolution: the referenced dotted name
// and the optional extra search directory.
type cacheKey struct {
	name  string
	extra string
}

// ModuleGraph owns the registry of discovered modules plus the shared
// resolution state: the search path list and the memoization cache. It is
// the explicit context object threaded through a pack run; no state is
// ambient, so runs are repeatable and tests can inject fixture trees.
type ModuleGraph struct {
	opts   Options
	logger *slog.Logger

	mu        sync.Mutex
	modules   map[string]*Module
	cache     map[cacheKey]string
	paths     []string
	fallbacks map[string][]string // unresolved reference -> importing files
	collided  []Advisory
}

// New creates an empty ModuleGraph. The search path is seeded from
// opts.SearchPath; every directory visited during a Scan is appended after
// it, in visit order.
func New(opts Options) *ModuleGraph {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}

	return &ModuleGraph{
		opts:      opts,
		logger:    logger,
		modules:   make(map[string]*Module),
		cache:     make(map[cacheKey]string),
		paths:     append([]string(nil), opts.SearchPath...),
		fallbacks: make(map[string][]string),
	}
}

// Len returns the number of registered modules.
func (g *ModuleGraph) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.modules)
}

// Get returns the module registered under name, or nil.
func (g *ModuleGraph) Get(name string) *Module {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.modules[name]
}

// Names returns every registered canonical name, sorted.
func (g *ModuleGraph) Names() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	names := make([]string, 0, len(g.modules))
	for name := range g.modules {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// register stores a module, surfacing a NamingCollision advisory when a
// different file already claimed the name. Last write wins, as the host
// import machinery would behave.
func (g *ModuleGraph) register(m *Module) {
	if existing, ok := g.modules[m.Name]; ok && existing.File != m.File {
		g.collided = append(g.collided, Advisory{
			Kind:    AdvisoryCollision,
			Name:    m.Name,
			Message: "files " + existing.File + " and " + m.File + " both derive " + m.Name,
		})
		g.logger.Warn("naming collision", "name", m.Name, "kept", m.File, "dropped", existing.File)
	}

	g.modules[m.Name] = m
}

// Advisories returns the non-fatal conditions observed so far: naming
// collisions recorded during the scan, plus unresolved references that
// alias a real local module.
func (g *ModuleGraph) Advisories() []Advisory {
	g.mu.Lock()
	defer g.mu.Unlock()

	advisories := append([]Advisory(nil), g.collided...)

	names := make([]string, 0, len(g.fallbacks))
	for name := range g.fallbacks {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		if _, local := g.modules[name]; !local {
			continue
		}

		files := g.fallbacks[name]
		sort.Strings(files)

		advisories = append(advisories, Advisory{
			Kind: AdvisoryUnresolvedAlias,
			Name: name,
			Message: "unresolved reference " + name + " from " + filepath.Base(files[0]) +
				" aliases a local module of the same name",
		})
	}

	return advisories
}
