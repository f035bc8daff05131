package graph_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pypack-dev/pypack/pkg/graph"
)

// writeTree materializes a fixture source tree under a fresh temp dir.
// Keys are slash-separated paths relative to the returned root.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()

	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	return root
}

func scanTree(t *testing.T, files map[string]string) *graph.ModuleGraph {
	t.Helper()

	root := writeTree(t, files)
	moduleGraph := graph.New(graph.Options{Externals: graph.StdlibExternals()})
	require.NoError(t, moduleGraph.Scan(context.Background(), root))

	return moduleGraph
}

func orderedNames(t *testing.T, moduleGraph *graph.ModuleGraph) []string {
	t.Helper()

	ordered, err := moduleGraph.Order()
	require.NoError(t, err)

	names := make([]string, len(ordered))
	for i, module := range ordered {
		names[i] = module.Name
	}

	return names
}

func TestScanFlatRoot(t *testing.T) {
	t.Parallel()

	moduleGraph := scanTree(t, map[string]string{
		"app/a.py": "",
		"app/b.py": "import a\n",
	})

	assert.Equal(t, []string{"app.a", "app.b"}, orderedNames(t, moduleGraph))

	b := moduleGraph.Get("app.b")
	require.NotNil(t, b)
	assert.Contains(t, b.Imports, "app.a")
}

func TestScanPackageTree(t *testing.T) {
	t.Parallel()

	moduleGraph := scanTree(t, map[string]string{
		"pkg/__init__.py": "",
		"pkg/sub.py":      "from . import sub2\n",
		"pkg/sub2.py":     "",
	})

	assert.Equal(t, []string{"pkg", "pkg.sub", "pkg.sub2"}, moduleGraph.Names())

	names := orderedNames(t, moduleGraph)
	assert.Less(t, index(names, "pkg.sub2"), index(names, "pkg.sub"))

	pkg := moduleGraph.Get("pkg")
	require.NotNil(t, pkg)
	assert.True(t, pkg.IsPackage)
	assert.False(t, moduleGraph.Get("pkg.sub").IsPackage)
}

func TestScanRelativeImportAboveParent(t *testing.T) {
	t.Parallel()

	moduleGraph := scanTree(t, map[string]string{
		"pkg/__init__.py":       "",
		"pkg/util.py":           "",
		"pkg/inner/__init__.py": "",
		"pkg/inner/worker.py":   "from .. import util\n",
		"pkg/inner/sibling.py":  "from . import worker\n",
		"pkg/inner/grandkid.py": "from ..inner import sibling\n",
	})

	worker := moduleGraph.Get("pkg.inner.worker")
	require.NotNil(t, worker)
	assert.Contains(t, worker.Imports, "pkg.util")

	sibling := moduleGraph.Get("pkg.inner.sibling")
	require.NotNil(t, sibling)
	assert.Contains(t, sibling.Imports, "pkg.inner.worker")

	grandkid := moduleGraph.Get("pkg.inner.grandkid")
	require.NotNil(t, grandkid)
	assert.Contains(t, grandkid.Imports, "pkg.inner.sibling")
}

func TestResolverShortening(t *testing.T) {
	t.Parallel()

	moduleGraph := scanTree(t, map[string]string{
		"app/main.py":         "from pkg.sub import Symbol\n",
		"app/pkg/__init__.py": "",
		"app/pkg/sub.py":      "Symbol = 1\n",
	})

	main := moduleGraph.Get("app.main")
	require.NotNil(t, main)
	assert.Contains(t, main.Imports, "app.pkg.sub")
}

func TestResolverWildcard(t *testing.T) {
	t.Parallel()

	moduleGraph := scanTree(t, map[string]string{
		"app/main.py":    "from helpers import *\n",
		"app/helpers.py": "",
	})

	main := moduleGraph.Get("app.main")
	require.NotNil(t, main)

	// The wildcard reference keeps the stated name verbatim; here it
	// happens to dangle because the stated name lacks the app qualifier.
	assert.Contains(t, main.Imports, "helpers")
}

func TestExternalExclusion(t *testing.T) {
	t.Parallel()

	moduleGraph := scanTree(t, map[string]string{
		"app/main.py": "import os\nimport os.path\nimport sys\nfrom collections import OrderedDict\n",
	})

	main := moduleGraph.Get("app.main")
	require.NotNil(t, main)
	assert.Empty(t, main.Imports)
}

func TestCycleDetection(t *testing.T) {
	t.Parallel()

	moduleGraph := scanTree(t, map[string]string{
		"app/a.py": "import b\n",
		"app/b.py": "import a\n",
	})

	_, err := moduleGraph.Order()
	require.Error(t, err)

	var cycleErr *graph.CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.ElementsMatch(t, []string{"app.a", "app.b"}, cycleErr.Cycle)
	assert.Contains(t, cycleErr.Error(), "dependency cycle")
}

func TestSelfImportIgnored(t *testing.T) {
	t.Parallel()

	moduleGraph := scanTree(t, map[string]string{
		"app/solo.py": "import solo\n",
	})

	solo := moduleGraph.Get("app.solo")
	require.NotNil(t, solo)
	assert.Empty(t, solo.Imports)

	_, err := moduleGraph.Order()
	assert.NoError(t, err)
}

func TestSetupPyExcluded(t *testing.T) {
	t.Parallel()

	moduleGraph := scanTree(t, map[string]string{
		"app/setup.py": "from setuptools import setup\n",
		"app/real.py":  "",
	})

	assert.Equal(t, []string{"app.real"}, moduleGraph.Names())
}

func TestMissingRootSkippedSilently(t *testing.T) {
	t.Parallel()

	moduleGraph := graph.New(graph.Options{})
	err := moduleGraph.Scan(context.Background(), filepath.Join(t.TempDir(), "nope"))

	require.NoError(t, err)
	assert.Zero(t, moduleGraph.Len())
}

func TestSyntaxErrorAborts(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"app/good.py":   "",
		"app/broken.py": "def (:\n",
	})

	moduleGraph := graph.New(graph.Options{})
	err := moduleGraph.Scan(context.Background(), root)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.py")
}

func TestNamingCollisionAdvisory(t *testing.T) {
	t.Parallel()

	rootA := writeTree(t, map[string]string{"app/x.py": ""})
	rootB := writeTree(t, map[string]string{"app/x.py": "value = 2\n"})

	moduleGraph := graph.New(graph.Options{})
	require.NoError(t, moduleGraph.Scan(context.Background(), rootA, rootB))

	advisories := moduleGraph.Advisories()
	require.NotEmpty(t, advisories)
	assert.Equal(t, graph.AdvisoryCollision, advisories[0].Kind)
	assert.Equal(t, "app.x", advisories[0].Name)
}

func TestUnresolvedAliasAdvisory(t *testing.T) {
	t.Parallel()

	importerRoot := writeTree(t, map[string]string{
		"app/main.py": "import ghost.x\n",
	})
	ghostRoot := writeTree(t, map[string]string{
		"ghost/x.py": "",
	})

	moduleGraph := graph.New(graph.Options{})
	require.NoError(t, moduleGraph.Scan(context.Background(), importerRoot))
	require.NoError(t, moduleGraph.Scan(context.Background(), ghostRoot))

	advisories := moduleGraph.Advisories()
	require.NotEmpty(t, advisories)
	assert.Equal(t, graph.AdvisoryUnresolvedAlias, advisories[0].Kind)
	assert.Equal(t, "ghost.x", advisories[0].Name)
}

func TestOrderDeterministic(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"app/a.py": "import c\n",
		"app/b.py": "import c\n",
		"app/c.py": "",
		"app/d.py": "",
	}

	first := orderedNames(t, scanTree(t, files))

	for range 3 {
		assert.Equal(t, first, orderedNames(t, scanTree(t, files)))
	}
}

func TestSearchPathFirstMatchWins(t *testing.T) {
	t.Parallel()

	preferred := writeTree(t, map[string]string{"lib/shared.py": "version = 1\n"})
	fallback := writeTree(t, map[string]string{"lib/shared.py": "version = 2\n"})

	importerRoot := writeTree(t, map[string]string{
		"app/main.py": "import lib.shared\n",
	})

	moduleGraph := graph.New(graph.Options{SearchPath: []string{preferred, fallback}})
	require.NoError(t, moduleGraph.Scan(context.Background(), importerRoot))

	main := moduleGraph.Get("app.main")
	require.NotNil(t, main)
	assert.Contains(t, main.Imports, "lib.shared")
}

func index(list []string, val string) int {
	for idx, str := range list {
		if str == val {
			return idx
		}
	}

	return -1
}
