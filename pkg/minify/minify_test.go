package minify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pypack-dev/pypack/pkg/minify"
)

func TestMinify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "clean source unchanged",
			source: "x = 1\n",
			want:   "x = 1\n",
		},
		{
			name:   "full line comment dropped",
			source: "# header\nx = 1\n",
			want:   "x = 1\n",
		},
		{
			name:   "trailing comment trimmed with its padding",
			source: "x = 1  # note\n",
			want:   "x = 1\n",
		},
		{
			name:   "blank lines dropped",
			source: "x = 1\n\n\ny = 2\n",
			want:   "x = 1\ny = 2\n",
		},
		{
			name:   "hash inside string survives",
			source: "s = \"# not a comment\"\n",
			want:   "s = \"# not a comment\"\n",
		},
		{
			name:   "comment only source empties",
			source: "# nothing else here\n",
			want:   "",
		},
		{
			name:   "indented body keeps indentation",
			source: "def f():\n    # explain\n    return 1\n",
			want:   "def f():\n    return 1\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := minify.Minify(tc.source, false)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMinifyObfuscateFlagAccepted(t *testing.T) {
	t.Parallel()

	got, err := minify.Minify("x = 1\n", true)
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", got)
}

func TestMinifySyntaxError(t *testing.T) {
	t.Parallel()

	_, err := minify.Minify("def (:\n", false)
	assert.Error(t, err)
}
