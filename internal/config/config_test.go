package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pypack-dev/pypack/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "bundle", cfg.Pack.Format)
	assert.False(t, cfg.Pack.Compress)
	assert.False(t, cfg.Pack.Minify)
	assert.Zero(t, cfg.Pack.Workers)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pypack.yaml")
	content := `pack:
  roots:
    - src/main.py
  lib_roots:
    - vendor
  externals:
    - requests
  format: json
  compress: true
  workers: 4
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"src/main.py"}, cfg.Pack.Roots)
	assert.Equal(t, []string{"vendor"}, cfg.Pack.LibRoots)
	assert.Equal(t, []string{"requests"}, cfg.Pack.Externals)
	assert.Equal(t, "json", cfg.Pack.Format)
	assert.True(t, cfg.Pack.Compress)
	assert.Equal(t, 4, cfg.Pack.Workers)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr error
	}{
		{
			name:   "defaults valid",
			mutate: func(*config.Config) {},
		},
		{
			name:    "bad format",
			mutate:  func(c *config.Config) { c.Pack.Format = "tar" },
			wantErr: config.ErrInvalidFormat,
		},
		{
			name:    "negative workers",
			mutate:  func(c *config.Config) { c.Pack.Workers = -1 },
			wantErr: config.ErrInvalidWorkers,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Pack.Format = "bundle"
			tc.mutate(cfg)

			err := config.Validate(cfg)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
