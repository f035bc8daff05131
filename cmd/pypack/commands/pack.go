// Package commands implements CLI command handlers for pypack.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pypack-dev/pypack/internal/config"
	"github.com/pypack-dev/pypack/pkg/graph"
	"github.com/pypack-dev/pypack/pkg/minify"
	"github.com/pypack-dev/pypack/pkg/packer"
)

// PackCommand holds configuration and dependencies for the pack command.
type PackCommand struct {
	configPath string

	libRoots   []string
	searchPath []string
	externals  []string

	format     string
	output     string
	compress   bool
	minifySrc  bool
	obfuscate  bool
	strictLang bool
	noColor    bool
	workers    int
}

// NewPackCommand creates the pack command.
func NewPackCommand() *cobra.Command {
	packCmd := &PackCommand{}

	cmd := &cobra.Command{
		Use:   "pack [flags] <entry.py|root>...",
		Short: "Build and emit the ordered pack",
		Long: `Scan the given entry files and roots (plus any --lib roots), resolve
every import to the file that satisfies it, order the result so each
dependency precedes its dependents, and write the pack.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return packCmd.Run(cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&packCmd.configPath, "config", "", "config file path")
	flags.StringSliceVar(&packCmd.libRoots, "lib", nil, "additional library roots to scan")
	flags.StringSliceVar(&packCmd.searchPath, "path", nil, "supplementary search path entries")
	flags.StringSliceVar(&packCmd.externals, "external", nil, "module names the host already provides")
	flags.StringVarP(&packCmd.format, "format", "f", "bundle", "output format: bundle, json or yaml")
	flags.StringVarP(&packCmd.output, "output", "o", "", "write the pack to a file instead of stdout")
	flags.BoolVar(&packCmd.compress, "compress", false, "lz4-compress the output")
	flags.BoolVar(&packCmd.minifySrc, "minify", false, "strip comments and blank lines per module")
	flags.BoolVar(&packCmd.obfuscate, "obfuscate", false, "forward the obfuscation flag to the transform (the built-in transform minifies only)")
	flags.BoolVar(&packCmd.strictLang, "strict-lang", false, "skip candidates whose detected language is not Python")
	flags.BoolVar(&packCmd.noColor, "no-color", false, "disable colored output")
	flags.IntVar(&packCmd.workers, "workers", 0, "scan worker count (0 = GOMAXPROCS)")

	return cmd
}

// Run executes the pack command.
func (c *PackCommand) Run(cmd *cobra.Command, args []string) error {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}

	roots := append(append([]string{}, args...), cfg.Pack.Roots...)
	roots = append(roots, cfg.Pack.LibRoots...)

	if len(roots) == 0 {
		return config.ErrNoInputs
	}

	format, err := packer.ParseFormat(cfg.Pack.Format)
	if err != nil {
		return err
	}

	moduleGraph := graph.New(graph.Options{
		SearchPath: cfg.Pack.SearchPath,
		Externals:  graph.ExternalsFrom(cfg.Pack.Externals...),
		StrictLang: cfg.Pack.StrictLang,
		Workers:    cfg.Pack.Workers,
		Logger:     slog.Default(),
	})

	if err := moduleGraph.Scan(cmd.Context(), roots...); err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	var transform packer.Transform
	if cfg.Pack.Minify || cfg.Pack.Obfuscate {
		transform = minify.Minify
	}

	if cfg.Pack.Obfuscate {
		slog.Warn("identifier obfuscation is not implemented, modules are minified only")
	}

	result, err := packer.Build(moduleGraph, transform, cfg.Pack.Obfuscate)
	if err != nil {
		return err
	}

	c.reportAdvisories(result.Advisories)

	written, err := c.emit(cfg, format, result.Records)
	if err != nil {
		return err
	}

	slog.Info("pack written",
		"modules", len(result.Records),
		"size", humanize.Bytes(uint64(written)),
		"format", format,
		"compressed", cfg.Pack.Compress)

	return nil
}

// loadConfig loads the config file and overlays the flags the user set.
func (c *PackCommand) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()

	if flags.Changed("lib") {
		cfg.Pack.LibRoots = append(cfg.Pack.LibRoots, c.libRoots...)
	}

	if flags.Changed("path") {
		cfg.Pack.SearchPath = append(cfg.Pack.SearchPath, c.searchPath...)
	}

	if flags.Changed("external") {
		cfg.Pack.Externals = append(cfg.Pack.Externals, c.externals...)
	}

	if flags.Changed("format") {
		cfg.Pack.Format = c.format
	}

	if flags.Changed("output") {
		cfg.Pack.Output = c.output
	}

	if flags.Changed("compress") {
		cfg.Pack.Compress = c.compress
	}

	if flags.Changed("minify") {
		cfg.Pack.Minify = c.minifySrc
	}

	if flags.Changed("obfuscate") {
		cfg.Pack.Obfuscate = c.obfuscate
	}

	if flags.Changed("strict-lang") {
		cfg.Pack.StrictLang = c.strictLang
	}

	if flags.Changed("workers") {
		cfg.Pack.Workers = c.workers
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// reportAdvisories prints non-fatal findings to stderr. Advisories never
// change the exit code.
func (c *PackCommand) reportAdvisories(advisories []graph.Advisory) {
	if len(advisories) == 0 {
		return
	}

	warn := color.New(color.FgYellow)
	if c.noColor {
		warn.DisableColor()
	}

	for _, advisory := range advisories {
		warn.Fprintf(os.Stderr, "warning: %s: %s\n", advisory.Kind, advisory.Message)
	}
}

// emit writes the records to the configured destination and returns the
// byte count written.
func (c *PackCommand) emit(cfg *config.Config, format packer.Format, records []packer.Record) (int64, error) {
	var out io.Writer = os.Stdout

	if cfg.Pack.Output != "" {
		file, err := os.Create(cfg.Pack.Output)
		if err != nil {
			return 0, fmt.Errorf("create output: %w", err)
		}
		defer file.Close()

		out = file
	}

	counter := &countingWriter{w: out}

	if cfg.Pack.Compress {
		if err := packer.WriteCompressed(counter, format, records); err != nil {
			return 0, err
		}
	} else if err := packer.Write(counter, format, records); err != nil {
		return 0, err
	}

	return counter.n, nil
}

// countingWriter tracks how many bytes pass through it.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)

	return n, err
}
