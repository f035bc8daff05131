package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pypack-dev/pypack/internal/config"
	"github.com/pypack-dev/pypack/pkg/graph"
	"github.com/pypack-dev/pypack/pkg/packer"
)

// GraphCommand holds configuration for the graph command.
type GraphCommand struct {
	searchPath []string
	externals  []string
	input      string
	strictLang bool
	workers    int
}

// NewGraphCommand creates the graph command: it scans like pack does but
// prints the module table and emission order instead of emitting a pack.
func NewGraphCommand() *cobra.Command {
	graphCmd := &GraphCommand{}

	cmd := &cobra.Command{
		Use:   "graph [flags] <entry.py|root>...",
		Short: "Print the module table and emission order",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return graphCmd.Run(cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVar(&graphCmd.searchPath, "path", nil, "supplementary search path entries")
	flags.StringSliceVar(&graphCmd.externals, "external", nil, "module names the host already provides")
	flags.StringVar(&graphCmd.input, "input", "", "inspect an lz4-compressed json pack instead of scanning")
	flags.BoolVar(&graphCmd.strictLang, "strict-lang", false, "skip candidates whose detected language is not Python")
	flags.IntVar(&graphCmd.workers, "workers", 0, "scan worker count (0 = GOMAXPROCS)")

	return cmd
}

// Run executes the graph command.
func (c *GraphCommand) Run(cmd *cobra.Command, args []string) error {
	if c.input != "" {
		return c.inspectPack(cmd)
	}

	if len(args) == 0 {
		return config.ErrNoInputs
	}

	moduleGraph := graph.New(graph.Options{
		SearchPath: c.searchPath,
		Externals:  graph.ExternalsFrom(c.externals...),
		StrictLang: c.strictLang,
		Workers:    c.workers,
		Logger:     slog.Default(),
	})

	if err := moduleGraph.Scan(cmd.Context(), args...); err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	ordered, err := moduleGraph.Order()
	if err != nil {
		var cycleErr *graph.CycleError
		if errors.As(err, &cycleErr) {
			return fmt.Errorf("graph is not packable: %w", cycleErr)
		}

		return err
	}

	writer := table.NewWriter()
	writer.SetOutputMirror(cmd.OutOrStdout())
	writer.AppendHeader(table.Row{"#", "Module", "Package", "Deps", "File"})

	for idx, module := range ordered {
		deps := make([]string, 0, len(module.Imports))
		for dep := range module.Imports {
			deps = append(deps, dep)
		}

		sort.Strings(deps)

		writer.AppendRow(table.Row{idx, module.Name, module.IsPackage, strings.Join(deps, ", "), module.File})
	}

	writer.Render()

	return nil
}

// inspectPack renders the record table of a previously written
// lz4-compressed json pack.
func (c *GraphCommand) inspectPack(cmd *cobra.Command) error {
	file, err := os.Open(c.input)
	if err != nil {
		return fmt.Errorf("open pack: %w", err)
	}
	defer file.Close()

	records, err := packer.ReadCompressed(file)
	if err != nil {
		return err
	}

	writer := table.NewWriter()
	writer.SetOutputMirror(cmd.OutOrStdout())
	writer.AppendHeader(table.Row{"#", "Module", "Package", "Bytes"})

	for idx, record := range records {
		writer.AppendRow(table.Row{idx, record.Name, record.IsPackage, len(record.Code)})
	}

	writer.Render()

	return nil
}
