package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pypack-dev/pypack/pkg/pysrc"
)

// Policy violations reported by the check command.
var (
	ErrRelativeImports = errors.New("relative imports found")
	ErrAbsoluteImport  = errors.New("absolute import of denied module found")
)

// CheckCommand holds configuration for the check command.
type CheckCommand struct {
	module       string
	denyRelative bool
	denyAbsolute bool
}

// NewCheckCommand creates the check command. The checks classify import
// style only; they never influence resolution or pack order.
func NewCheckCommand() *cobra.Command {
	checkCmd := &CheckCommand{}

	cmd := &cobra.Command{
		Use:   "check [flags] <file.py>...",
		Short: "Import-style policy checks",
		Long: `Report, per file, whether it contains relative imports and whether it
contains an absolute import of --module. With --deny-relative or
--deny-absolute the command fails when a match is found.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkCmd.Run(cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&checkCmd.module, "module", "m", "", "module name for the absolute-import check")
	flags.BoolVar(&checkCmd.denyRelative, "deny-relative", false, "fail when any file uses relative imports")
	flags.BoolVar(&checkCmd.denyAbsolute, "deny-absolute", false, "fail when any file absolutely imports --module")

	return cmd
}

// Run executes the check command.
func (c *CheckCommand) Run(cmd *cobra.Command, args []string) error {
	if c.denyAbsolute && c.module == "" {
		return errors.New("--deny-absolute requires --module")
	}

	var violation error

	for _, path := range args {
		source, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		relative, err := pysrc.HasRelativeImport(cmd.Context(), source)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		absolute := false

		if c.module != "" {
			absolute, err = pysrc.HasAbsoluteImportOf(cmd.Context(), source, c.module)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: relative=%v", path, relative)

		if c.module != "" {
			fmt.Fprintf(cmd.OutOrStdout(), " absolute(%s)=%v", c.module, absolute)
		}

		fmt.Fprintln(cmd.OutOrStdout())

		if c.denyRelative && relative {
			violation = fmt.Errorf("%w: %s", ErrRelativeImports, path)
		}

		if c.denyAbsolute && absolute {
			violation = fmt.Errorf("%w: %s", ErrAbsoluteImport, path)
		}
	}

	return violation
}
