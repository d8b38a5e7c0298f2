package cli

import (
	"errors"
	"fmt"
	"slices"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/idelchi/dupes/internal/dupes"
	"github.com/idelchi/dupes/internal/integration"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// Execute runs the CLI with the provided arguments.
func (c CLI) Execute() error {
	var (
		options    dupes.Options
		minSizeStr string
		sortStr    string
		prefer     string
	)

	allowedOutputs := []string{"table", "json"}

	cmd := &cobra.Command{
		Use:   "dupes [flags] [directory...]",
		Short: "Find groups of byte-identical files",
		Long: heredoc.Doc(`
			dupes finds groups of byte-identical files across one or more
			directory trees and prints each group as soon as its membership
			is determined.

			Files are first bucketed by exact byte size; only files sharing
			a size with at least one other file get their content hashed.
			Group order is not deterministic, but members within a group
			are ordered by the --sort keys, with --prefer placing copies
			under a chosen directory first.

			The '-i' flag outputs a shell integration script that pipes
			group members to 'fzf' for interactive browsing.
		`),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if options.Version {
				//nolint:forbidigo // Version output to console
				fmt.Println(c.version)

				return nil
			}

			if options.Integration {
				rendered, err := integration.Render()
				if err != nil {
					return fmt.Errorf("rendering integration script: %w", err)
				}

				//nolint:forbidigo // Integration script output to console
				fmt.Println(rendered)

				return nil
			}

			if !slices.Contains(allowedOutputs, options.Output) {
				return fmt.Errorf("invalid output format %q: must be one of %v", options.Output, allowedOutputs)
			}

			if cmd.Flags().Changed("max-depth") && !options.Recursive {
				return errors.New("max-depth requires the recursive flag")
			}

			if len(args) == 0 {
				options.Roots = []string{"."}
			} else {
				options.Roots = args
			}

			// Parse minSize string to bytes
			size, err := humanize.ParseBytes(minSizeStr)
			if err != nil {
				return fmt.Errorf("invalid min-size: %w", err)
			}

			options.MinSize = int64(size) //nolint:gosec // Size conversion from humanize is safe

			keys, err := dupes.ParseSortKeys(sortStr)
			if err != nil {
				return err
			}

			options.Sort = dupes.SortOptions{Keys: keys, Prefer: prefer}

			return logic(options)
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false

	flags.BoolVarP(&options.Recursive, "recursive", "r", false, "Recurse into subdirectories")
	flags.IntVar(&options.MaxDepth, "max-depth", -1, "Maximum recursion depth (0 = no recursion). Requires -r")
	flags.BoolVarP(&options.Follow, "follow", "f", false, "Follow symbolic links")
	flags.StringVar(&minSizeStr, "min-size", "1B", "Minimum file size (e.g., 1KB). 0 includes empty files")
	flags.IntVarP(&options.Workers, "workers", "w", 0, "Number of hash workers (0 = number of CPUs)")
	flags.StringVarP(&sortStr, "sort", "s", "mtime,path,depth", "Comma-separated member sort keys: mtime, path, depth")
	flags.StringVar(&prefer, "prefer", "", "Directory whose copies sort first within each group")
	flags.StringVarP(&options.Output, "output", "o", "table", "Output format: json or table")
	flags.BoolVar(&options.Debug, "debug", false, "Enable debug output")
	flags.BoolVarP(&options.Version, "version", "v", false, "Show version and exit")
	flags.BoolVarP(&options.Integration, "init", "i", false, "Output init script for shell usage")

	return cmd.Execute()
}
