package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "crumbtrail",
		Short: "Extract and relate AI breadcrumb comments in source trees",
		Long: `Crumbtrail reads structured AI_* comments ("breadcrumbs") out of
C-family source files, validates them, and relates them to each other by
marker, declared dependencies, blocking phases and shared references.

Configuration is read from .crumbtrail.yaml in the scanned directory and
CRUMBTRAIL_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("format", "", "Output format: text|json|yaml|jsonl (default from config)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug|info|warn|error (default from config)")

	// Scan Commands
	scanCmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a file or directory and print its breadcrumbs",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunScan,
	}
	scanCmd.Flags().Bool("json", false, "Print the aggregate export as JSON")
	scanCmd.Flags().Bool("yaml", false, "Print the aggregate export as YAML")
	scanCmd.Flags().Bool("save", false, "Write the scan snapshot used by status")
	scanCmd.Flags().String("out", "", "Also write the JSON export to this file")

	validateCmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Check breadcrumbs for missing tags and inconsistent values",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunValidate,
	}
	validateCmd.Flags().Bool("json", false, "Print machine-readable validation report")
	validateCmd.Flags().Bool("strict", false, "Exit non-zero when validation errors are found")

	statsCmd := &cobra.Command{
		Use:   "stats [path]",
		Short: "Count breadcrumbs by phase and status",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunStats,
	}
	statsCmd.Flags().Bool("json", false, "Print machine-readable statistics")

	// Navigate Commands
	mapCmd := &cobra.Command{
		Use:   "map [path]",
		Short: "Group breadcrumbs by AI_BREADCRUMB marker",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunMap,
	}
	mapCmd.Flags().Bool("json", false, "Print machine-readable marker groups")

	relatedCmd := &cobra.Command{
		Use:   "related <file:line> [path]",
		Short: "Show breadcrumbs related to the one at file:line",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  RunRelated,
	}
	relatedCmd.Flags().Bool("json", false, "Print machine-readable relations")

	graphCmd := &cobra.Command{
		Use:   "graph [path]",
		Short: "Print the breadcrumb relationship graph as nodes and edges",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunGraph,
	}
	graphCmd.Flags().Bool("no-symbols", false, "Skip resolving the declaration each breadcrumb annotates")

	showCmd := &cobra.Command{
		Use:   "show <file:line> [path]",
		Short: "Show one breadcrumb in full with the declaration it annotates",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  RunShow,
	}
	showCmd.Flags().Bool("json", false, "Print machine-readable breadcrumb")

	searchCmd := &cobra.Command{
		Use:   "search <query> [path]",
		Short: "Rank breadcrumbs by text match on phase, marker, path and notes",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  RunSearch,
	}
	searchCmd.Flags().Bool("json", false, "Print machine-readable search results")
	searchCmd.Flags().Int("limit", 10, "Maximum number of results to return")

	// Inspect Commands
	statusCmd := &cobra.Command{
		Use:   "status [path]",
		Short: "Show files changed since the last saved scan",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunStatus,
	}
	statusCmd.Flags().Bool("json", false, "Print machine-readable status output")

	watchCmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Re-validate breadcrumbs whenever source files change",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunWatch,
	}
	watchCmd.Flags().Duration("debounce", defaultDebounce, "Quiet period before re-validating")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "crumbtrail %s\n", version)
		},
	}

	rootCmd.AddCommand(
		scanCmd,
		validateCmd,
		statsCmd,
		mapCmd,
		relatedCmd,
		graphCmd,
		showCmd,
		searchCmd,
		statusCmd,
		watchCmd,
		versionCmd,
	)

	return rootCmd
}
