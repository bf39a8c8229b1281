// Package cli provides the Cobra-based command line of asyncgen. The
// analysis commands (analyze, types, validate, graph) run the generate
// pipeline over one AsyncAPI document and render its results as text, JSON
// or a debug dump.
package cli

import (
	"fmt"
	"os"

	"github.com/eventforge/asyncgen/internal/cli/shared"
	"github.com/eventforge/asyncgen/internal/config"
	clierrors "github.com/eventforge/asyncgen/internal/errors"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the asyncgen command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "asyncgen",
		Short: "AsyncAPI schema graph analysis",
		Long: `asyncgen resolves an AsyncAPI 3 document and every file it references,
discovers and names the schemas that need generated types, normalizes
composition and maps each schema to a target type.`,
		Example: `  # Full analysis report
  asyncgen analyze asyncapi.yaml

  # Mapped types with defaults, as JSON
  asyncgen types asyncapi.yaml --format json

  # Check a document in CI
  asyncgen validate asyncapi.yaml --fail-on-warnings

  # Emission order and recursive types
  asyncgen graph asyncapi.yaml`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddGroup(&cobra.Group{ID: shared.GroupAnalysis, Title: "Analysis:"})
	rootCmd.AddGroup(&cobra.Group{ID: shared.GroupInfo, Title: "Information:"})
	rootCmd.SetHelpCommandGroupID(shared.GroupInfo)
	rootCmd.SetCompletionCommandGroupID(shared.GroupInfo)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", config.LocalConfigFile, "Path to config file")
	flags.BoolP("debug", "d", false, "Enable debug logging")
	flags.StringP("format", "f", "", "Output format: text, json, dump (default from config)")
	flags.String("collision", "", "Name collision policy: error, suffix, first-wins (default from config)")
	flags.Bool("no-progress", false, "Disable the progress display")
	flags.Bool("fail-on-warnings", false, "Treat validation warnings as errors")

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newTypesCmd(),
		newValidateCmd(),
		newGraphCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the root command. Errors raised by commands have already been
// reported; anything else is a usage error from cobra.
func Execute() error {
	err := NewRootCmd().Execute()
	if err != nil && !shared.IsExitError(err) {
		fmt.Fprint(os.Stderr, clierrors.FormatSimpleError(err, clierrors.Argument))
	}
	return err
}
