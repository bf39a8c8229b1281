package cli

import (
	"errors"

	"github.com/eventforge/asyncgen/internal/cli/shared"
	"github.com/eventforge/asyncgen/internal/config"
	"github.com/eventforge/asyncgen/internal/generate"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <document.yaml>",
		Short: "Run the full analysis and print a summary",
		Long: `Resolve the document and its referenced files, validate it, analyze its
channels, discover and normalize named schemas and map their types. Prints
the channels with their payload types, the number of types and emission
waves, recursive types and validation warnings.`,
		Example: `  asyncgen analyze asyncapi.yaml
  asyncgen analyze asyncapi.yaml --format json
  asyncgen analyze asyncapi.yaml --collision suffix`,
		GroupID: shared.GroupAnalysis,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runAnalyze,
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	res, s, err := runPipeline(cmd, args, false)
	if err != nil {
		return failWithFindings(cmd, res, err)
	}

	rep := newReport(args[0], res)
	if s.format != config.OutputFormatText {
		return writeStructured(cmd.OutOrStdout(), s.format, rep)
	}
	printSummary(cmd.OutOrStdout(), rep)
	return nil
}

// failWithFindings prints the validation findings of a failed run on stderr
// before reporting the error itself.
func failWithFindings(cmd *cobra.Command, res *generate.Result, err error) error {
	if errors.Is(err, generate.ErrValidationFailed) && res != nil {
		printFindings(cmd.ErrOrStderr(), res.Validation)
	}
	return fail(cmd, err)
}
