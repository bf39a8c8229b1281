package cli

import (
	"errors"
	"fmt"

	"github.com/eventforge/asyncgen/internal/cli/shared"
	"github.com/eventforge/asyncgen/internal/config"
	"github.com/eventforge/asyncgen/internal/generate"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <document.yaml>",
		Short: "Check a document without analyzing it",
		Long: `Resolve the document and its referenced files and run the structural
checks: the asyncapi version, info fields, servers, channel address
parameters, messages and operations. Exits with status 1 when errors are
found, or warnings with --fail-on-warnings.`,
		Example: `  asyncgen validate asyncapi.yaml
  asyncgen validate asyncapi.yaml --fail-on-warnings --format json`,
		GroupID: shared.GroupAnalysis,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	res, s, err := runPipeline(cmd, args, true)
	if err != nil && !errors.Is(err, generate.ErrValidationFailed) {
		return fail(cmd, err)
	}

	rep := newReport(args[0], res)
	rep = &report{Document: rep.Document, Files: rep.Files, Errors: rep.Errors, Warnings: rep.Warnings}
	out := cmd.OutOrStdout()
	switch {
	case s.format != config.OutputFormatText:
		if werr := writeStructured(out, s.format, rep); werr != nil {
			return werr
		}
	case len(rep.Errors) == 0 && len(rep.Warnings) == 0:
		fmt.Fprintf(out, "%s %s is valid (%s)\n", green("OK"), rep.Document, plural(len(rep.Files), "file"))
	default:
		printFindings(out, res.Validation)
		fmt.Fprintf(out, "%s, %s\n", plural(len(rep.Errors), "error"), plural(len(rep.Warnings), "warning"))
	}

	if err != nil {
		return fail(cmd, err)
	}
	return nil
}
