package cli

import (
	"github.com/eventforge/asyncgen/internal/cli/shared"
	"github.com/eventforge/asyncgen/internal/config"
	"github.com/spf13/cobra"
)

func newTypesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types <document.yaml>",
		Short: "Print the mapped type of every named schema",
		Long: `Print every named schema in emission order with its mapped kind: object
types with the target type, requiredness and default of each field, enums
with their member names, unions with their members and aliases with the
underlying type. Target type names can be overridden under "types" in the
config file.`,
		Example: `  asyncgen types asyncapi.yaml
  asyncgen types asyncapi.yaml --only OrderPayload
  ASYNCGEN_TYPES_DECIMAL=float64 asyncgen types asyncapi.yaml`,
		GroupID: shared.GroupAnalysis,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runTypes,
	}
	cmd.Flags().StringSlice("only", nil, "Show only the named types")
	return cmd
}

func runTypes(cmd *cobra.Command, args []string) error {
	res, s, err := runPipeline(cmd, args, false)
	if err != nil {
		return failWithFindings(cmd, res, err)
	}

	types := res.Types
	if only, _ := cmd.Flags().GetStringSlice("only"); len(only) > 0 {
		keep := make(map[string]bool, len(only))
		for _, name := range only {
			keep[name] = true
		}
		types = types[:0:0]
		for _, t := range res.Types {
			if keep[t.Name] {
				types = append(types, t)
			}
		}
	}

	if s.format != config.OutputFormatText {
		return writeStructured(cmd.OutOrStdout(), s.format, &report{Document: args[0], Types: types})
	}
	printTypes(cmd.OutOrStdout(), types)
	return nil
}
