package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/eventforge/asyncgen/internal/cli/shared"
	"github.com/eventforge/asyncgen/internal/config"
	clierrors "github.com/eventforge/asyncgen/internal/errors"
	"github.com/eventforge/asyncgen/internal/schemagraph"
	"github.com/spf13/cobra"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph <document.yaml>",
		Short: "Visualize schema dependencies and emission waves",
		Long: `Display the emission waves of the named schemas: every schema depends only
on schemas of earlier waves, and the members of a recursive set share a
wave. Recursive types are listed after the waves.`,
		Example: `  asyncgen graph asyncapi.yaml
  asyncgen graph asyncapi.yaml --compact
  asyncgen graph asyncapi.yaml --chain OrderPayload:Address`,
		GroupID: shared.GroupAnalysis,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runGraph,
	}
	cmd.Flags().Bool("compact", false, "Show compact single-line output")
	cmd.Flags().Bool("stats", false, "Show only wave statistics")
	cmd.Flags().String("chain", "", "Show the reference chain between two schemas, as FROM:TO")
	return cmd
}

func runGraph(cmd *cobra.Command, args []string) error {
	compact, _ := cmd.Flags().GetBool("compact")
	stats, _ := cmd.Flags().GetBool("stats")
	chain, _ := cmd.Flags().GetString("chain")

	res, s, err := runPipeline(cmd, args, false)
	if err != nil {
		return failWithFindings(cmd, res, err)
	}
	g := res.Graph
	out := cmd.OutOrStdout()

	if chain != "" {
		from, to, ok := strings.Cut(chain, ":")
		if !ok || from == "" || to == "" {
			return fail(cmd, clierrors.NewArgumentErrorWithUsage(
				fmt.Sprintf("invalid --chain value %q", chain),
				"asyncgen graph <document.yaml> --chain FROM:TO"))
		}
		path, err := g.DependencyChain(from, to)
		if err != nil {
			return fail(cmd, clierrors.NewArgumentError(err.Error(), "Run 'asyncgen graph' to list the schema names"))
		}
		fmt.Fprintln(out, strings.Join(path, " -> "))
		return nil
	}

	if s.format != config.OutputFormatText {
		rep := newReport(args[0], res)
		return writeStructured(out, s.format, &report{Document: rep.Document, Waves: rep.Waves, Recursive: rep.Recursive})
	}
	return renderGraph(out, g, compact, stats)
}

// renderGraph renders the graph visualization based on flags.
func renderGraph(w io.Writer, g *schemagraph.Graph, compact, stats bool) error {
	if stats {
		printStats(w, g.Stats())
		return nil
	}
	if compact {
		fmt.Fprintln(w, g.RenderCompact())
		return nil
	}
	fmt.Fprint(w, g.RenderASCII())
	return nil
}

// printStats outputs wave statistics.
func printStats(w io.Writer, stats schemagraph.WaveStats) {
	fmt.Fprintln(w, "Wave Statistics:")
	fmt.Fprintf(w, "  Total Waves: %d\n", stats.TotalWaves)
	fmt.Fprintf(w, "  Total Schemas: %d\n", stats.TotalSchemas)
	fmt.Fprintf(w, "  Max Wave Size: %d\n", stats.MaxWaveSize)
	fmt.Fprintf(w, "  Recursive Sets: %d\n", stats.RecursiveSets)

	if stats.TotalWaves > 0 {
		avgSize := float64(stats.TotalSchemas) / float64(stats.TotalWaves)
		fmt.Fprintf(w, "  Avg Wave Size: %.1f\n", avgSize)
	}
}
