package schemagraph

import (
	"fmt"
	"sort"
	"strings"
)

// RenderASCII renders the emission waves and recursive types.
// Uses portable ASCII characters only.
func (g *Graph) RenderASCII() string {
	if len(g.waves) == 0 {
		return "No waves computed. Run ComputeWaves() first."
	}

	var sb strings.Builder
	sb.WriteString("Schema Emission Waves\n")
	sb.WriteString("=====================\n\n")

	for i, wave := range g.waves {
		sb.WriteString(renderWaveHeader(wave.Number, wave.Size()))
		sb.WriteString(g.renderWaveSchemas(wave.Schemas))
		if i < len(g.waves)-1 {
			sb.WriteString("    |\n    v\n")
		}
	}

	if rec := g.Recursive(); len(rec) > 0 {
		sb.WriteString("\nRecursive types:\n")
		for _, c := range rec {
			fmt.Fprintf(&sb, "  - %s\n", strings.Join(c, " <-> "))
		}
	}

	stats := g.Stats()
	sb.WriteString("\nSummary:\n")
	fmt.Fprintf(&sb, "  Total Waves: %d\n", stats.TotalWaves)
	fmt.Fprintf(&sb, "  Total Schemas: %d\n", stats.TotalSchemas)
	fmt.Fprintf(&sb, "  Recursive Sets: %d\n", stats.RecursiveSets)
	return sb.String()
}

func renderWaveHeader(num, count int) string {
	plural := "s"
	if count == 1 {
		plural = ""
	}
	return fmt.Sprintf("Wave %d (%d schema%s)\n", num, count, plural)
}

func (g *Graph) renderWaveSchemas(names []string) string {
	if len(names) == 0 {
		return "  (empty)\n"
	}
	var sb strings.Builder
	for i, name := range names {
		prefix := "  |-"
		if i == len(names)-1 {
			prefix = "  +-"
		}
		fmt.Fprintf(&sb, "%s [%s]", prefix, name)
		if deps := g.nodes[name].Dependencies; len(deps) > 0 {
			sorted := append([]string(nil), deps...)
			sort.Strings(sorted)
			fmt.Fprintf(&sb, " -> %s", strings.Join(sorted, ", "))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderCompact renders waves on one line.
// Format: Wave 1: [Address] -> Wave 2: [Customer, Order]
func (g *Graph) RenderCompact() string {
	if len(g.waves) == 0 {
		return "No waves computed"
	}
	parts := make([]string, len(g.waves))
	for i, w := range g.waves {
		parts[i] = fmt.Sprintf("Wave %d: [%s]", w.Number, strings.Join(w.Schemas, ", "))
	}
	return strings.Join(parts, " -> ")
}
