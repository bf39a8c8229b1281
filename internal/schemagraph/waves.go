package schemagraph

import "sort"

// Wave is a group of schemas whose dependencies are all emitted in earlier
// waves. Members of one reference cycle always share a wave.
type Wave struct {
	Number  int      // Wave number (1, 2, 3...)
	Schemas []string // Schema names, sorted
}

// Size returns the number of schemas in the wave.
func (w Wave) Size() int {
	return len(w.Schemas)
}

// ComputeWaves groups schemas by the longest dependency chain below them.
// Cycles are collapsed into a single unit first, so every schema gets a
// wave even in a recursive graph. The waves are stored in the graph.
func (g *Graph) ComputeWaves() []Wave {
	if len(g.nodes) == 0 {
		g.waves = []Wave{}
		return g.waves
	}

	comps := g.components()
	compOf := make(map[string]int, len(g.nodes))
	for i, c := range comps {
		for _, name := range c {
			compOf[name] = i
		}
	}

	// Kahn's algorithm over the condensation: a component is ready once
	// every component it references has been placed.
	pending := make([]int, len(comps))
	dependents := make([]map[int]bool, len(comps))
	for i := range comps {
		dependents[i] = make(map[int]bool)
	}
	for i, c := range comps {
		deps := make(map[int]bool)
		for _, name := range c {
			for _, d := range g.nodes[name].Dependencies {
				if j := compOf[d]; j != i && !deps[j] {
					deps[j] = true
					dependents[j][i] = true
				}
			}
		}
		pending[i] = len(deps)
	}

	depth := make([]int, len(comps))
	queue := make([]int, 0, len(comps))
	for i := range comps {
		if pending[i] == 0 {
			queue = append(queue, i)
		}
	}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		for j := range dependents[i] {
			depth[j] = max(depth[j], depth[i]+1)
			pending[j]--
			if pending[j] == 0 {
				queue = append(queue, j)
			}
		}
	}

	groups := make(map[int][]string)
	for i, c := range comps {
		for _, name := range c {
			g.nodes[name].Depth = depth[i]
			groups[depth[i]] = append(groups[depth[i]], name)
		}
	}

	depths := make([]int, 0, len(groups))
	for d := range groups {
		depths = append(depths, d)
	}
	sort.Ints(depths)

	g.waves = make([]Wave, 0, len(depths))
	for i, d := range depths {
		names := groups[d]
		sort.Strings(names)
		g.waves = append(g.waves, Wave{Number: i + 1, Schemas: names})
	}
	return g.waves
}

// WaveForSchema returns the wave number (1-indexed) for a schema.
// Returns 0 if the schema is not found or waves were not computed.
func (g *Graph) WaveForSchema(name string) int {
	for _, w := range g.waves {
		for _, s := range w.Schemas {
			if s == name {
				return w.Number
			}
		}
	}
	return 0
}

// WaveStats summarizes computed waves.
type WaveStats struct {
	TotalWaves    int // Number of waves
	TotalSchemas  int // Total schemas across all waves
	MaxWaveSize   int // Size of the largest wave
	RecursiveSets int // Number of reference cycles
}

// Stats returns statistics about the computed waves.
func (g *Graph) Stats() WaveStats {
	stats := WaveStats{TotalWaves: len(g.waves), RecursiveSets: len(g.Recursive())}
	for _, w := range g.waves {
		stats.TotalSchemas += w.Size()
		stats.MaxWaveSize = max(stats.MaxWaveSize, w.Size())
	}
	return stats
}
