// Package schemagraph builds the reference graph between named schemas,
// detects recursive types and groups schemas into emission waves with
// dependencies first.
package schemagraph

import (
	"fmt"
	"sort"

	"github.com/eventforge/asyncgen/internal/asyncapi"
	"github.com/eventforge/asyncgen/internal/naming"
)

// SchemaNode is one named schema in the graph.
type SchemaNode struct {
	Name         string   // Schema name in the named-schema map
	Dependencies []string // Names of schemas this one references
	Dependents   []string // Names of schemas referencing this one
	Depth        int      // Longest dependency chain below this node (determines wave)
	Recursive    bool     // Part of a reference cycle, including a self loop
}

// Graph is the directed reference graph of a named-schema map. Edges point
// from a schema to the schemas it references. Unlike a task graph it may be
// cyclic: recursive types are legal.
type Graph struct {
	nodes map[string]*SchemaNode
	order []string // Names in map insertion order
	waves []Wave
}

// Build constructs the graph of m. References to schemas that are not in m
// are ignored; discovery guarantees there are none after promotion.
func Build(m *asyncapi.SchemaMap) *Graph {
	g := &Graph{nodes: make(map[string]*SchemaNode, m.Len())}
	byModel := make(map[*asyncapi.Schema]string, m.Len())
	for name, s := range m.All() {
		g.nodes[name] = &SchemaNode{Name: name}
		g.order = append(g.order, name)
		byModel[s] = name
	}

	for name, s := range m.All() {
		node := g.nodes[name]
		seen := make(map[string]bool)
		references(s, func(r *asyncapi.Reference[asyncapi.Schema]) {
			dep, ok := byModel[r.Model]
			if !ok {
				dep = naming.FromPointer(r.Pointer)
			}
			if _, exists := g.nodes[dep]; !exists || seen[dep] {
				return
			}
			seen[dep] = true
			node.Dependencies = append(node.Dependencies, dep)
			g.nodes[dep].Dependents = append(g.nodes[dep].Dependents, name)
		})
	}
	g.markRecursive()
	return g
}

// references calls fn for every reference reachable from s through inline
// nodes only.
func references(s *asyncapi.Schema, fn func(*asyncapi.Reference[asyncapi.Schema])) {
	visited := make(map[*asyncapi.Schema]bool)
	var walk func(*asyncapi.Schema)
	walk = func(s *asyncapi.Schema) {
		if s == nil || visited[s] {
			return
		}
		visited[s] = true
		s.Children(func(_ string, n asyncapi.SchemaNode) {
			switch v := n.(type) {
			case *asyncapi.Reference[asyncapi.Schema]:
				fn(v)
			case *asyncapi.Inline[asyncapi.Schema]:
				walk(v.Value)
			case *asyncapi.MultiFormatSchema:
				if r, ok := v.Schema.(*asyncapi.Reference[asyncapi.Schema]); ok {
					fn(r)
				} else {
					walk(asyncapi.DerefSchema(v))
				}
			case asyncapi.BoolSchema, nil:
			}
		})
	}
	walk(s)
}

// Node returns a schema node by name, or nil if not found.
func (g *Graph) Node(name string) *SchemaNode {
	return g.nodes[name]
}

// Names returns schema names in map order.
func (g *Graph) Names() []string {
	return g.order
}

// Size returns the number of schemas in the graph.
func (g *Graph) Size() int {
	return len(g.nodes)
}

// Waves returns the waves computed by ComputeWaves.
func (g *Graph) Waves() []Wave {
	return g.waves
}

// Recursive returns the strongly connected components that form reference
// cycles, each sorted by name, ordered by their first member.
func (g *Graph) Recursive() [][]string {
	var out [][]string
	for _, c := range g.components() {
		if len(c) > 1 || g.selfLoop(c[0]) {
			sort.Strings(c)
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

func (g *Graph) selfLoop(name string) bool {
	for _, d := range g.nodes[name].Dependencies {
		if d == name {
			return true
		}
	}
	return false
}

func (g *Graph) markRecursive() {
	for _, c := range g.Recursive() {
		for _, name := range c {
			g.nodes[name].Recursive = true
		}
	}
}

// components returns the strongly connected components of the graph using
// Tarjan's algorithm. Components are emitted dependencies first.
func (g *Graph) components() [][]string {
	var (
		index   = 0
		indices = make(map[string]int, len(g.nodes))
		lowlink = make(map[string]int, len(g.nodes))
		onStack = make(map[string]bool, len(g.nodes))
		stack   []string
		out     [][]string
	)

	var connect func(string)
	connect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.nodes[v].Dependencies {
			if _, visited := indices[w]; !visited {
				connect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var c []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				c = append(c, w)
				if w == v {
					break
				}
			}
			out = append(out, c)
		}
	}

	for _, name := range g.order {
		if _, visited := indices[name]; !visited {
			connect(name)
		}
	}
	return out
}

// DependencyChain returns a path of schema names from one schema to another
// following references, or an error when to is not reachable from from.
func (g *Graph) DependencyChain(from, to string) ([]string, error) {
	if g.nodes[from] == nil {
		return nil, fmt.Errorf("finding chain: schema %s not found", from)
	}
	if g.nodes[to] == nil {
		return nil, fmt.Errorf("finding chain: schema %s not found", to)
	}

	prev := map[string]string{from: ""}
	queue := []string{from}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if id == to {
			var path []string
			for at := to; at != ""; at = prev[at] {
				path = append([]string{at}, path...)
				if at == from {
					break
				}
			}
			return path, nil
		}
		for _, dep := range g.nodes[id].Dependencies {
			if _, seen := prev[dep]; !seen {
				prev[dep] = id
				queue = append(queue, dep)
			}
		}
	}
	return nil, fmt.Errorf("finding chain: %s does not reference %s", from, to)
}
