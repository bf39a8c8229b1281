package schemagraph

import (
	"strings"
	"testing"

	"github.com/eventforge/asyncgen/internal/asyncapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func object() *asyncapi.Schema {
	return &asyncapi.Schema{Type: asyncapi.Single(asyncapi.TypeObject)}
}

func ref(name string, s *asyncapi.Schema) asyncapi.SchemaNode {
	return asyncapi.NewSchemaRef("#/components/schemas/"+name, s)
}

// shop builds Order -> Customer -> Address, Order -> Line (array items),
// and the recursive pair Category <-> Tag plus self-referencing Node.
func shop() *asyncapi.SchemaMap {
	address, customer, line, order := object(), object(), object(), object()
	category, tag, node := object(), object(), object()

	customer.SetProperty("address", ref("Address", address))
	order.SetProperty("customer", ref("Customer", customer))
	order.SetProperty("lines", asyncapi.NewInlineSchema(&asyncapi.Schema{
		Type:  asyncapi.Single(asyncapi.TypeArray),
		Items: ref("Line", line),
	}))
	order.SetProperty("billing", ref("Customer", customer))
	category.SetProperty("tags", ref("Tag", tag))
	tag.SetProperty("category", ref("Category", category))
	node.SetProperty("next", ref("Node", node))

	m := asyncapi.NewSchemaMap()
	m.Set("Order", order)
	m.Set("Customer", customer)
	m.Set("Address", address)
	m.Set("Line", line)
	m.Set("Category", category)
	m.Set("Tag", tag)
	m.Set("Node", node)
	return m
}

func TestBuild(t *testing.T) {
	t.Parallel()

	g := Build(shop())

	assert.Equal(t, 7, g.Size())
	assert.Equal(t, []string{"Order", "Customer", "Address", "Line", "Category", "Tag", "Node"}, g.Names())

	tests := map[string]struct {
		deps       []string
		dependents []string
		recursive  bool
	}{
		"Order":    {deps: []string{"Customer", "Line"}},
		"Customer": {deps: []string{"Address"}, dependents: []string{"Order"}},
		"Address":  {dependents: []string{"Customer"}},
		"Category": {deps: []string{"Tag"}, dependents: []string{"Tag"}, recursive: true},
		"Node":     {deps: []string{"Node"}, dependents: []string{"Node"}, recursive: true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			n := g.Node(name)
			require.NotNil(t, n)
			assert.ElementsMatch(t, tt.deps, n.Dependencies)
			assert.ElementsMatch(t, tt.dependents, n.Dependents)
			assert.Equal(t, tt.recursive, n.Recursive)
		})
	}
	assert.Nil(t, g.Node("Missing"))
}

func TestRecursive(t *testing.T) {
	t.Parallel()

	g := Build(shop())
	assert.Equal(t, [][]string{{"Category", "Tag"}, {"Node"}}, g.Recursive())
}

func TestComputeWaves(t *testing.T) {
	t.Parallel()

	g := Build(shop())
	waves := g.ComputeWaves()

	require.Len(t, waves, 3)
	assert.Equal(t, []string{"Address", "Category", "Line", "Node", "Tag"}, waves[0].Schemas)
	assert.Equal(t, []string{"Customer"}, waves[1].Schemas)
	assert.Equal(t, []string{"Order"}, waves[2].Schemas)

	assert.Equal(t, 1, g.WaveForSchema("Tag"))
	assert.Equal(t, 3, g.WaveForSchema("Order"))
	assert.Equal(t, 0, g.WaveForSchema("Missing"))
	assert.Equal(t, 2, g.Node("Order").Depth)

	stats := g.Stats()
	assert.Equal(t, WaveStats{TotalWaves: 3, TotalSchemas: 7, MaxWaveSize: 5, RecursiveSets: 2}, stats)
}

func TestComputeWavesCycleDependents(t *testing.T) {
	t.Parallel()

	a, b, user := object(), object(), object()
	a.SetProperty("b", ref("B", b))
	b.SetProperty("a", ref("A", a))
	user.SetProperty("a", ref("A", a))
	m := asyncapi.NewSchemaMap()
	m.Set("User", user)
	m.Set("A", a)
	m.Set("B", b)

	waves := Build(m).ComputeWaves()
	require.Len(t, waves, 2)
	assert.Equal(t, []string{"A", "B"}, waves[0].Schemas)
	assert.Equal(t, []string{"User"}, waves[1].Schemas)
}

func TestComputeWavesEmpty(t *testing.T) {
	t.Parallel()

	g := Build(asyncapi.NewSchemaMap())
	assert.Empty(t, g.ComputeWaves())
	assert.Equal(t, "No waves computed", g.RenderCompact())
}

func TestDependencyChain(t *testing.T) {
	t.Parallel()

	g := Build(shop())

	chain, err := g.DependencyChain("Order", "Address")
	require.NoError(t, err)
	assert.Equal(t, []string{"Order", "Customer", "Address"}, chain)

	_, err = g.DependencyChain("Address", "Order")
	assert.ErrorContains(t, err, "does not reference")

	_, err = g.DependencyChain("Missing", "Order")
	assert.ErrorContains(t, err, "not found")
}

func TestRender(t *testing.T) {
	t.Parallel()

	g := Build(shop())
	assert.Contains(t, g.RenderASCII(), "No waves computed")

	g.ComputeWaves()
	out := g.RenderASCII()
	assert.True(t, strings.HasPrefix(out, "Schema Emission Waves\n"))
	assert.Contains(t, out, "Wave 2 (1 schema)")
	assert.Contains(t, out, "+- [Order] -> Customer, Line")
	assert.Contains(t, out, "  - Category <-> Tag")
	assert.Contains(t, out, "Recursive Sets: 2")

	assert.Equal(t,
		"Wave 1: [Address, Category, Line, Node, Tag] -> Wave 2: [Customer] -> Wave 3: [Order]",
		g.RenderCompact())
}
