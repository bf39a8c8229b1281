package discovery

import (
	"slices"

	"github.com/eventforge/asyncgen/internal/asyncapi"
	"github.com/eventforge/asyncgen/internal/naming"
)

// PolymorphicAnalyzer derives child -> parents relationships from unions.
type PolymorphicAnalyzer struct{}

// Analyze records, for every named schema with oneOf or anyOf members, an
// edge from each referenced member to the schema. Inline members do not
// contribute. Parents are listed in first-discovery order.
func (PolymorphicAnalyzer) Analyze(m *asyncapi.SchemaMap) *asyncapi.PolymorphicMap {
	out := asyncapi.NewOrderedMap[[]string]()
	for name, s := range m.All() {
		for _, member := range slices.Concat(s.OneOf, s.AnyOf) {
			ref, ok := member.(*asyncapi.Reference[asyncapi.Schema])
			if !ok {
				continue
			}
			child := naming.FromPointer(ref.Pointer)
			parents, _ := out.Get(child)
			if slices.Contains(parents, name) {
				continue
			}
			out.Set(child, append(parents, name))
		}
	}
	return out
}
