package normalize

import "github.com/eventforge/asyncgen/internal/asyncapi"

// ConditionalNormalizer flattens if/then/else.
type ConditionalNormalizer struct{}

// Normalize merges the properties of the then and else branches into every
// schema that declares a conditional, then clears if/then/else. A property
// whose type differs between the branches defining it becomes untyped; any
// other property keeps its first definition in base, then, else order.
func (ConditionalNormalizer) Normalize(m *asyncapi.SchemaMap) *asyncapi.SchemaMap {
	seen := make(map[*asyncapi.Schema]bool)
	for _, s := range m.All() {
		flatten(s, seen)
	}
	return m
}

func flatten(s *asyncapi.Schema, seen map[*asyncapi.Schema]bool) {
	if s == nil || seen[s] {
		return
	}
	seen[s] = true
	s.Children(func(_ string, n asyncapi.SchemaNode) {
		if in, ok := n.(*asyncapi.Inline[asyncapi.Schema]); ok {
			flatten(in.Value, seen)
		}
	})
	if !s.HasConditional() {
		return
	}

	type entry struct {
		node        asyncapi.SchemaNode
		typ         asyncapi.TypeSet
		description string
		ambiguous   bool
	}
	var (
		order   []string
		entries = make(map[string]*entry)
	)
	sources := []*asyncapi.Schema{s, asyncapi.DerefSchema(s.Then), asyncapi.DerefSchema(s.Else)}
	for _, src := range sources {
		if src == nil {
			continue
		}
		for key, n := range src.Properties.All() {
			ps := asyncapi.DerefSchema(n)
			var typ asyncapi.TypeSet
			var desc string
			if ps != nil {
				typ, desc = ps.Type, ps.Description
			}
			e, ok := entries[key]
			if !ok {
				entries[key] = &entry{node: n, typ: typ, description: desc}
				order = append(order, key)
				continue
			}
			if e.typ != typ {
				e.ambiguous = true
			}
			if e.description == "" {
				e.description = desc
			}
		}
	}

	props := asyncapi.NewOrderedMap[asyncapi.SchemaNode]()
	for _, key := range order {
		e := entries[key]
		if e.ambiguous {
			props.Set(key, asyncapi.NewInlineSchema(&asyncapi.Schema{Description: e.description}))
			continue
		}
		props.Set(key, e.node)
	}
	if props.Len() > 0 {
		s.Properties = props
	}
	s.If, s.Then, s.Else = nil, nil, nil
}
