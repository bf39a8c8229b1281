package asyncapi

import "reflect"

// Equal reports whether two schemas declare the same facets. Node IDs are
// ignored; references are equal when they share a target or spell the same
// location.
func Equal(a, b *Schema) bool {
	return equalSchema(a, b, make(map[[2]*Schema]bool))
}

func equalSchema(a, b *Schema, seen map[[2]*Schema]bool) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	pair := [2]*Schema{a, b}
	if seen[pair] {
		return true
	}
	seen[pair] = true

	if !reflect.DeepEqual(a.leaves(), b.leaves()) {
		return false
	}
	nodes := [][2]SchemaNode{
		{a.Not, b.Not}, {a.If, b.If}, {a.Then, b.Then}, {a.Else, b.Else},
		{a.AdditionalProperties, b.AdditionalProperties},
		{a.PropertyNames, b.PropertyNames},
		{a.Items, b.Items}, {a.AdditionalItems, b.AdditionalItems},
	}
	for _, n := range nodes {
		if !equalNode(n[0], n[1], seen) {
			return false
		}
	}
	for _, l := range [][2][]SchemaNode{{a.AllOf, b.AllOf}, {a.AnyOf, b.AnyOf}, {a.OneOf, b.OneOf}} {
		if len(l[0]) != len(l[1]) {
			return false
		}
		for i := range l[0] {
			if !equalNode(l[0][i], l[1][i], seen) {
				return false
			}
		}
	}
	if !equalNodeMap(a.Properties, b.Properties, seen) ||
		!equalNodeMap(a.PatternProperties, b.PatternProperties, seen) ||
		!equalNodeMap(a.Definitions, b.Definitions, seen) {
		return false
	}
	if a.Dependencies.Len() != b.Dependencies.Len() {
		return false
	}
	for k, da := range a.Dependencies.All() {
		db, ok := b.Dependencies.Get(k)
		if !ok || !reflect.DeepEqual(da.Properties, db.Properties) || !equalNode(da.Schema, db.Schema, seen) {
			return false
		}
	}
	return true
}

// leaves returns a copy of s without its nested schema facets.
func (s *Schema) leaves() Schema {
	c := *s
	c.AllOf, c.AnyOf, c.OneOf = nil, nil, nil
	c.Not, c.If, c.Then, c.Else = nil, nil, nil, nil
	c.AdditionalProperties, c.PropertyNames, c.Items, c.AdditionalItems = nil, nil, nil, nil
	c.Properties, c.PatternProperties, c.Definitions, c.Dependencies = nil, nil, nil, nil
	return c
}

func equalNodeMap(a, b *OrderedMap[SchemaNode], seen map[[2]*Schema]bool) bool {
	if a.Len() != b.Len() {
		return false
	}
	ak, bk := a.Keys(), b.Keys()
	for i := range ak {
		if ak[i] != bk[i] {
			return false
		}
		na, _ := a.Get(ak[i])
		nb, _ := b.Get(bk[i])
		if !equalNode(na, nb, seen) {
			return false
		}
	}
	return true
}

func equalNode(a, b SchemaNode, seen map[[2]*Schema]bool) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case BoolSchema:
		y, ok := b.(BoolSchema)
		return ok && x == y
	case *Inline[Schema]:
		y, ok := b.(*Inline[Schema])
		return ok && equalSchema(x.Value, y.Value, seen)
	case *Reference[Schema]:
		y, ok := b.(*Reference[Schema])
		if !ok {
			return false
		}
		if x.Model != nil && x.Model == y.Model {
			return true
		}
		return x.Location == y.Location
	case *MultiFormatSchema:
		y, ok := b.(*MultiFormatSchema)
		return ok && x.SchemaFormat == y.SchemaFormat &&
			reflect.DeepEqual(x.Raw, y.Raw) && equalNode(x.Schema, y.Schema, seen)
	default:
		return false
	}
}
