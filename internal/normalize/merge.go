package normalize

import (
	"slices"

	"github.com/eventforge/asyncgen/internal/asyncapi"
)

// mergeSchemas folds over onto base and returns a new schema; neither input
// is modified. Scalars take the override when it is set. Numeric and length
// bounds intersect to the tightest value. Properties merge per key, and
// required is a union. Every other facet takes the override when it is set.
// The allOf lists of both inputs are dropped.
func mergeSchemas(base, over *asyncapi.Schema) *asyncapi.Schema {
	if base == nil {
		base = &asyncapi.Schema{}
	}
	out := base.Clone()
	out.AllOf = nil
	if over == nil {
		return out
	}

	if !over.Type.IsZero() {
		out.Type = over.Type
	}
	out.Format = pick(out.Format, over.Format)
	out.Title = pick(out.Title, over.Title)
	out.Description = pick(out.Description, over.Description)
	out.Pattern = pick(out.Pattern, over.Pattern)
	out.Discriminator = pick(out.Discriminator, over.Discriminator)
	out.Deprecated = out.Deprecated || over.Deprecated
	out.UniqueItems = out.UniqueItems || over.UniqueItems
	if over.Default != nil {
		out.Default = over.Default
	}
	if over.Const != nil {
		out.Const = over.Const
	}
	if len(over.Enum) > 0 {
		out.Enum = slices.Clone(over.Enum)
	}
	if len(over.Examples) > 0 {
		out.Examples = slices.Clone(over.Examples)
	}
	out.Nullable = pickPtr(out.Nullable, over.Nullable)
	out.ReadOnly = pickPtr(out.ReadOnly, over.ReadOnly)
	out.WriteOnly = pickPtr(out.WriteOnly, over.WriteOnly)
	out.MultipleOf = pickPtr(out.MultipleOf, over.MultipleOf)

	out.Minimum = tighter(out.Minimum, over.Minimum, maxOf[float64])
	out.Maximum = tighter(out.Maximum, over.Maximum, minOf[float64])
	out.ExclusiveMinimum = tighter(out.ExclusiveMinimum, over.ExclusiveMinimum, maxOf[float64])
	out.ExclusiveMaximum = tighter(out.ExclusiveMaximum, over.ExclusiveMaximum, minOf[float64])
	out.MinLength = tighter(out.MinLength, over.MinLength, maxOf[int])
	out.MaxLength = tighter(out.MaxLength, over.MaxLength, minOf[int])
	out.MinItems = tighter(out.MinItems, over.MinItems, maxOf[int])
	out.MaxItems = tighter(out.MaxItems, over.MaxItems, minOf[int])
	out.MinProperties = tighter(out.MinProperties, over.MinProperties, maxOf[int])
	out.MaxProperties = tighter(out.MaxProperties, over.MaxProperties, minOf[int])

	for _, r := range over.Required {
		if !slices.Contains(out.Required, r) {
			out.Required = append(out.Required, r)
		}
	}

	for key, n := range over.Properties.All() {
		prev, ok := out.Properties.Get(key)
		if ok {
			n = mergeNodes(prev, n)
		}
		out.SetProperty(key, n)
	}
	out.PatternProperties = overlay(out.PatternProperties, over.PatternProperties)
	out.Definitions = overlay(out.Definitions, over.Definitions)
	for key, dep := range over.Dependencies.All() {
		if out.Dependencies == nil {
			out.Dependencies = asyncapi.NewOrderedMap[asyncapi.Dependency]()
		}
		out.Dependencies.Set(key, dep)
	}

	out.Items = mergeNodes(out.Items, over.Items)
	out.AdditionalProperties = pickNode(out.AdditionalProperties, over.AdditionalProperties)
	out.AdditionalItems = pickNode(out.AdditionalItems, over.AdditionalItems)
	out.PropertyNames = pickNode(out.PropertyNames, over.PropertyNames)
	out.Not = pickNode(out.Not, over.Not)
	out.If = pickNode(out.If, over.If)
	out.Then = pickNode(out.Then, over.Then)
	out.Else = pickNode(out.Else, over.Else)
	if len(over.OneOf) > 0 {
		out.OneOf = slices.Clone(over.OneOf)
	}
	if len(over.AnyOf) > 0 {
		out.AnyOf = slices.Clone(over.AnyOf)
	}

	for k, v := range over.Extensions {
		if out.Extensions == nil {
			out.Extensions = make(map[string]any)
		}
		out.Extensions[k] = v
	}
	return out
}

// mergeNodes merges two inline schemas recursively; in every other case the
// override wins when set.
func mergeNodes(base, over asyncapi.SchemaNode) asyncapi.SchemaNode {
	b, bok := base.(*asyncapi.Inline[asyncapi.Schema])
	o, ook := over.(*asyncapi.Inline[asyncapi.Schema])
	if bok && ook {
		return asyncapi.NewInlineSchema(mergeSchemas(b.Value, o.Value))
	}
	return pickNode(base, over)
}

func pickNode(base, over asyncapi.SchemaNode) asyncapi.SchemaNode {
	if over != nil {
		return over
	}
	return base
}

func overlay(base, over *asyncapi.OrderedMap[asyncapi.SchemaNode]) *asyncapi.OrderedMap[asyncapi.SchemaNode] {
	if over.Len() == 0 {
		return base
	}
	if base == nil {
		base = asyncapi.NewOrderedMap[asyncapi.SchemaNode]()
	}
	for k, n := range over.All() {
		base.Set(k, n)
	}
	return base
}

func pick(base, over string) string {
	if over != "" {
		return over
	}
	return base
}

func pickPtr[T any](base, over *T) *T {
	if over != nil {
		return over
	}
	return base
}

type ordered interface {
	~int | ~float64
}

func maxOf[T ordered](a, b T) T { return max(a, b) }
func minOf[T ordered](a, b T) T { return min(a, b) }

// tighter combines two optional bounds with choose, keeping whichever side
// is set when only one is.
func tighter[T ordered](base, over *T, choose func(T, T) T) *T {
	switch {
	case base == nil:
		return over
	case over == nil:
		return base
	}
	v := choose(*base, *over)
	return &v
}
