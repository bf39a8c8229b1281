package asyncapi

import (
	"fmt"
	"strings"
)

// Type names accepted in a schema's `type` facet.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
	TypeNull    = "null"
)

var knownTypes = map[string]bool{
	TypeString: true, TypeNumber: true, TypeInteger: true, TypeBoolean: true,
	TypeArray: true, TypeObject: true, TypeNull: true,
}

// TypeSet is the decoded `type` facet: a single type name, or a list holding
// "null" at most once and at most one other type.
type TypeSet struct {
	Name string // non-null type, empty when absent
	Null bool   // "null" was listed
	List bool   // declared as a list
}

// ParseTypeSet validates a `type` declaration.
func ParseTypeSet(names []string, list bool) (TypeSet, error) {
	ts := TypeSet{List: list}
	for _, n := range names {
		if !knownTypes[n] {
			return TypeSet{}, fmt.Errorf("unknown type %q", n)
		}
		if n == TypeNull {
			if ts.Null {
				return TypeSet{}, fmt.Errorf("type %q listed more than once", n)
			}
			ts.Null = true
			continue
		}
		if ts.Name != "" {
			return TypeSet{}, fmt.Errorf("at most one non-null type is supported, got %q and %q", ts.Name, n)
		}
		ts.Name = n
	}
	return ts, nil
}

// Single returns a TypeSet holding one type name.
func Single(name string) TypeSet {
	if name == TypeNull {
		return TypeSet{Null: true}
	}
	return TypeSet{Name: name}
}

// IsZero reports whether no type was declared.
func (t TypeSet) IsZero() bool { return t.Name == "" && !t.Null }

// Is reports whether the non-null type equals name.
func (t TypeSet) Is(name string) bool { return t.Name == name }

func (t TypeSet) String() string {
	switch {
	case t.IsZero():
		return ""
	case t.Name == "":
		return TypeNull
	case t.Null:
		return "[" + t.Name + ", null]"
	default:
		return t.Name
	}
}

// Discriminator names the property distinguishing union members.
type Discriminator = string

// Dependency is one entry of `dependencies`: either a schema or a list of
// property names.
type Dependency struct {
	Schema     SchemaNode
	Properties []string
}

// Schema holds the JSON-Schema-like facets supported by the core.
// Pointer fields distinguish "absent" from a zero value.
type Schema struct {
	Type   TypeSet
	Format string

	Title         string
	Description   string
	Discriminator Discriminator
	Deprecated    bool

	Default  any
	Const    any
	Enum     []any
	Examples []any

	Nullable  *bool
	ReadOnly  *bool
	WriteOnly *bool

	MultipleOf       *float64
	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum *float64
	ExclusiveMaximum *float64

	MinLength *int
	MaxLength *int
	Pattern   string

	MinItems    *int
	MaxItems    *int
	UniqueItems bool

	MinProperties *int
	MaxProperties *int
	Required      []string

	AllOf []SchemaNode
	AnyOf []SchemaNode
	OneOf []SchemaNode
	Not   SchemaNode

	If   SchemaNode
	Then SchemaNode
	Else SchemaNode

	Properties           *OrderedMap[SchemaNode]
	PatternProperties    *OrderedMap[SchemaNode]
	AdditionalProperties SchemaNode
	PropertyNames        SchemaNode
	Items                SchemaNode
	AdditionalItems      SchemaNode
	Definitions          *OrderedMap[SchemaNode]
	Dependencies         *OrderedMap[Dependency]

	Extensions map[string]any
}

// HasProperties reports whether the schema declares at least one property.
func (s *Schema) HasProperties() bool {
	return s != nil && s.Properties.Len() > 0
}

// IsStringEnum reports whether the schema is a string with enum values.
func (s *Schema) IsStringEnum() bool {
	return s != nil && s.Type.Is(TypeString) && len(s.Enum) > 0
}

// IsUnion reports whether the schema declares oneOf or anyOf members.
func (s *Schema) IsUnion() bool {
	return s != nil && (len(s.OneOf) > 0 || len(s.AnyOf) > 0)
}

// HasConditional reports whether any of if/then/else is set.
func (s *Schema) HasConditional() bool {
	return s != nil && (s.If != nil || s.Then != nil || s.Else != nil)
}

// IsNullable reports whether null is admitted by type list or `nullable`.
func (s *Schema) IsNullable() bool {
	if s == nil {
		return false
	}
	return s.Type.Null || (s.Nullable != nil && *s.Nullable)
}

// Property returns the node declared for a property.
func (s *Schema) Property(name string) (SchemaNode, bool) {
	if s == nil {
		return nil, false
	}
	return s.Properties.Get(name)
}

// SetProperty declares or replaces a property.
func (s *Schema) SetProperty(name string, n SchemaNode) {
	if s.Properties == nil {
		s.Properties = NewOrderedMap[SchemaNode]()
	}
	s.Properties.Set(name, n)
}

// IsRequired reports whether name is listed in `required`.
func (s *Schema) IsRequired(name string) bool {
	if s == nil {
		return false
	}
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// Children calls fn for every directly nested schema node, in a fixed order.
// Walkers across the code base use it so that no facet is forgotten.
func (s *Schema) Children(fn func(facet string, n SchemaNode)) {
	if s == nil {
		return
	}
	visit := func(facet string, n SchemaNode) {
		if n != nil {
			fn(facet, n)
		}
	}
	for k, n := range s.Properties.All() {
		visit("properties/"+k, n)
	}
	for k, n := range s.PatternProperties.All() {
		visit("patternProperties/"+k, n)
	}
	visit("additionalProperties", s.AdditionalProperties)
	visit("propertyNames", s.PropertyNames)
	visit("items", s.Items)
	visit("additionalItems", s.AdditionalItems)
	for i, n := range s.AllOf {
		visit(fmt.Sprintf("allOf/%d", i), n)
	}
	for i, n := range s.AnyOf {
		visit(fmt.Sprintf("anyOf/%d", i), n)
	}
	for i, n := range s.OneOf {
		visit(fmt.Sprintf("oneOf/%d", i), n)
	}
	visit("not", s.Not)
	visit("if", s.If)
	visit("then", s.Then)
	visit("else", s.Else)
	for k, n := range s.Definitions.All() {
		visit("definitions/"+k, n)
	}
	for k, d := range s.Dependencies.All() {
		visit("dependencies/"+k, d.Schema)
	}
}

// Clone returns a copy whose maps and slices can be modified without
// touching s. Nested nodes are shared.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	c := *s
	c.Enum = cloneSlice(s.Enum)
	c.Examples = cloneSlice(s.Examples)
	c.Required = cloneSlice(s.Required)
	c.AllOf = cloneSlice(s.AllOf)
	c.AnyOf = cloneSlice(s.AnyOf)
	c.OneOf = cloneSlice(s.OneOf)
	c.Properties = s.Properties.Clone()
	c.PatternProperties = s.PatternProperties.Clone()
	c.Definitions = s.Definitions.Clone()
	c.Dependencies = s.Dependencies.Clone()
	if s.Extensions != nil {
		c.Extensions = make(map[string]any, len(s.Extensions))
		for k, v := range s.Extensions {
			c.Extensions[k] = v
		}
	}
	return &c
}

func cloneSlice[E any](in []E) []E {
	if in == nil {
		return nil
	}
	out := make([]E, len(in))
	copy(out, in)
	return out
}

// RefName returns the last segment of a reference pointer, unescaped.
// For whole-file pointers the file base name without extension is used.
func RefName(pointer string) string {
	file, frag, _ := strings.Cut(pointer, "#")
	if frag != "" && frag != "/" {
		seg := frag[strings.LastIndex(frag, "/")+1:]
		return UnescapeToken(seg)
	}
	base := file[strings.LastIndex(file, "/")+1:]
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}
