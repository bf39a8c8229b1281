package generate

import (
	"fmt"
	"slices"

	"github.com/eventforge/asyncgen/internal/asyncapi"
	"github.com/eventforge/asyncgen/internal/naming"
	"github.com/eventforge/asyncgen/internal/schemagraph"
	"github.com/eventforge/asyncgen/internal/typemap"
)

// TypeKind is the shape of a named type.
type TypeKind string

const (
	KindObject TypeKind = "object"
	KindEnum   TypeKind = "enum"
	KindUnion  TypeKind = "union"
	KindAlias  TypeKind = "alias"
)

// Field is one property of an object type.
type Field struct {
	Name     string          `json:"name"`
	Type     typemap.TypeRef `json:"type"`
	Required bool            `json:"required"`
	Nullable bool            `json:"nullable"`
	// Default is the rendered default literal; empty when the field gets no
	// initializer.
	Default     string `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
}

// NamedType is the emitter-facing view of one named schema.
type NamedType struct {
	Name string   `json:"name"`
	Kind TypeKind `json:"kind"`
	// Wave is the emission wave; dependencies are in lower waves.
	Wave      int  `json:"wave"`
	Recursive bool `json:"recursive"`

	Fields []Field `json:"fields,omitempty"`
	// Enum holds the enum values rendered as member names.
	Enum []string `json:"enum,omitempty"`
	// Members holds the type names of union members.
	Members []string `json:"members,omitempty"`
	// Alias is the underlying type of an alias.
	Alias *typemap.TypeRef `json:"alias,omitempty"`
	// Discriminator names the property selecting a union member.
	Discriminator string `json:"discriminator,omitempty"`
}

// MapTypes maps every schema of m, in emission order: by wave, then by
// name. An object with properties that was not promoted aborts the run with
// typemap.ErrUnpromotedObject.
func MapTypes(e *typemap.Engine, m *asyncapi.SchemaMap, g *schemagraph.Graph) ([]NamedType, error) {
	out := make([]NamedType, 0, m.Len())
	for name, s := range m.All() {
		t, err := mapNamed(e, name, s)
		if err != nil {
			return nil, fmt.Errorf("mapping schema %s: %w", name, err)
		}
		if n := g.Node(name); n != nil {
			t.Recursive = n.Recursive
		}
		t.Wave = g.WaveForSchema(name)
		out = append(out, t)
	}
	slices.SortStableFunc(out, func(a, b NamedType) int {
		if a.Wave != b.Wave {
			return a.Wave - b.Wave
		}
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return out, nil
}

func mapNamed(e *typemap.Engine, name string, s *asyncapi.Schema) (NamedType, error) {
	t := NamedType{Name: name}
	switch {
	case s.IsUnion():
		t.Kind = KindUnion
		t.Discriminator = s.Discriminator
		for _, n := range slices.Concat(s.OneOf, s.AnyOf) {
			ref, err := e.Map(typemap.Context{Property: name}, n)
			if err != nil {
				return t, err
			}
			t.Members = append(t.Members, ref.Name)
		}
	case s.IsStringEnum():
		t.Kind = KindEnum
		for _, v := range s.Enum {
			t.Enum = append(t.Enum, naming.EnumMember(v))
		}
	case s.HasProperties():
		t.Kind = KindObject
		for key, n := range s.Properties.All() {
			f, err := mapField(e, s, key, n)
			if err != nil {
				return t, err
			}
			t.Fields = append(t.Fields, f)
		}
	default:
		t.Kind = KindAlias
		ref, err := e.MapSchema(typemap.Context{Property: name}, s)
		if err != nil {
			return t, err
		}
		t.Alias = &ref
	}
	return t, nil
}

func mapField(e *typemap.Engine, owner *asyncapi.Schema, key string, n asyncapi.SchemaNode) (Field, error) {
	ref, err := e.Map(typemap.Context{Property: key}, n)
	if err != nil {
		return Field{}, fmt.Errorf("property %s: %w", key, err)
	}
	ps := asyncapi.DerefSchema(n)
	f := Field{
		Name:     key,
		Type:     ref,
		Required: owner.IsRequired(key),
	}
	f.Nullable = ps.IsNullable() || !f.Required
	if ps != nil {
		f.Description = ps.Description
	}
	lit, ok, err := e.DefaultValue(ps, ref, f.Nullable)
	if err != nil {
		return Field{}, fmt.Errorf("property %s: %w", key, err)
	}
	if ok {
		f.Default = lit
	}
	return f, nil
}
