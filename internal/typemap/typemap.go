// Package typemap maps normalized schemas to target type names through an
// ordered chain of rules, and renders default values as literals.
package typemap

import (
	"errors"
	"fmt"
	"math"

	"github.com/eventforge/asyncgen/internal/asyncapi"
	"github.com/eventforge/asyncgen/internal/naming"
)

var (
	// ErrUnpromotedObject means an object with properties reached the
	// engine inline. Promotion should have replaced it with a reference.
	ErrUnpromotedObject = errors.New("object schema with properties was not promoted")

	// ErrNoMapType means an object closed with additionalProperties: false
	// cannot be represented as an open map.
	ErrNoMapType = errors.New("schema has no map type")
)

// Kind classifies a TypeRef.
type Kind int

const (
	KindAny Kind = iota
	KindString
	KindInteger
	KindNumber
	KindBoolean
	KindEnum
	KindUnion
	KindNamed
	KindArray
	KindMap
)

var kindNames = [...]string{"any", "string", "integer", "number", "boolean", "enum", "union", "named", "array", "map"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText renders the kind by name in reports.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText parses a kind name written by MarshalText.
func (k *Kind) UnmarshalText(text []byte) error {
	for i, name := range kindNames {
		if name == string(text) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown type kind %q", text)
}

// TypeRef is a resolved target type.
type TypeRef struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
	// Elem is the element type of an array or the value type of a map.
	Elem *TypeRef `json:"elem,omitempty"`
}

func (t TypeRef) String() string { return t.Name }

// Context carries naming information about the site being mapped.
type Context struct {
	// Property is the enclosing property name. Union and enum types are
	// named after it when the schema has no title.
	Property string
}

// Rule inspects a schema and either returns a type or declines.
type Rule func(Context, *asyncapi.Schema) (TypeRef, bool, error)

// Engine applies Rules in order; the first rule that does not decline wins.
// Order matters: the union rule must run before enum and string rules.
type Engine struct {
	Target Target
	Rules  []Rule
}

// New returns an engine with the default rule chain.
func New(target Target) *Engine {
	e := &Engine{Target: target}
	e.Rules = []Rule{
		e.unionRule,
		e.enumRule,
		e.stringRule,
		e.integerRule,
		e.numberRule,
		e.booleanRule,
		e.arrayRule,
		e.objectRule,
	}
	return e
}

// Map resolves a schema node. A reference to a named schema maps to that
// name, except that a reference to a plain scalar schema maps to the
// scalar's own type.
func (e *Engine) Map(ctx Context, n asyncapi.SchemaNode) (TypeRef, error) {
	switch v := n.(type) {
	case *asyncapi.Reference[asyncapi.Schema]:
		if v.Model == nil {
			return TypeRef{}, &asyncapi.UnresolvedReferenceError{Pointer: v.Pointer, Location: v.Location, Context: ctx.Property}
		}
		if plainScalar(v.Model) {
			return e.MapSchema(ctx, v.Model)
		}
		return TypeRef{Name: naming.FromPointer(v.Pointer), Kind: namedKind(v.Model)}, nil
	case *asyncapi.Inline[asyncapi.Schema]:
		return e.MapSchema(ctx, v.Value)
	case *asyncapi.MultiFormatSchema:
		if v.Schema == nil {
			return e.any(), nil
		}
		return e.Map(ctx, v.Schema)
	case asyncapi.BoolSchema, nil:
		return e.any(), nil
	default:
		return e.any(), nil
	}
}

// MapSchema runs the rule chain over s, falling back to the any type.
func (e *Engine) MapSchema(ctx Context, s *asyncapi.Schema) (TypeRef, error) {
	if s == nil {
		return e.any(), nil
	}
	for _, rule := range e.Rules {
		t, ok, err := rule(ctx, s)
		if err != nil {
			return TypeRef{}, err
		}
		if ok {
			return t, nil
		}
	}
	return e.any(), nil
}

func (e *Engine) any() TypeRef { return TypeRef{Name: e.Target.Any, Kind: KindAny} }

func (e *Engine) unionRule(ctx Context, s *asyncapi.Schema) (TypeRef, bool, error) {
	if !s.IsUnion() {
		return TypeRef{}, false, nil
	}
	name := naming.TypeName(ctx.Property)
	if name == "" {
		name = naming.TypeName(s.Title)
	}
	if name == "" {
		return TypeRef{}, false, nil
	}
	return TypeRef{Name: name, Kind: KindUnion}, true, nil
}

func (e *Engine) enumRule(ctx Context, s *asyncapi.Schema) (TypeRef, bool, error) {
	if !s.IsStringEnum() {
		return TypeRef{}, false, nil
	}
	name := naming.TypeName(s.Title)
	if name == "" {
		name = naming.TypeName(ctx.Property)
	}
	if name == "" {
		return TypeRef{Name: e.Target.String, Kind: KindString}, true, nil
	}
	return TypeRef{Name: name, Kind: KindEnum}, true, nil
}

func (e *Engine) stringRule(_ Context, s *asyncapi.Schema) (TypeRef, bool, error) {
	if !s.Type.Is(asyncapi.TypeString) {
		return TypeRef{}, false, nil
	}
	name := e.Target.String
	switch s.Format {
	case "uuid":
		name = e.Target.UUID
	case "date-time":
		name = e.Target.Timestamp
	case "date":
		name = e.Target.Date
	case "time":
		name = e.Target.Time
	}
	return TypeRef{Name: name, Kind: KindString}, true, nil
}

func (e *Engine) integerRule(_ Context, s *asyncapi.Schema) (TypeRef, bool, error) {
	if !s.Type.Is(asyncapi.TypeInteger) {
		return TypeRef{}, false, nil
	}
	switch s.Format {
	case "int64":
		return TypeRef{Name: e.Target.Int64, Kind: KindInteger}, true, nil
	case "int32":
		return TypeRef{Name: e.Target.Int32, Kind: KindInteger}, true, nil
	}
	if fitsInt32(s.Minimum) && fitsInt32(s.Maximum) &&
		fitsInt32(s.ExclusiveMinimum) && fitsInt32(s.ExclusiveMaximum) {
		return TypeRef{Name: e.Target.Int32, Kind: KindInteger}, true, nil
	}
	return TypeRef{Name: e.Target.Int64, Kind: KindInteger}, true, nil
}

// fitsInt32 reports whether an optional bound lies in the signed 32-bit
// range. An absent bound fits.
func fitsInt32(b *float64) bool {
	return b == nil || (*b >= math.MinInt32 && *b <= math.MaxInt32)
}

func (e *Engine) numberRule(_ Context, s *asyncapi.Schema) (TypeRef, bool, error) {
	if !s.Type.Is(asyncapi.TypeNumber) {
		return TypeRef{}, false, nil
	}
	if s.MultipleOf != nil {
		return TypeRef{Name: e.Target.Decimal, Kind: KindNumber}, true, nil
	}
	if s.Format == "float" {
		return TypeRef{Name: e.Target.Float32, Kind: KindNumber}, true, nil
	}
	return TypeRef{Name: e.Target.Float64, Kind: KindNumber}, true, nil
}

func (e *Engine) booleanRule(_ Context, s *asyncapi.Schema) (TypeRef, bool, error) {
	if !s.Type.Is(asyncapi.TypeBoolean) {
		return TypeRef{}, false, nil
	}
	return TypeRef{Name: e.Target.Bool, Kind: KindBoolean}, true, nil
}

func (e *Engine) arrayRule(ctx Context, s *asyncapi.Schema) (TypeRef, bool, error) {
	if !s.Type.Is(asyncapi.TypeArray) && s.Items == nil {
		return TypeRef{}, false, nil
	}
	elem, err := e.Map(Context{Property: ctx.Property + "Item"}, s.Items)
	if err != nil {
		return TypeRef{}, false, err
	}
	return TypeRef{Name: fmt.Sprintf(e.Target.Array, elem.Name), Kind: KindArray, Elem: &elem}, true, nil
}

func (e *Engine) objectRule(ctx Context, s *asyncapi.Schema) (TypeRef, bool, error) {
	if !s.Type.Is(asyncapi.TypeObject) && !s.HasProperties() && s.AdditionalProperties == nil {
		return TypeRef{}, false, nil
	}
	if s.HasProperties() {
		return TypeRef{}, false, fmt.Errorf("property %q: %w", ctx.Property, ErrUnpromotedObject)
	}
	if b, ok := s.AdditionalProperties.(asyncapi.BoolSchema); ok && !bool(b) {
		return TypeRef{}, false, fmt.Errorf("property %q: %w", ctx.Property, ErrNoMapType)
	}
	value, err := e.Map(Context{Property: ctx.Property + "Value"}, s.AdditionalProperties)
	if err != nil {
		return TypeRef{}, false, err
	}
	return TypeRef{Name: fmt.Sprintf(e.Target.Map, value.Name), Kind: KindMap, Elem: &value}, true, nil
}

// plainScalar reports whether a named schema has no identity of its own as
// a generated type.
func plainScalar(s *asyncapi.Schema) bool {
	if s.IsUnion() || s.IsStringEnum() || s.HasProperties() {
		return false
	}
	switch s.Type.Name {
	case asyncapi.TypeString, asyncapi.TypeInteger, asyncapi.TypeNumber, asyncapi.TypeBoolean:
		return true
	}
	return false
}

func namedKind(s *asyncapi.Schema) Kind {
	switch {
	case s.IsUnion():
		return KindUnion
	case s.IsStringEnum():
		return KindEnum
	default:
		return KindNamed
	}
}
