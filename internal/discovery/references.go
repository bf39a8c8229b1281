package discovery

import (
	"fmt"

	"github.com/eventforge/asyncgen/internal/asyncapi"
	"github.com/eventforge/asyncgen/internal/naming"
)

// Seed builds the initial named-schema map from the document's component
// schemas. Boolean and opaque multi-format entries have no model and are
// skipped. Keys deriving the same type name are settled by policy.
func Seed(doc *asyncapi.Document, policy CollisionPolicy) (*asyncapi.SchemaMap, error) {
	m := asyncapi.NewSchemaMap()
	namer := Namer{Schemas: m, Policy: policy}
	for key, n := range doc.Components.Schemas.All() {
		s := asyncapi.DerefSchema(n)
		name := naming.TypeName(key)
		if s == nil || name == "" {
			continue
		}
		if _, _, err := namer.Claim(name, s, componentsPrefix+key); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ReferenceAnalyzer pulls every schema reachable through a reference into
// the named map.
type ReferenceAnalyzer struct {
	Policy CollisionPolicy
}

// Discover adds the targets of nested references to m under the type name
// of their pointer's last segment. Names are visited breadth first, each at
// most once. When the name is taken by a different schema the policy
// decides, and a reference whose name or target changes is rewritten to
// point at the schema it now names.
func (a ReferenceAnalyzer) Discover(m *asyncapi.SchemaMap) (*asyncapi.SchemaMap, error) {
	queue := m.Keys()
	processed := make(map[string]bool, len(queue))
	namer := Namer{Schemas: m, Policy: a.Policy, OnAdd: func(name string) {
		queue = append(queue, name)
	}}

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if processed[name] {
			continue
		}
		processed[name] = true

		s, _ := m.Get(name)
		var err error
		forEachReference(s, func(ref *asyncapi.Reference[asyncapi.Schema]) {
			if err != nil || ref.Model == nil {
				return
			}
			refName := naming.FromPointer(ref.Pointer)
			if refName == "" {
				return
			}
			claimed, target, cerr := namer.Claim(refName, ref.Model, ref.Location)
			if cerr != nil {
				err = fmt.Errorf("%s: %w", name, cerr)
				return
			}
			if claimed != refName || target != ref.Model {
				ref.Pointer = componentsPrefix + claimed
				ref.Bind(asyncapi.NewInlineSchema(target), 0)
			}
		})
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

// forEachReference calls fn for every reference nested in s, descending
// through inline schemas but not through reference targets.
func forEachReference(s *asyncapi.Schema, fn func(*asyncapi.Reference[asyncapi.Schema])) {
	seen := make(map[*asyncapi.Schema]bool)
	var walk func(*asyncapi.Schema)
	walkNode := func(_ string, n asyncapi.SchemaNode) {
		switch v := n.(type) {
		case *asyncapi.Reference[asyncapi.Schema]:
			fn(v)
		case *asyncapi.Inline[asyncapi.Schema]:
			walk(v.Value)
		case *asyncapi.MultiFormatSchema:
			if in, ok := v.Schema.(*asyncapi.Inline[asyncapi.Schema]); ok {
				walk(in.Value)
			} else if ref, ok := v.Schema.(*asyncapi.Reference[asyncapi.Schema]); ok {
				fn(ref)
			}
		case asyncapi.BoolSchema, nil:
		}
	}
	walk = func(s *asyncapi.Schema) {
		if s == nil || seen[s] {
			return
		}
		seen[s] = true
		s.Children(walkNode)
	}
	walk(s)
}
