package discovery

import (
	"github.com/eventforge/asyncgen/internal/asyncapi"
	"github.com/eventforge/asyncgen/internal/naming"
)

// componentsPrefix is the pointer prefix of promoted schemas.
const componentsPrefix = "#/components/schemas/"

// InlineSchemaAnalyzer promotes anonymous nested objects and string enums
// to named schemas.
type InlineSchemaAnalyzer struct {
	Policy CollisionPolicy
}

// Promote names every anonymous object (non-empty properties) or string
// enum found under properties, array items or additionalProperties of a
// named schema, adds it to m, and replaces the nesting site with a
// reference to the new name. Nested schemas are promoted before their
// parent. Running Promote on its own output changes nothing.
func (a InlineSchemaAnalyzer) Promote(m *asyncapi.SchemaMap) (*asyncapi.SchemaMap, error) {
	p := &promoter{
		m:         m,
		queue:     m.Keys(),
		processed: make(map[string]bool),
	}
	p.namer = Namer{Schemas: m, Policy: a.Policy, OnAdd: func(name string) {
		p.queue = append(p.queue, name)
	}}
	for len(p.queue) > 0 {
		name := p.queue[0]
		p.queue = p.queue[1:]
		if p.processed[name] {
			continue
		}
		p.processed[name] = true

		s, _ := m.Get(name)
		if err := p.children(s, name, name); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// promoter owns the worklist of one Promote call.
type promoter struct {
	m         *asyncapi.SchemaMap
	namer     Namer
	queue     []string
	processed map[string]bool
}

// promotable reports whether an anonymous schema deserves its own name.
func promotable(s *asyncapi.Schema) bool {
	return s.HasProperties() || s.IsStringEnum()
}

// children processes the nesting sites of s. context names the site s sits
// at; path is the dotted location used in collision errors.
func (p *promoter) children(s *asyncapi.Schema, context, path string) error {
	if s == nil {
		return nil
	}
	for key, child := range s.Properties.All() {
		err := p.site(child, key, path+"."+key, func(n asyncapi.SchemaNode) {
			s.Properties.Set(key, n)
		})
		if err != nil {
			return err
		}
	}
	if s.Items != nil {
		err := p.site(s.Items, context+"Item", path+"[]", func(n asyncapi.SchemaNode) {
			s.Items = n
		})
		if err != nil {
			return err
		}
	}
	if s.AdditionalProperties != nil {
		err := p.site(s.AdditionalProperties, context+"Value", path+"{}", func(n asyncapi.SchemaNode) {
			s.AdditionalProperties = n
		})
		if err != nil {
			return err
		}
	}
	// Inline composition members and conditional branches are not promoted
	// themselves, but their nested objects are: the normalizer folds them
	// into the owning schema later.
	for _, list := range [][]asyncapi.SchemaNode{s.AllOf, s.AnyOf, s.OneOf} {
		for _, member := range list {
			if in, ok := member.(*asyncapi.Inline[asyncapi.Schema]); ok {
				if err := p.children(in.Value, context, path); err != nil {
					return err
				}
			}
		}
	}
	for _, branch := range []asyncapi.SchemaNode{s.If, s.Then, s.Else} {
		if in, ok := branch.(*asyncapi.Inline[asyncapi.Schema]); ok {
			if err := p.children(in.Value, context, path); err != nil {
				return err
			}
		}
	}
	return nil
}

// site handles one nesting site. References, boolean and multi-format
// schemas are left alone; inline schemas have their own children processed
// first and are then promoted if they qualify.
func (p *promoter) site(n asyncapi.SchemaNode, context, path string, replace func(asyncapi.SchemaNode)) error {
	in, ok := n.(*asyncapi.Inline[asyncapi.Schema])
	if !ok || in.Value == nil {
		return nil
	}
	s := in.Value
	if err := p.children(s, context, path); err != nil {
		return err
	}
	if !promotable(s) {
		return nil
	}

	name := naming.TypeName(s.Title)
	if name == "" {
		name = naming.TypeName(context)
	}
	name, target, err := p.namer.Claim(name, s, path)
	if err != nil {
		return err
	}
	replace(asyncapi.NewSchemaRef(componentsPrefix+name, target))
	return nil
}
