// Package normalize rewrites named schemas in place: allOf chains are
// merged into a single schema and if/then/else is flattened into one
// property set. Composition runs first so the conditional pass sees stable
// properties.
package normalize

import (
	"strings"

	"github.com/eventforge/asyncgen/internal/asyncapi"
	"github.com/eventforge/asyncgen/internal/naming"
)

// Normalize runs composition then conditional normalization over m.
func Normalize(m *asyncapi.SchemaMap) *asyncapi.SchemaMap {
	m = CompositionNormalizer{}.Normalize(m)
	return ConditionalNormalizer{}.Normalize(m)
}

// CompositionNormalizer merges allOf lists.
type CompositionNormalizer struct{}

// Normalize resolves every allOf in m, including those of nested inline
// schemas, bottom-up. A schema reached again through its own ancestry is
// used as is, which terminates self-referential chains.
func (CompositionNormalizer) Normalize(m *asyncapi.SchemaMap) *asyncapi.SchemaMap {
	c := &composer{
		done:     make(map[*asyncapi.Schema]bool),
		composed: make(map[*asyncapi.Schema]bool),
	}
	for name, s := range m.All() {
		c.resolve(s, name, make(map[string]bool))
	}
	return m
}

// composer memoizes schemas whose allOf has already been folded, so a
// schema reached from sibling paths is merged once. composed remembers
// which schemas declared an allOf before folding cleared it.
type composer struct {
	done     map[*asyncapi.Schema]bool
	composed map[*asyncapi.Schema]bool
}

// resolve folds the allOf of s into s. path holds the schema names on the
// current recursion path; it is added to on entry and removed from on exit.
func (c *composer) resolve(s *asyncapi.Schema, name string, path map[string]bool) *asyncapi.Schema {
	if s == nil || c.done[s] {
		return s
	}
	if name != "" {
		if path[name] {
			return s
		}
		path[name] = true
		defer delete(path, name)
	}

	c.children(s, path)
	if len(s.AllOf) == 0 {
		c.done[s] = true
		return s
	}
	c.composed[s] = true

	var (
		merged   = &asyncapi.Schema{}
		fallback string
	)
	for _, member := range s.AllOf {
		ms, memberName := memberSchema(member)
		if ms == nil {
			continue
		}
		if memberName != "" && fallback == "" && len(ms.AllOf) == 0 && !c.composed[ms] {
			fallback = memberName
		}
		merged = mergeSchemas(merged, c.resolve(ms, memberName, path))
	}
	own := s.Clone()
	own.AllOf = nil
	merged = mergeSchemas(merged, own)
	if merged.Title == "" {
		merged.Title = fallback
	}

	*s = *merged
	c.done[s] = true
	return s
}

// children resolves the allOf lists of nested inline schemas. Referenced
// schemas are named and resolved on their own.
func (c *composer) children(s *asyncapi.Schema, path map[string]bool) {
	s.Children(func(facet string, n asyncapi.SchemaNode) {
		if strings.HasPrefix(facet, "allOf/") {
			return
		}
		if in, ok := n.(*asyncapi.Inline[asyncapi.Schema]); ok {
			c.resolve(in.Value, "", path)
		}
	})
}

// memberSchema returns the schema behind an allOf member and, for a
// reference, the type name of its target.
func memberSchema(n asyncapi.SchemaNode) (*asyncapi.Schema, string) {
	switch v := n.(type) {
	case *asyncapi.Reference[asyncapi.Schema]:
		return v.Model, naming.FromPointer(v.Pointer)
	case *asyncapi.Inline[asyncapi.Schema]:
		return v.Value, ""
	case *asyncapi.MultiFormatSchema:
		return asyncapi.DerefSchema(v), ""
	case asyncapi.BoolSchema, nil:
		return nil, ""
	default:
		return nil, ""
	}
}
