// Package discovery grows the named-schema map: referenced schemas are
// pulled in, anonymous nested schemas are promoted to named types, and
// union membership is recorded as child -> parents edges.
package discovery

import (
	"fmt"
	"log/slog"

	"github.com/eventforge/asyncgen/internal/asyncapi"
)

// Pipeline runs the analyzers in their fixed order: references, promotion,
// polymorphism. Promotion must see every discoverable schema, and union
// edges are computed over the final set of names.
type Pipeline struct {
	Policy CollisionPolicy
	Logger *slog.Logger
}

// Result is the output of one pipeline run.
type Result struct {
	Schemas     *asyncapi.SchemaMap
	Polymorphic *asyncapi.PolymorphicMap
}

// Run takes ownership of m and returns the grown map.
func (p Pipeline) Run(m *asyncapi.SchemaMap) (*Result, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	seeded := m.Len()
	m, err := ReferenceAnalyzer{Policy: p.Policy}.Discover(m)
	if err != nil {
		return nil, fmt.Errorf("discovering referenced schemas: %w", err)
	}
	referenced := m.Len()

	m, err = InlineSchemaAnalyzer{Policy: p.Policy}.Promote(m)
	if err != nil {
		return nil, fmt.Errorf("promoting inline schemas: %w", err)
	}
	poly := PolymorphicAnalyzer{}.Analyze(m)

	logger.Debug("Discovered schemas",
		"seeded", seeded,
		"referenced", referenced-seeded,
		"promoted", m.Len()-referenced,
		"union_members", poly.Len())
	return &Result{Schemas: m, Polymorphic: poly}, nil
}
