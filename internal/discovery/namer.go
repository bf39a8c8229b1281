package discovery

import (
	"github.com/eventforge/asyncgen/internal/asyncapi"
	"github.com/eventforge/asyncgen/internal/naming"
)

// Namer assigns type names to schemas in a named-schema map. A name taken
// by a structurally different schema is a collision and is settled by the
// policy; a structurally equal schema shares the name.
type Namer struct {
	Schemas *asyncapi.SchemaMap
	Policy  CollisionPolicy
	// OnAdd, when set, is called for each name added to Schemas.
	OnAdd func(name string)
}

// Claim reserves name for s and returns the name and schema the claiming
// site should use. site is the location reported in a collision error.
func (n *Namer) Claim(name string, s *asyncapi.Schema, site string) (string, *asyncapi.Schema, error) {
	existing, ok := n.Schemas.Get(name)
	switch {
	case !ok:
		n.add(name, s)
		return name, s, nil
	case asyncapi.Equal(existing, s):
		return name, existing, nil
	}

	switch n.Policy {
	case CollisionFirstWins:
		return name, existing, nil
	case CollisionSuffix:
		for i := 2; ; i++ {
			candidate := naming.Suffixed(name, i)
			other, taken := n.Schemas.Get(candidate)
			if !taken {
				n.add(candidate, s)
				return candidate, s, nil
			}
			if asyncapi.Equal(other, s) {
				return candidate, other, nil
			}
		}
	default:
		return "", nil, &asyncapi.CollisionError{Name: name, Context: site}
	}
}

func (n *Namer) add(name string, s *asyncapi.Schema) {
	n.Schemas.Set(name, s)
	if n.OnAdd != nil {
		n.OnAdd(name)
	}
}
