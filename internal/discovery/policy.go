package discovery

import (
	"fmt"
	"strings"
)

// CollisionPolicy decides what happens when a derived type name is already
// taken by a different schema.
type CollisionPolicy string

const (
	// CollisionError fails the run with *asyncapi.CollisionError.
	CollisionError CollisionPolicy = "error"
	// CollisionSuffix appends 2, 3, ... until a free name is found.
	CollisionSuffix CollisionPolicy = "suffix"
	// CollisionFirstWins keeps the existing schema and points the site at it.
	CollisionFirstWins CollisionPolicy = "first-wins"
)

// CollisionPolicies lists the accepted policy names.
var CollisionPolicies = []CollisionPolicy{CollisionError, CollisionSuffix, CollisionFirstWins}

// ParseCollisionPolicy parses a policy name. The empty string selects
// CollisionError.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	if s == "" {
		return CollisionError, nil
	}
	for _, p := range CollisionPolicies {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown collision policy %q (valid: error, suffix, first-wins)", s)
}
