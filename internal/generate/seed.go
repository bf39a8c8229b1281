package generate

import (
	"fmt"

	"github.com/eventforge/asyncgen/internal/asyncapi"
	"github.com/eventforge/asyncgen/internal/channels"
	"github.com/eventforge/asyncgen/internal/discovery"
	"github.com/eventforge/asyncgen/internal/naming"
)

// seedable reports whether a message schema becomes a named type: an
// object, or a schema the normalizer will fold into one.
func seedable(s *asyncapi.Schema) bool {
	return s.Type.Is(asyncapi.TypeObject) || s.HasProperties() || len(s.AllOf) > 0 || s.HasConditional()
}

// seedPayloads adds message payloads, headers and keys that have their own
// type name to m, so that payloads declared inline on a message or in
// another file become named types. Names taken by a different schema are
// settled by policy; a renamed payload updates the message's PayloadType.
func seedPayloads(m *asyncapi.SchemaMap, chs []channels.AnalyzedChannel, policy discovery.CollisionPolicy) error {
	namer := discovery.Namer{Schemas: m, Policy: policy}
	add := func(name string, s *asyncapi.Schema, site string) (string, error) {
		if name == "" || s == nil || !seedable(s) {
			return name, nil
		}
		claimed, _, err := namer.Claim(name, s, site)
		if err != nil {
			return "", fmt.Errorf("seeding message schemas: %w", err)
		}
		return claimed, nil
	}

	for i := range chs {
		ch := &chs[i]
		for j := range ch.Messages {
			msg := &ch.Messages[j]
			site := "Channel '" + ch.ChannelName + "' Message '" + msg.Name + "'"
			name, err := add(msg.PayloadType, msg.Payload, site+" Payload")
			if err != nil {
				return err
			}
			msg.PayloadType = name
			if _, err := add(naming.TypeName(msg.Name+" headers"), msg.Headers, site+" Headers"); err != nil {
				return err
			}
			if _, err := add(naming.TypeName(msg.Name+" key"), msg.Key, site+" Kafka Key"); err != nil {
				return err
			}
		}
	}
	return nil
}
