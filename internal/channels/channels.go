// Package channels derives, for every channel of a bundled document, its
// effective topic, its producer/consumer direction and the payload types of
// its messages.
package channels

import (
	"fmt"

	"github.com/eventforge/asyncgen/internal/asyncapi"
	"github.com/eventforge/asyncgen/internal/naming"
)

// AnalyzedMessage is one message usable on a channel.
type AnalyzedMessage struct {
	Name        string
	ContentType string
	// PayloadType is the type name of the payload; empty when the message
	// declares no interpretable payload.
	PayloadType string
	Payload     *asyncapi.Schema
	Headers     *asyncapi.Schema
	// Key is the message key schema from the Kafka binding, if any.
	Key *asyncapi.Schema
}

// AnalyzedChannel is the emitter-facing view of a channel. Values are not
// modified after Analyze returns them.
type AnalyzedChannel struct {
	ChannelName string
	Topic       string
	IsProducer  bool
	IsConsumer  bool
	Messages    []AnalyzedMessage
}

// Analyze analyzes every channel declared at the document root, in
// declaration order. Operations are matched to channels by the identity of
// the resolved channel, not by name. A channel no operation touches is both
// producer and consumer.
func Analyze(doc *asyncapi.Document) ([]AnalyzedChannel, error) {
	out := make([]AnalyzedChannel, 0, doc.Channels.Len())
	for name, n := range doc.Channels.All() {
		ch, id, ok := asyncapi.Deref(n)
		if !ok {
			return nil, unresolved(n, fmt.Sprintf("Channel '%s'", name))
		}

		ac := AnalyzedChannel{ChannelName: name, Topic: name}
		if ch.Address != nil && *ch.Address != "" {
			ac.Topic = *ch.Address
		}
		ac.IsProducer, ac.IsConsumer = direction(doc, ch, id)

		for key, mn := range ch.Messages.All() {
			msg, err := analyzeMessage(doc, mn, key, fmt.Sprintf("Channel '%s' Message '%s'", name, key))
			if err != nil {
				return nil, err
			}
			ac.Messages = append(ac.Messages, msg)
		}
		out = append(out, ac)
	}
	return out, nil
}

// direction scans the operations bound to channel. Channels are the same
// when they resolve to the same model; a non-zero id also matches, since
// zero marks nodes that were never indexed.
func direction(doc *asyncapi.Document, channel *asyncapi.Channel, id asyncapi.NodeID) (producer, consumer bool) {
	touched := false
	for _, n := range doc.Operations.All() {
		op, _, ok := asyncapi.Deref(n)
		if !ok {
			continue
		}
		target, targetID, ok := asyncapi.Deref(op.Channel)
		if !ok || (target != channel && (id == 0 || targetID != id)) {
			continue
		}
		touched = true
		switch op.Action {
		case asyncapi.ActionSend:
			producer = true
		case asyncapi.ActionReceive:
			consumer = true
		}
	}
	if !touched {
		return true, true
	}
	return producer, consumer
}

func analyzeMessage(doc *asyncapi.Document, n asyncapi.MessageNode, key, where string) (AnalyzedMessage, error) {
	m, _, ok := asyncapi.Deref(n)
	if !ok {
		return AnalyzedMessage{}, unresolved(n, where)
	}
	eff, err := applyTraits(m, where)
	if err != nil {
		return AnalyzedMessage{}, err
	}

	am := AnalyzedMessage{
		Name:        MessageName(eff, key),
		ContentType: eff.ContentType,
		Payload:     asyncapi.DerefSchema(eff.Payload),
		Headers:     asyncapi.DerefSchema(eff.Headers),
	}
	if am.ContentType == "" {
		am.ContentType = doc.DefaultContentType
	}
	am.PayloadType = PayloadTypeName(eff.Payload, am.Name)
	if k := eff.Bindings.Kafka; k != nil {
		am.Key = asyncapi.DerefSchema(k.Key)
	}
	return am, nil
}

// MessageName is the message's name, else its title, else the key it is
// declared under.
func MessageName(m *asyncapi.Message, key string) string {
	switch {
	case m.Name != "":
		return m.Name
	case m.Title != "":
		return m.Title
	default:
		return key
	}
}

// PayloadTypeName derives the type name of a payload: the last pointer
// segment for a reference, the message name for an inline schema.
func PayloadTypeName(payload asyncapi.SchemaNode, messageName string) string {
	switch v := payload.(type) {
	case *asyncapi.Reference[asyncapi.Schema]:
		return naming.FromPointer(v.Pointer)
	case *asyncapi.Inline[asyncapi.Schema]:
		return naming.TypeName(messageName)
	case *asyncapi.MultiFormatSchema:
		if v.Schema == nil {
			return ""
		}
		return PayloadTypeName(v.Schema, messageName)
	case asyncapi.BoolSchema, nil:
		return ""
	default:
		return ""
	}
}

// applyTraits returns a copy of m with its traits applied. Fields the
// message declares itself take precedence over trait fields.
func applyTraits(m *asyncapi.Message, where string) (*asyncapi.Message, error) {
	if len(m.Traits) == 0 {
		return m, nil
	}
	eff := *m
	for i, tn := range m.Traits {
		t, _, ok := asyncapi.Deref(tn)
		if !ok {
			return nil, unresolved(tn, fmt.Sprintf("%s Trait #%d", where, i))
		}
		eff.Name = fill(eff.Name, t.Name)
		eff.Title = fill(eff.Title, t.Title)
		eff.Summary = fill(eff.Summary, t.Summary)
		eff.Description = fill(eff.Description, t.Description)
		eff.ContentType = fill(eff.ContentType, t.ContentType)
		if eff.Headers == nil {
			eff.Headers = t.Headers
		}
		if eff.Bindings.Kafka == nil {
			eff.Bindings.Kafka = t.Bindings.Kafka
		}
	}
	return &eff, nil
}

func fill(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

// unresolved reports a node the resolver did not bind.
func unresolved[T any](n asyncapi.Node[T], where string) error {
	err := &asyncapi.UnresolvedReferenceError{Context: where, Reason: "document is not bundled"}
	if ref, ok := n.(*asyncapi.Reference[T]); ok {
		err.Pointer, err.Location = ref.Pointer, ref.Location
	}
	return err
}
