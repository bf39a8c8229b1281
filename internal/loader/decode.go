package loader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/eventforge/asyncgen/internal/asyncapi"
	"gopkg.in/yaml.v3"
)

// decoder turns the yaml.Node tree of one file into model values. Every
// entity it decodes is registered in the shared index under its canonical
// location before its children are decoded.
type decoder struct {
	file string
	ix   *asyncapi.Index
}

func unexpected(loc, field string, y *yaml.Node, detail string) error {
	var value any = "<missing>"
	if y != nil {
		value = nodeKindToString(y.Kind)
		if y.Kind == yaml.ScalarNode {
			value = y.Value
		}
	}
	return &asyncapi.UnexpectedValueError{Location: loc, Field: field, Value: value, Detail: detail}
}

// lookup returns the node already registered at loc, if any.
func lookup[T any](d *decoder, loc string) (asyncapi.Node[T], bool, error) {
	id, ok := d.ix.Lookup(loc)
	if !ok {
		return nil, false, nil
	}
	n, ok := d.ix.Node(id).(asyncapi.Node[T])
	if !ok {
		var zero T
		return nil, true, &asyncapi.UnexpectedValueError{
			Location: loc,
			Field:    "$ref",
			Value:    fmt.Sprintf("%T", d.ix.Node(id)),
			Detail:   fmt.Sprintf("expected %T", zero),
		}
	}
	return n, true, nil
}

// decodeNode decodes a mapping that is either a {$ref} object or an inline
// entity.
func decodeNode[T any](d *decoder, y *yaml.Node, loc string, decode func(*yaml.Node, string) (*T, error)) (asyncapi.Node[T], error) {
	y = deAlias(y)
	if n, ok, err := lookup[T](d, loc); ok || err != nil {
		return n, err
	}
	if y == nil || y.Kind != yaml.MappingNode {
		return nil, unexpected(loc, "value", y, "expected an object")
	}
	if ref := findNode(y, "$ref"); ref != nil {
		if ref.Kind != yaml.ScalarNode || ref.Value == "" {
			return nil, unexpected(loc, "$ref", ref, "expected a pointer string")
		}
		r := &asyncapi.Reference[T]{
			Pointer:  ref.Value,
			Location: asyncapi.AbsoluteLocation(d.file, ref.Value),
		}
		d.ix.Register(loc, r)
		return r, nil
	}
	in := &asyncapi.Inline[T]{}
	in.ID = d.ix.Register(loc, in)
	v, err := decode(y, loc)
	if err != nil {
		return nil, err
	}
	in.Value = v
	return in, nil
}

// entityMap decodes a mapping of named entities into dst.
func entityMap[T any](d *decoder, y *yaml.Node, loc string, dst *asyncapi.OrderedMap[asyncapi.Node[T]], decode func(*yaml.Node, string) (*T, error)) error {
	if y.Kind != yaml.MappingNode {
		return unexpected(loc, "value", y, "expected an object")
	}
	return mappingPairs(y, func(name string, v *yaml.Node) error {
		n, err := decodeNode(d, v, asyncapi.Child(loc, name), decode)
		if err != nil {
			return err
		}
		dst.Set(name, n)
		return nil
	})
}

// entityList decodes a sequence of entities.
func entityList[T any](d *decoder, y *yaml.Node, loc string, decode func(*yaml.Node, string) (*T, error)) ([]asyncapi.Node[T], error) {
	if y.Kind != yaml.SequenceNode {
		return nil, unexpected(loc, "value", y, "expected an array")
	}
	out := make([]asyncapi.Node[T], 0, len(y.Content))
	for i, item := range y.Content {
		n, err := decodeNode(d, item, asyncapi.Child(loc, strconv.Itoa(i)), decode)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (d *decoder) str(y *yaml.Node, loc string) (string, error) {
	if y.Kind != yaml.ScalarNode {
		return "", unexpected(loc, "value", y, "expected a string")
	}
	return y.Value, nil
}

func (d *decoder) boolean(y *yaml.Node, loc string) (bool, error) {
	var b bool
	if y.Kind != yaml.ScalarNode || y.Decode(&b) != nil {
		return false, unexpected(loc, "value", y, "expected a boolean")
	}
	return b, nil
}

func (d *decoder) boolPtr(y *yaml.Node, loc string) (*bool, error) {
	b, err := d.boolean(y, loc)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (d *decoder) float(y *yaml.Node, loc string) (*float64, error) {
	if y.Kind != yaml.ScalarNode {
		return nil, unexpected(loc, "value", y, "expected a number")
	}
	f, err := strconv.ParseFloat(y.Value, 64)
	if err != nil {
		return nil, unexpected(loc, "value", y, "expected a number")
	}
	return &f, nil
}

func (d *decoder) integer(y *yaml.Node, loc string) (*int, error) {
	if y.Kind != yaml.ScalarNode {
		return nil, unexpected(loc, "value", y, "expected a non-negative integer")
	}
	n, err := strconv.Atoi(y.Value)
	if err != nil || n < 0 {
		return nil, unexpected(loc, "value", y, "expected a non-negative integer")
	}
	return &n, nil
}

func (d *decoder) stringList(y *yaml.Node, loc string) ([]string, error) {
	if y.Kind != yaml.SequenceNode {
		return nil, unexpected(loc, "value", y, "expected an array of strings")
	}
	out := make([]string, 0, len(y.Content))
	for _, item := range y.Content {
		item = deAlias(item)
		if item.Kind != yaml.ScalarNode {
			return nil, unexpected(loc, "value", item, "expected an array of strings")
		}
		out = append(out, item.Value)
	}
	return out, nil
}

func (d *decoder) values(y *yaml.Node, loc string) ([]any, error) {
	if y.Kind != yaml.SequenceNode {
		return nil, unexpected(loc, "value", y, "expected an array")
	}
	v, err := decodeAny(y)
	if err != nil {
		return nil, unexpected(loc, "value", y, err.Error())
	}
	list, _ := v.([]any)
	return list, nil
}

func (d *decoder) anyMap(y *yaml.Node, loc string) (map[string]any, error) {
	if y.Kind != yaml.MappingNode {
		return nil, unexpected(loc, "value", y, "expected an object")
	}
	var m map[string]any
	if err := y.Decode(&m); err != nil {
		return nil, unexpected(loc, "value", y, err.Error())
	}
	return m, nil
}

// document decodes the root of an AsyncAPI file.
func (d *decoder) document(y *yaml.Node) (*asyncapi.Document, error) {
	loc := asyncapi.Location(d.file, "")
	if y.Kind != yaml.MappingNode {
		return nil, unexpected(loc, "document", y, "expected an object")
	}
	doc := &asyncapi.Document{
		File:       d.file,
		Index:      d.ix,
		Servers:    asyncapi.NewOrderedMap[*asyncapi.Server](),
		Channels:   asyncapi.NewOrderedMap[asyncapi.ChannelNode](),
		Operations: asyncapi.NewOrderedMap[asyncapi.OperationNode](),
		Components: newComponents(),
	}
	err := mappingPairs(y, func(key string, v *yaml.Node) error {
		if isNull(v) {
			return nil
		}
		at := asyncapi.Child(loc, key)
		var err error
		switch key {
		case "asyncapi":
			doc.AsyncAPI, err = d.str(v, at)
		case "id":
			doc.ID, err = d.str(v, at)
		case "defaultContentType":
			doc.DefaultContentType, err = d.str(v, at)
		case "info":
			doc.Info, err = d.info(v, at)
		case "servers":
			err = d.servers(v, at, doc.Servers)
		case "channels":
			err = entityMap(d, v, at, doc.Channels, d.channel)
		case "operations":
			err = entityMap(d, v, at, doc.Operations, d.operation)
		case "components":
			err = d.components(v, at, &doc.Components)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func newComponents() asyncapi.Components {
	return asyncapi.Components{
		Schemas:        asyncapi.NewOrderedMap[asyncapi.SchemaNode](),
		Messages:       asyncapi.NewOrderedMap[asyncapi.MessageNode](),
		Channels:       asyncapi.NewOrderedMap[asyncapi.ChannelNode](),
		Operations:     asyncapi.NewOrderedMap[asyncapi.OperationNode](),
		MessageTraits:  asyncapi.NewOrderedMap[asyncapi.MessageTraitNode](),
		Replies:        asyncapi.NewOrderedMap[asyncapi.OperationReplyNode](),
		ReplyAddresses: asyncapi.NewOrderedMap[asyncapi.OperationReplyAddressNode](),
		Parameters:     asyncapi.NewOrderedMap[asyncapi.ParameterNode](),
	}
}

func (d *decoder) info(y *yaml.Node, loc string) (asyncapi.Info, error) {
	var info asyncapi.Info
	if y.Kind != yaml.MappingNode {
		return info, unexpected(loc, "info", y, "expected an object")
	}
	err := mappingPairs(y, func(key string, v *yaml.Node) error {
		at := asyncapi.Child(loc, key)
		var err error
		switch key {
		case "title":
			info.Title, err = d.str(v, at)
		case "version":
			info.Version, err = d.str(v, at)
		case "description":
			info.Description, err = d.str(v, at)
		}
		return err
	})
	return info, err
}

func (d *decoder) servers(y *yaml.Node, loc string, dst *asyncapi.OrderedMap[*asyncapi.Server]) error {
	return mappingPairs(y, func(name string, v *yaml.Node) error {
		// Referenced servers are not part of the analysis.
		if v.Kind != yaml.MappingNode || findNode(v, "$ref") != nil {
			return nil
		}
		srv := &asyncapi.Server{}
		at := asyncapi.Child(loc, name)
		err := mappingPairs(v, func(key string, f *yaml.Node) error {
			var err error
			switch key {
			case "host":
				srv.Host, err = d.str(f, asyncapi.Child(at, key))
			case "protocol":
				srv.Protocol, err = d.str(f, asyncapi.Child(at, key))
			case "pathname":
				srv.Pathname, err = d.str(f, asyncapi.Child(at, key))
			case "description":
				srv.Description, err = d.str(f, asyncapi.Child(at, key))
			}
			return err
		})
		if err != nil {
			return err
		}
		dst.Set(name, srv)
		return nil
	})
}

func (d *decoder) components(y *yaml.Node, loc string, c *asyncapi.Components) error {
	return mappingPairs(y, func(key string, v *yaml.Node) error {
		if isNull(v) {
			return nil
		}
		at := asyncapi.Child(loc, key)
		switch key {
		case "schemas":
			return d.schemaEntries(v, at, c.Schemas)
		case "messages":
			return entityMap(d, v, at, c.Messages, d.message)
		case "channels":
			return entityMap(d, v, at, c.Channels, d.channel)
		case "operations":
			return entityMap(d, v, at, c.Operations, d.operation)
		case "messageTraits":
			return entityMap(d, v, at, c.MessageTraits, d.messageTrait)
		case "replies":
			return entityMap(d, v, at, c.Replies, d.reply)
		case "replyAddresses":
			return entityMap(d, v, at, c.ReplyAddresses, d.replyAddress)
		case "parameters":
			return entityMap(d, v, at, c.Parameters, d.parameter)
		}
		return nil
	})
}

func (d *decoder) schemaEntries(y *yaml.Node, loc string, dst *asyncapi.OrderedMap[asyncapi.SchemaNode]) error {
	if y.Kind != yaml.MappingNode {
		return unexpected(loc, "schemas", y, "expected an object")
	}
	return mappingPairs(y, func(name string, v *yaml.Node) error {
		n, err := d.payloadNode(v, asyncapi.Child(loc, name))
		if err != nil {
			return err
		}
		dst.Set(name, n)
		return nil
	})
}

func (d *decoder) channel(y *yaml.Node, loc string) (*asyncapi.Channel, error) {
	ch := &asyncapi.Channel{}
	err := mappingPairs(y, func(key string, v *yaml.Node) error {
		at := asyncapi.Child(loc, key)
		if isNull(v) {
			return nil
		}
		var err error
		switch key {
		case "address":
			var addr string
			addr, err = d.str(v, at)
			ch.Address = &addr
		case "title":
			ch.Title, err = d.str(v, at)
		case "summary":
			ch.Summary, err = d.str(v, at)
		case "description":
			ch.Description, err = d.str(v, at)
		case "messages":
			ch.Messages = asyncapi.NewOrderedMap[asyncapi.MessageNode]()
			err = entityMap(d, v, at, ch.Messages, d.message)
		case "parameters":
			ch.Parameters = asyncapi.NewOrderedMap[asyncapi.ParameterNode]()
			err = entityMap(d, v, at, ch.Parameters, d.parameter)
		case "bindings":
			ch.Bindings, err = d.anyMap(v, at)
		}
		return err
	})
	return ch, err
}

func (d *decoder) parameter(y *yaml.Node, loc string) (*asyncapi.Parameter, error) {
	p := &asyncapi.Parameter{}
	err := mappingPairs(y, func(key string, v *yaml.Node) error {
		at := asyncapi.Child(loc, key)
		var err error
		switch key {
		case "enum":
			p.Enum, err = d.stringList(v, at)
		case "default":
			p.Default, err = d.str(v, at)
		case "description":
			p.Description, err = d.str(v, at)
		case "location":
			p.Location, err = d.str(v, at)
		}
		return err
	})
	return p, err
}

func (d *decoder) operation(y *yaml.Node, loc string) (*asyncapi.Operation, error) {
	op := &asyncapi.Operation{}
	err := mappingPairs(y, func(key string, v *yaml.Node) error {
		at := asyncapi.Child(loc, key)
		if isNull(v) {
			return nil
		}
		var err error
		switch key {
		case "action":
			var a string
			a, err = d.str(v, at)
			op.Action = asyncapi.Action(a)
		case "channel":
			op.Channel, err = decodeNode(d, v, at, d.channel)
		case "title":
			op.Title, err = d.str(v, at)
		case "summary":
			op.Summary, err = d.str(v, at)
		case "description":
			op.Description, err = d.str(v, at)
		case "messages":
			op.Messages, err = entityList(d, v, at, d.message)
		case "reply":
			op.Reply, err = decodeNode(d, v, at, d.reply)
		case "bindings":
			op.Bindings, err = d.anyMap(v, at)
		}
		return err
	})
	return op, err
}

func (d *decoder) reply(y *yaml.Node, loc string) (*asyncapi.OperationReply, error) {
	r := &asyncapi.OperationReply{}
	err := mappingPairs(y, func(key string, v *yaml.Node) error {
		at := asyncapi.Child(loc, key)
		if isNull(v) {
			return nil
		}
		var err error
		switch key {
		case "address":
			r.Address, err = decodeNode(d, v, at, d.replyAddress)
		case "channel":
			r.Channel, err = decodeNode(d, v, at, d.channel)
		case "messages":
			r.Messages, err = entityList(d, v, at, d.message)
		}
		return err
	})
	return r, err
}

func (d *decoder) replyAddress(y *yaml.Node, loc string) (*asyncapi.OperationReplyAddress, error) {
	a := &asyncapi.OperationReplyAddress{}
	err := mappingPairs(y, func(key string, v *yaml.Node) error {
		at := asyncapi.Child(loc, key)
		var err error
		switch key {
		case "location":
			a.Location, err = d.str(v, at)
		case "description":
			a.Description, err = d.str(v, at)
		}
		return err
	})
	return a, err
}

func (d *decoder) message(y *yaml.Node, loc string) (*asyncapi.Message, error) {
	m := &asyncapi.Message{}
	err := mappingPairs(y, func(key string, v *yaml.Node) error {
		at := asyncapi.Child(loc, key)
		if isNull(v) {
			return nil
		}
		var err error
		switch key {
		case "name":
			m.Name, err = d.str(v, at)
		case "title":
			m.Title, err = d.str(v, at)
		case "summary":
			m.Summary, err = d.str(v, at)
		case "description":
			m.Description, err = d.str(v, at)
		case "contentType":
			m.ContentType, err = d.str(v, at)
		case "payload":
			m.Payload, err = d.payloadNode(v, at)
		case "headers":
			m.Headers, err = d.payloadNode(v, at)
		case "correlationId":
			m.CorrelationID = correlationID(v)
		case "traits":
			m.Traits, err = entityList(d, v, at, d.messageTrait)
		case "bindings":
			m.Bindings, err = d.messageBindings(v, at)
		}
		return err
	})
	return m, err
}

func correlationID(y *yaml.Node) string {
	if ref := findNode(y, "$ref"); ref != nil {
		return ref.Value
	}
	if l := findNode(y, "location"); l != nil {
		return l.Value
	}
	return ""
}

func (d *decoder) messageTrait(y *yaml.Node, loc string) (*asyncapi.MessageTrait, error) {
	t := &asyncapi.MessageTrait{}
	err := mappingPairs(y, func(key string, v *yaml.Node) error {
		at := asyncapi.Child(loc, key)
		if isNull(v) {
			return nil
		}
		var err error
		switch key {
		case "name":
			t.Name, err = d.str(v, at)
		case "title":
			t.Title, err = d.str(v, at)
		case "summary":
			t.Summary, err = d.str(v, at)
		case "description":
			t.Description, err = d.str(v, at)
		case "contentType":
			t.ContentType, err = d.str(v, at)
		case "headers":
			t.Headers, err = d.payloadNode(v, at)
		case "bindings":
			t.Bindings, err = d.messageBindings(v, at)
		}
		return err
	})
	return t, err
}

func (d *decoder) messageBindings(y *yaml.Node, loc string) (asyncapi.MessageBindings, error) {
	var b asyncapi.MessageBindings
	if y.Kind != yaml.MappingNode {
		return b, unexpected(loc, "bindings", y, "expected an object")
	}
	err := mappingPairs(y, func(proto string, v *yaml.Node) error {
		at := asyncapi.Child(loc, proto)
		if proto == "kafka" && v.Kind == yaml.MappingNode {
			k := &asyncapi.KafkaMessageBinding{}
			if bv := findNode(v, "bindingVersion"); bv != nil {
				k.BindingVersion = bv.Value
			}
			if key := findNode(v, "key"); key != nil && !isNull(key) {
				var err error
				if k.Key, err = d.schemaNode(key, asyncapi.Child(at, "key")); err != nil {
					return err
				}
			}
			b.Kafka = k
			return nil
		}
		raw, err := decodeAny(v)
		if err != nil {
			return unexpected(at, "bindings", v, err.Error())
		}
		if b.Other == nil {
			b.Other = make(map[string]any)
		}
		b.Other[proto] = raw
		return nil
	})
	return b, err
}

// payloadNode decodes a schema position that may hold a multi-format
// schema object ({schemaFormat, schema}).
func (d *decoder) payloadNode(y *yaml.Node, loc string) (asyncapi.SchemaNode, error) {
	y = deAlias(y)
	format := findNode(y, "schemaFormat")
	inner := findNode(y, "schema")
	if format == nil || inner == nil || findNode(y, "$ref") != nil {
		return d.schemaNode(y, loc)
	}
	if n, ok, err := lookup[asyncapi.Schema](d, loc); ok || err != nil {
		return n, err
	}
	mf := &asyncapi.MultiFormatSchema{SchemaFormat: format.Value}
	mf.ID = d.ix.Register(loc, mf)
	var err error
	if asyncapi.ClassifySchemaFormat(mf.SchemaFormat).Interpretable() {
		mf.Schema, err = d.schemaNode(inner, asyncapi.Child(loc, "schema"))
	} else {
		mf.Raw, err = decodeAny(inner)
	}
	if err != nil {
		return nil, err
	}
	return mf, nil
}

// schemaNode decodes a schema position: a boolean schema, a reference or an
// inline schema.
func (d *decoder) schemaNode(y *yaml.Node, loc string) (asyncapi.SchemaNode, error) {
	y = deAlias(y)
	if y != nil && y.Kind == yaml.ScalarNode && y.Tag == "!!bool" {
		if n, ok, err := lookup[asyncapi.Schema](d, loc); ok || err != nil {
			return n, err
		}
		b, err := d.boolean(y, loc)
		if err != nil {
			return nil, err
		}
		d.ix.Register(loc, asyncapi.BoolSchema(b))
		return asyncapi.BoolSchema(b), nil
	}
	return decodeNode(d, y, loc, d.schema)
}

func (d *decoder) schemaList(y *yaml.Node, loc string) ([]asyncapi.SchemaNode, error) {
	if y.Kind != yaml.SequenceNode {
		return nil, unexpected(loc, "value", y, "expected an array of schemas")
	}
	out := make([]asyncapi.SchemaNode, 0, len(y.Content))
	for i, item := range y.Content {
		n, err := d.schemaNode(item, asyncapi.Child(loc, strconv.Itoa(i)))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (d *decoder) schemaMapInto(dst **asyncapi.OrderedMap[asyncapi.SchemaNode], y *yaml.Node, loc string) error {
	if y.Kind != yaml.MappingNode {
		return unexpected(loc, "value", y, "expected an object")
	}
	if *dst == nil {
		*dst = asyncapi.NewOrderedMap[asyncapi.SchemaNode]()
	}
	return mappingPairs(y, func(name string, v *yaml.Node) error {
		n, err := d.schemaNode(v, asyncapi.Child(loc, name))
		if err != nil {
			return err
		}
		(*dst).Set(name, n)
		return nil
	})
}

func (d *decoder) typeSet(y *yaml.Node, loc string) (asyncapi.TypeSet, error) {
	var (
		names []string
		list  bool
		err   error
	)
	switch y.Kind {
	case yaml.ScalarNode:
		names = []string{y.Value}
	case yaml.SequenceNode:
		list = true
		if names, err = d.stringList(y, loc); err != nil {
			return asyncapi.TypeSet{}, err
		}
	default:
		return asyncapi.TypeSet{}, unexpected(loc, "type", y, "expected a type name or a list of type names")
	}
	ts, err := asyncapi.ParseTypeSet(names, list)
	if err != nil {
		return asyncapi.TypeSet{}, &asyncapi.UnexpectedValueError{
			Location: loc, Field: "type", Value: strings.Join(names, ","), Detail: err.Error(),
		}
	}
	return ts, nil
}

func (d *decoder) dependencies(y *yaml.Node, loc string) (*asyncapi.OrderedMap[asyncapi.Dependency], error) {
	if y.Kind != yaml.MappingNode {
		return nil, unexpected(loc, "dependencies", y, "expected an object")
	}
	deps := asyncapi.NewOrderedMap[asyncapi.Dependency]()
	err := mappingPairs(y, func(name string, v *yaml.Node) error {
		at := asyncapi.Child(loc, name)
		var dep asyncapi.Dependency
		var err error
		if v.Kind == yaml.SequenceNode {
			dep.Properties, err = d.stringList(v, at)
		} else {
			dep.Schema, err = d.schemaNode(v, at)
		}
		if err != nil {
			return err
		}
		deps.Set(name, dep)
		return nil
	})
	return deps, err
}

// schema decodes the facets of an inline schema object. Unknown keywords
// are ignored; x- keywords are kept as extensions.
func (d *decoder) schema(y *yaml.Node, loc string) (*asyncapi.Schema, error) {
	s := &asyncapi.Schema{}
	var exclusiveMin, exclusiveMax bool
	err := mappingPairs(y, func(key string, v *yaml.Node) error {
		at := asyncapi.Child(loc, key)
		if isNull(v) && key != "default" && key != "const" {
			return nil
		}
		var err error
		switch key {
		case "type":
			s.Type, err = d.typeSet(v, at)
		case "format":
			s.Format, err = d.str(v, at)
		case "title":
			s.Title, err = d.str(v, at)
		case "description":
			s.Description, err = d.str(v, at)
		case "pattern":
			s.Pattern, err = d.str(v, at)
		case "discriminator":
			if v.Kind == yaml.MappingNode {
				if p := findNode(v, "propertyName"); p != nil {
					s.Discriminator = p.Value
				}
				return nil
			}
			s.Discriminator, err = d.str(v, at)
		case "deprecated":
			s.Deprecated, err = d.boolean(v, at)
		case "uniqueItems":
			s.UniqueItems, err = d.boolean(v, at)
		case "nullable":
			s.Nullable, err = d.boolPtr(v, at)
		case "readOnly":
			s.ReadOnly, err = d.boolPtr(v, at)
		case "writeOnly":
			s.WriteOnly, err = d.boolPtr(v, at)
		case "default":
			s.Default, err = decodeAny(v)
		case "const":
			s.Const, err = decodeAny(v)
		case "enum":
			s.Enum, err = d.values(v, at)
		case "examples":
			s.Examples, err = d.values(v, at)
		case "multipleOf":
			s.MultipleOf, err = d.float(v, at)
		case "minimum":
			s.Minimum, err = d.float(v, at)
		case "maximum":
			s.Maximum, err = d.float(v, at)
		case "exclusiveMinimum":
			if v.Tag == "!!bool" {
				exclusiveMin, err = d.boolean(v, at)
			} else {
				s.ExclusiveMinimum, err = d.float(v, at)
			}
		case "exclusiveMaximum":
			if v.Tag == "!!bool" {
				exclusiveMax, err = d.boolean(v, at)
			} else {
				s.ExclusiveMaximum, err = d.float(v, at)
			}
		case "minLength":
			s.MinLength, err = d.integer(v, at)
		case "maxLength":
			s.MaxLength, err = d.integer(v, at)
		case "minItems":
			s.MinItems, err = d.integer(v, at)
		case "maxItems":
			s.MaxItems, err = d.integer(v, at)
		case "minProperties":
			s.MinProperties, err = d.integer(v, at)
		case "maxProperties":
			s.MaxProperties, err = d.integer(v, at)
		case "required":
			s.Required, err = d.stringList(v, at)
		case "allOf":
			s.AllOf, err = d.schemaList(v, at)
		case "anyOf":
			s.AnyOf, err = d.schemaList(v, at)
		case "oneOf":
			s.OneOf, err = d.schemaList(v, at)
		case "not":
			s.Not, err = d.schemaNode(v, at)
		case "if":
			s.If, err = d.schemaNode(v, at)
		case "then":
			s.Then, err = d.schemaNode(v, at)
		case "else":
			s.Else, err = d.schemaNode(v, at)
		case "properties":
			err = d.schemaMapInto(&s.Properties, v, at)
		case "patternProperties":
			err = d.schemaMapInto(&s.PatternProperties, v, at)
		case "definitions", "$defs":
			err = d.schemaMapInto(&s.Definitions, v, at)
		case "additionalProperties":
			s.AdditionalProperties, err = d.schemaNode(v, at)
		case "propertyNames":
			s.PropertyNames, err = d.schemaNode(v, at)
		case "items":
			if v.Kind == yaml.SequenceNode {
				return unexpected(at, "items", v, "tuple validation is not supported")
			}
			s.Items, err = d.schemaNode(v, at)
		case "additionalItems":
			s.AdditionalItems, err = d.schemaNode(v, at)
		case "dependencies":
			s.Dependencies, err = d.dependencies(v, at)
		default:
			if strings.HasPrefix(key, "x-") {
				var ext any
				if ext, err = decodeAny(v); err == nil {
					if s.Extensions == nil {
						s.Extensions = make(map[string]any)
					}
					s.Extensions[key] = ext
				}
			}
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if exclusiveMin && s.Minimum != nil {
		v := *s.Minimum
		s.ExclusiveMinimum = &v
	}
	if exclusiveMax && s.Maximum != nil {
		v := *s.Maximum
		s.ExclusiveMaximum = &v
	}
	return s, nil
}
