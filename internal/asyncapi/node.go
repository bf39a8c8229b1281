package asyncapi

// NodeID is a stable handle for an entity declared at a canonical location
// (file plus JSON pointer). IDs are assigned by an Index; zero means "not
// indexed" and is used for references synthesized after loading.
type NodeID int

// Node is the closed sum type used everywhere an entity may be declared
// inline or referenced. The variants are *Inline[T] and *Reference[T]; for
// schemas BoolSchema and *MultiFormatSchema are also admitted.
type Node[T any] interface {
	isNode(*T)
}

// Inline is an entity declared in place.
type Inline[T any] struct {
	Value *T
	ID    NodeID
}

func (*Inline[T]) isNode(*T) {}

// Reference points at an entity declared elsewhere.
type Reference[T any] struct {
	// Pointer is the reference text as written ("#/components/schemas/User",
	// "common.yaml#/Address").
	Pointer string
	// Location is Pointer made absolute against the declaring file.
	Location string

	// Target is the concrete (non-reference) node the pointer resolves to.
	Target Node[T]
	// Model is set when Target is an inline entity.
	Model *T
	// ID is the NodeID of the concrete target.
	ID NodeID
	// Inlined reports whether the target was materialized during bundling.
	Inlined bool
}

func (*Reference[T]) isNode(*T) {}

// Resolved reports whether the reference carries a concrete target.
func (r *Reference[T]) Resolved() bool {
	return r != nil && r.Target != nil
}

// Bind materializes the reference onto a concrete target.
func (r *Reference[T]) Bind(target Node[T], id NodeID) {
	r.Target = target
	r.ID = id
	r.Inlined = true
	if in, ok := target.(*Inline[T]); ok {
		r.Model = in.Value
	}
}

// BoolSchema is `true` (anything validates) or `false` (nothing validates).
type BoolSchema bool

func (BoolSchema) isNode(*Schema) {}

// MultiFormatSchema wraps a payload declared with an explicit schemaFormat.
// Schema is populated when the format is a JSON-Schema compatible dialect;
// Raw holds the undecoded payload otherwise.
type MultiFormatSchema struct {
	SchemaFormat string
	Schema       SchemaNode
	Raw          any
	ID           NodeID
}

func (*MultiFormatSchema) isNode(*Schema) {}

// SchemaNode is a node in the schema graph.
type SchemaNode = Node[Schema]

// ChannelNode, OperationNode, MessageNode and friends are the tagged unions
// used in the document tree.
type (
	ChannelNode               = Node[Channel]
	OperationNode             = Node[Operation]
	MessageNode               = Node[Message]
	MessageTraitNode          = Node[MessageTrait]
	OperationReplyNode        = Node[OperationReply]
	OperationReplyAddressNode = Node[OperationReplyAddress]
	ParameterNode             = Node[Parameter]
)

// Deref returns the model behind a node and its identity. The boolean is
// false when the node is nil, an unresolved reference, or a variant with no
// model (boolean schema, opaque multi-format payload).
func Deref[T any](n Node[T]) (*T, NodeID, bool) {
	switch v := n.(type) {
	case nil:
		return nil, 0, false
	case *Inline[T]:
		return v.Value, v.ID, v.Value != nil
	case *Reference[T]:
		if v.Model == nil {
			return nil, v.ID, false
		}
		return v.Model, v.ID, true
	default:
		if mf, ok := any(n).(*MultiFormatSchema); ok && mf.Schema != nil {
			s, id, ok := Deref(mf.Schema)
			return any(s).(*T), id, ok
		}
		return nil, 0, false
	}
}

// DerefSchema is Deref specialised for schema nodes.
func DerefSchema(n SchemaNode) *Schema {
	s, _, _ := Deref(n)
	return s
}

// Identity returns the NodeID of the concrete entity behind n.
func Identity[T any](n Node[T]) NodeID {
	switch v := any(n).(type) {
	case *Inline[T]:
		return v.ID
	case *Reference[T]:
		return v.ID
	case *MultiFormatSchema:
		return v.ID
	default:
		return 0
	}
}

// NewInlineSchema wraps s as an inline schema node.
func NewInlineSchema(s *Schema) *Inline[Schema] {
	return &Inline[Schema]{Value: s}
}

// NewSchemaRef returns a reference already bound to s.
func NewSchemaRef(pointer string, s *Schema) *Reference[Schema] {
	r := &Reference[Schema]{Pointer: pointer, Location: pointer}
	r.Bind(&Inline[Schema]{Value: s}, 0)
	return r
}
