package asyncapi

// Action is the direction of an operation from the application's view.
type Action string

const (
	ActionSend    Action = "send"
	ActionReceive Action = "receive"
)

// Document is a parsed, possibly bundled, AsyncAPI document.
type Document struct {
	AsyncAPI           string `validate:"required"`
	ID                 string
	Info               Info `validate:"required"`
	DefaultContentType string

	Servers    *OrderedMap[*Server]
	Channels   *OrderedMap[ChannelNode]
	Operations *OrderedMap[OperationNode]
	Components Components

	// File is the identifier of the root file.
	File string
	// Files lists every file folded into the document, root first.
	Files []string
	// Index holds every entity location loaded for this document, across files.
	Index *Index
	// Bundled is set once every reference has been resolved.
	Bundled bool
}

// Info is the document metadata block.
type Info struct {
	Title       string `validate:"required"`
	Version     string `validate:"required"`
	Description string
}

// Server describes a broker connection.
type Server struct {
	Host        string `validate:"required"`
	Protocol    string `validate:"required"`
	Pathname    string
	Description string
}

// Components holds reusable entities.
type Components struct {
	Schemas        *OrderedMap[SchemaNode]
	Messages       *OrderedMap[MessageNode]
	Channels       *OrderedMap[ChannelNode]
	Operations     *OrderedMap[OperationNode]
	MessageTraits  *OrderedMap[MessageTraitNode]
	Replies        *OrderedMap[OperationReplyNode]
	ReplyAddresses *OrderedMap[OperationReplyAddressNode]
	Parameters     *OrderedMap[ParameterNode]
}

// Channel is an addressable destination messages flow through.
type Channel struct {
	// Address is nil when not declared (dynamic or unknown address).
	Address     *string
	Title       string
	Summary     string
	Description string
	Messages    *OrderedMap[MessageNode]
	Parameters  *OrderedMap[ParameterNode]
	Bindings    map[string]any
}

// Parameter describes a channel address expression.
type Parameter struct {
	Enum        []string
	Default     string
	Description string
	Location    string
}

// Operation binds an action to a channel.
type Operation struct {
	Action      Action
	Channel     ChannelNode
	Title       string
	Summary     string
	Description string
	Messages    []MessageNode
	Reply       OperationReplyNode
	Bindings    map[string]any
}

// OperationReply describes the response of a request/reply operation.
type OperationReply struct {
	Address  OperationReplyAddressNode
	Channel  ChannelNode
	Messages []MessageNode
}

// OperationReplyAddress is a runtime expression locating the reply address.
type OperationReplyAddress struct {
	Location    string
	Description string
}

// Message is one message that may travel over a channel.
type Message struct {
	Name          string
	Title         string
	Summary       string
	Description   string
	ContentType   string
	Payload       SchemaNode
	Headers       SchemaNode
	CorrelationID string
	Traits        []MessageTraitNode
	Bindings      MessageBindings
}

// MessageTrait holds fields merged into a message that lists it.
type MessageTrait struct {
	Name        string
	Title       string
	Summary     string
	Description string
	ContentType string
	Headers     SchemaNode
	Bindings    MessageBindings
}

// MessageBindings carries protocol-specific message information. Only the
// Kafka key schema is modelled; other bindings are kept undecoded.
type MessageBindings struct {
	Kafka *KafkaMessageBinding
	Other map[string]any
}

// KafkaMessageBinding is the `bindings.kafka` block of a message.
type KafkaMessageBinding struct {
	Key            SchemaNode
	BindingVersion string
}
