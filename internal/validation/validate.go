package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/eventforge/asyncgen/internal/asyncapi"
	"github.com/go-playground/validator/v10"
)

var addressParam = regexp.MustCompile(`\{([^{}]+)\}`)

// operationView carries the validated fields of an operation.
type operationView struct {
	Action string `validate:"oneof=send receive"`
}

// Validator runs structural checks over a bundled document.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator.
func New() *Validator {
	return &Validator{v: validator.New()}
}

// Validate checks doc. Unresolved references are reported by the resolver
// and are skipped here.
func (v *Validator) Validate(doc *asyncapi.Document) *Result {
	r := &Result{Errors: []*Message{}, Warnings: []*Message{}}

	v.version(r, doc.AsyncAPI)
	r.structErrors("Info", v.v.Struct(doc.Info))
	for name, s := range doc.Servers.All() {
		r.structErrors(fmt.Sprintf("Server '%s'", name), v.v.Struct(s))
	}

	for name, n := range doc.Channels.All() {
		if ch, _, ok := asyncapi.Deref(n); ok {
			v.channel(r, fmt.Sprintf("Channel '%s'", name), ch)
		}
	}
	for name, n := range doc.Operations.All() {
		if op, _, ok := asyncapi.Deref(n); ok {
			v.operation(r, fmt.Sprintf("Operation '%s'", name), op)
		}
	}
	return r
}

func (v *Validator) version(r *Result, version string) {
	switch {
	case version == "":
		r.errorf("", "add `asyncapi: 3.0.0` at the document root", "asyncapi version is required")
	case !strings.HasPrefix(version, "3."):
		r.errorf("", "only AsyncAPI 3.x documents are supported", "unsupported asyncapi version %q", version)
	}
}

func (v *Validator) channel(r *Result, ctx string, ch *asyncapi.Channel) {
	declared := make(map[string]bool)
	if ch.Address != nil {
		for _, m := range addressParam.FindAllStringSubmatch(*ch.Address, -1) {
			declared[m[1]] = true
			if !ch.Parameters.Has(m[1]) {
				r.errorf(ctx, fmt.Sprintf("declare parameters.%s on the channel", m[1]),
					"address parameter %q has no matching parameter", m[1])
			}
		}
	}
	for name := range ch.Parameters.All() {
		if !declared[name] {
			r.warnf(ctx, "", "parameter %q is not used in the address", name)
		}
	}

	if ch.Messages.Len() == 0 {
		r.warnf(ctx, "", "channel declares no messages")
	}
	for key, n := range ch.Messages.All() {
		m, _, ok := asyncapi.Deref(n)
		if !ok {
			continue
		}
		mctx := fmt.Sprintf("%s Message '%s'", ctx, key)
		if m.Payload == nil {
			r.warnf(mctx, "no payload type will be generated", "message has no payload")
		}
		if h := asyncapi.DerefSchema(m.Headers); h != nil && !h.Type.IsZero() && !h.Type.Is(asyncapi.TypeObject) {
			r.errorf(mctx+" Headers", "", "headers must be an object schema, got %s", h.Type)
		}
	}
}

func (v *Validator) operation(r *Result, ctx string, op *asyncapi.Operation) {
	r.structErrors(ctx, v.v.Struct(operationView{Action: string(op.Action)}))

	ch, _, ok := asyncapi.Deref(op.Channel)
	if !ok {
		r.errorf(ctx, "", "operation has no channel")
		return
	}
	allowed := make(map[asyncapi.NodeID]bool)
	for _, n := range ch.Messages.All() {
		if _, id, ok := asyncapi.Deref(n); ok {
			allowed[id] = true
		}
	}
	for i, n := range op.Messages {
		_, id, ok := asyncapi.Deref(n)
		if !ok {
			continue
		}
		if !allowed[id] {
			r.errorf(fmt.Sprintf("%s Message #%d", ctx, i), "reference a message under the operation's channel",
				"message is not declared on the operation's channel")
		}
	}
}
