// Package resolver bundles an AsyncAPI document: it loads the root file and
// every file reachable through references, and binds each reference to the
// concrete entity it points at. After Bundle returns, every Reference in the
// document carries its Model and NodeID and has Inlined set.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/eventforge/asyncgen/internal/asyncapi"
	"github.com/eventforge/asyncgen/internal/loader"
)

// Resolver bundles documents read from one Source.
type Resolver struct {
	src      loader.Source
	logger   *slog.Logger
	maxFiles int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger. A nil logger keeps slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMaxFiles bounds the number of files a document may span.
func WithMaxFiles(n int) Option {
	return func(r *Resolver) {
		r.maxFiles = n
	}
}

// New creates a Resolver reading files from src.
func New(src loader.Source, opts ...Option) *Resolver {
	r := &Resolver{
		src:      src,
		logger:   slog.Default(),
		maxFiles: loader.DefaultMaxFiles,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Bundle loads root and resolves every reference reachable from it.
func (r *Resolver) Bundle(ctx context.Context, root string) (*asyncapi.Document, error) {
	l := loader.New(r.src, loader.WithMaxFiles(r.maxFiles))
	doc, err := l.LoadDocument(ctx, root)
	if err != nil {
		return nil, err
	}

	b := &bundler{
		ctx:     ctx,
		loader:  l,
		entered: make(map[asyncapi.NodeID]bool),
	}
	if err := b.document(doc); err != nil {
		return nil, err
	}

	doc.Files = l.Files()
	doc.Bundled = true
	r.logger.Debug("Bundled document",
		"root", root,
		"files", len(doc.Files),
		"nodes", l.Index().Len(),
		"references", b.references)
	return doc, nil
}

// bundler holds the state of one Bundle traversal. entered records the
// concrete entities already walked, so a schema that re-enters its own
// ancestry closes the cycle instead of being walked again.
type bundler struct {
	ctx        context.Context
	loader     *loader.Loader
	entered    map[asyncapi.NodeID]bool
	references int
}

// enter reports whether id is walked for the first time.
func (b *bundler) enter(id asyncapi.NodeID) bool {
	if id == 0 {
		return true
	}
	if b.entered[id] {
		return false
	}
	b.entered[id] = true
	return true
}

// bind follows a reference chain to its concrete entity and binds every
// reference on the chain to it. A chain that loops without reaching an
// entity is unresolvable.
func bind[T any](b *bundler, ref *asyncapi.Reference[T], where string) error {
	if ref.Resolved() {
		return nil
	}
	chain := []*asyncapi.Reference[T]{ref}
	hops := make(map[asyncapi.NodeID]bool)
	cur := ref
	for {
		target, id, err := loader.Resolve[T](b.ctx, b.loader, cur.Location)
		if err != nil {
			return unresolved(ref, where, err)
		}
		if hops[id] {
			return &asyncapi.UnresolvedReferenceError{
				Pointer:  ref.Pointer,
				Location: ref.Location,
				Context:  where,
				Reason:   "reference cycle",
			}
		}
		hops[id] = true

		next, isRef := target.(*asyncapi.Reference[T])
		switch {
		case !isRef:
		case next.Resolved():
			target, id = next.Target, next.ID
		default:
			chain = append(chain, next)
			cur = next
			continue
		}
		for _, r := range chain {
			r.Bind(target, id)
		}
		b.references += len(chain)
		return nil
	}
}

func unresolved[T any](ref *asyncapi.Reference[T], where string, err error) error {
	if errors.Is(err, loader.ErrNoTarget) || errors.Is(err, fs.ErrNotExist) {
		reason := "target not found"
		if !errors.Is(err, loader.ErrNoTarget) {
			reason = err.Error()
		}
		return &asyncapi.UnresolvedReferenceError{
			Pointer:  ref.Pointer,
			Location: ref.Location,
			Context:  where,
			Reason:   reason,
		}
	}
	return fmt.Errorf("%s: resolving %q: %w", where, ref.Pointer, err)
}

// concrete binds n if it is a reference and returns the entity behind it.
func concrete[T any](b *bundler, n asyncapi.Node[T], where string) (*T, asyncapi.NodeID, error) {
	if ref, ok := n.(*asyncapi.Reference[T]); ok {
		if err := bind(b, ref, where); err != nil {
			return nil, 0, err
		}
	}
	v, id, _ := asyncapi.Deref(n)
	return v, id, nil
}

func (b *bundler) document(doc *asyncapi.Document) error {
	for name, ch := range doc.Channels.All() {
		if err := b.channel(ch, fmt.Sprintf("Channel '%s'", name)); err != nil {
			return err
		}
	}
	for name, op := range doc.Operations.All() {
		if err := b.operation(op, fmt.Sprintf("Operation '%s'", name)); err != nil {
			return err
		}
	}

	c := doc.Components
	for name, s := range c.Schemas.All() {
		if err := b.schema(s, fmt.Sprintf("Schema '%s'", name)); err != nil {
			return err
		}
	}
	for name, m := range c.Messages.All() {
		if err := b.message(m, fmt.Sprintf("Message '%s'", name)); err != nil {
			return err
		}
	}
	for name, ch := range c.Channels.All() {
		if err := b.channel(ch, fmt.Sprintf("Channel '%s'", name)); err != nil {
			return err
		}
	}
	for name, op := range c.Operations.All() {
		if err := b.operation(op, fmt.Sprintf("Operation '%s'", name)); err != nil {
			return err
		}
	}
	for name, t := range c.MessageTraits.All() {
		if err := b.trait(t, fmt.Sprintf("Message Trait '%s'", name)); err != nil {
			return err
		}
	}
	for name, rep := range c.Replies.All() {
		if err := b.reply(rep, fmt.Sprintf("Reply '%s'", name)); err != nil {
			return err
		}
	}
	for name, a := range c.ReplyAddresses.All() {
		if _, _, err := concrete(b, a, fmt.Sprintf("Reply Address '%s'", name)); err != nil {
			return err
		}
	}
	for name, p := range c.Parameters.All() {
		if _, _, err := concrete(b, p, fmt.Sprintf("Parameter '%s'", name)); err != nil {
			return err
		}
	}
	return nil
}

func (b *bundler) channel(n asyncapi.ChannelNode, where string) error {
	ch, id, err := concrete(b, n, where)
	if err != nil || ch == nil || !b.enter(id) {
		return err
	}
	for name, m := range ch.Messages.All() {
		if err := b.message(m, fmt.Sprintf("%s Message '%s'", where, name)); err != nil {
			return err
		}
	}
	for name, p := range ch.Parameters.All() {
		if _, _, err := concrete(b, p, fmt.Sprintf("%s Parameter '%s'", where, name)); err != nil {
			return err
		}
	}
	return nil
}

func (b *bundler) operation(n asyncapi.OperationNode, where string) error {
	op, id, err := concrete(b, n, where)
	if err != nil || op == nil || !b.enter(id) {
		return err
	}
	if op.Channel == nil {
		return &asyncapi.UnexpectedValueError{
			Location: b.loader.Index().Location(id),
			Field:    "channel",
			Value:    "<missing>",
			Detail:   where + " declares no channel",
		}
	}
	if err := b.channel(op.Channel, where+" Channel"); err != nil {
		return err
	}
	for i, m := range op.Messages {
		if err := b.message(m, fmt.Sprintf("%s Message #%d", where, i)); err != nil {
			return err
		}
	}
	if op.Reply != nil {
		return b.reply(op.Reply, where+" Reply")
	}
	return nil
}

func (b *bundler) reply(n asyncapi.OperationReplyNode, where string) error {
	rep, id, err := concrete(b, n, where)
	if err != nil || rep == nil || !b.enter(id) {
		return err
	}
	if rep.Address != nil {
		if _, _, err := concrete(b, rep.Address, where+" Address"); err != nil {
			return err
		}
	}
	if rep.Channel != nil {
		if err := b.channel(rep.Channel, where+" Channel"); err != nil {
			return err
		}
	}
	for i, m := range rep.Messages {
		if err := b.message(m, fmt.Sprintf("%s Message #%d", where, i)); err != nil {
			return err
		}
	}
	return nil
}

func (b *bundler) message(n asyncapi.MessageNode, where string) error {
	m, id, err := concrete(b, n, where)
	if err != nil || m == nil || !b.enter(id) {
		return err
	}
	if err := b.schema(m.Payload, where+" Payload"); err != nil {
		return err
	}
	if err := b.schema(m.Headers, where+" Headers"); err != nil {
		return err
	}
	if k := m.Bindings.Kafka; k != nil {
		if err := b.schema(k.Key, where+" Kafka Key"); err != nil {
			return err
		}
	}
	for i, t := range m.Traits {
		if err := b.trait(t, fmt.Sprintf("%s Trait #%d", where, i)); err != nil {
			return err
		}
	}
	return nil
}

func (b *bundler) trait(n asyncapi.MessageTraitNode, where string) error {
	t, id, err := concrete(b, n, where)
	if err != nil || t == nil || !b.enter(id) {
		return err
	}
	if err := b.schema(t.Headers, where+" Headers"); err != nil {
		return err
	}
	if k := t.Bindings.Kafka; k != nil {
		return b.schema(k.Key, where+" Kafka Key")
	}
	return nil
}

// schema walks a schema graph depth first. Entities already entered close
// the walk, which bounds it on recursive schemas.
func (b *bundler) schema(n asyncapi.SchemaNode, where string) error {
	switch v := n.(type) {
	case nil, asyncapi.BoolSchema:
		return nil
	case *asyncapi.Reference[asyncapi.Schema]:
		if err := bind(b, v, where); err != nil {
			return err
		}
		return b.schema(v.Target, where)
	case *asyncapi.MultiFormatSchema:
		if !b.enter(v.ID) {
			return nil
		}
		switch asyncapi.ClassifySchemaFormat(v.SchemaFormat) {
		case asyncapi.FormatUnsupported:
			return &asyncapi.UnsupportedSchemaFormatError{Format: v.SchemaFormat, Context: where}
		case asyncapi.FormatUnknown:
			return &asyncapi.UnexpectedValueError{
				Location: b.loader.Index().Location(v.ID),
				Field:    "schemaFormat",
				Value:    v.SchemaFormat,
				Detail:   where,
			}
		}
		return b.schema(v.Schema, where)
	case *asyncapi.Inline[asyncapi.Schema]:
		if !b.enter(v.ID) {
			return nil
		}
		var err error
		v.Value.Children(func(facet string, child asyncapi.SchemaNode) {
			if err == nil {
				err = b.schema(child, where+" "+facetLabel(facet))
			}
		})
		return err
	default:
		return fmt.Errorf("%s: unexpected schema node %T", where, n)
	}
}

// facetLabel renders a child facet ("properties/id", "allOf/0") for context
// strings.
func facetLabel(facet string) string {
	kind, key, ok := strings.Cut(facet, "/")
	if !ok {
		return strings.ToUpper(kind[:1]) + kind[1:]
	}
	switch kind {
	case "properties":
		return fmt.Sprintf("Property '%s'", key)
	case "patternProperties":
		return fmt.Sprintf("Pattern Property '%s'", key)
	case "definitions":
		return fmt.Sprintf("Definition '%s'", key)
	case "dependencies":
		return fmt.Sprintf("Dependency '%s'", key)
	default:
		return fmt.Sprintf("%s%s #%s", strings.ToUpper(kind[:1]), kind[1:], key)
	}
}
