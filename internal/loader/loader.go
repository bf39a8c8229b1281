// Package loader is the external loader: it fetches AsyncAPI files through
// a Source, parses them with yaml.v3 and decodes the node trees into the
// asyncapi model. References are left unresolved; every decoded entity is
// registered in a shared asyncapi.Index under its canonical location.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/eventforge/asyncgen/internal/asyncapi"
	"gopkg.in/yaml.v3"
)

// DefaultMaxFiles bounds how many distinct files one document may pull in.
const DefaultMaxFiles = 256

// ErrTooManyFiles is returned when a document references more files than
// the configured limit.
var ErrTooManyFiles = errors.New("too many referenced files")

// ErrNoTarget is returned by Resolve when a pointer names no value.
var ErrNoTarget = errors.New("pointer has no target")

// File is one parsed source file.
type File struct {
	ID   string
	Root *yaml.Node
}

// Loader parses files on demand and caches them for the lifetime of one run.
type Loader struct {
	src      Source
	index    *asyncapi.Index
	files    map[string]*File
	order    []string
	maxFiles int
}

// Option configures a Loader.
type Option func(*Loader)

// WithMaxFiles sets the file limit. Zero or negative disables the limit.
func WithMaxFiles(n int) Option {
	return func(l *Loader) {
		l.maxFiles = n
	}
}

// New creates a Loader reading from src.
func New(src Source, opts ...Option) *Loader {
	l := &Loader{
		src:      src,
		index:    asyncapi.NewIndex(),
		files:    make(map[string]*File),
		maxFiles: DefaultMaxFiles,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Index returns the index shared by every file this loader decodes.
func (l *Loader) Index() *asyncapi.Index {
	return l.index
}

// Files returns the identifiers of the loaded files in load order.
func (l *Loader) Files() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// File returns the parsed file, fetching it on first use.
func (l *Loader) File(ctx context.Context, id string) (*File, error) {
	if f, ok := l.files[id]; ok {
		return f, nil
	}
	if l.maxFiles > 0 && len(l.files) >= l.maxFiles {
		return nil, fmt.Errorf("loading %s: %w (limit %d)", id, ErrTooManyFiles, l.maxFiles)
	}
	data, err := l.src.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	root, err := parseYAMLReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", id, err)
	}
	f := &File{ID: id, Root: root}
	l.files[id] = f
	l.order = append(l.order, id)
	return f, nil
}

// LoadDocument fetches and fully decodes the root document.
func (l *Loader) LoadDocument(ctx context.Context, id string) (*asyncapi.Document, error) {
	f, err := l.File(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &decoder{file: id, ix: l.index}
	return d.document(f.Root)
}

// Resolve returns the entity declared at loc, decoding it on first use.
// Decoding the same location twice yields the same node and NodeID.
func Resolve[T any](ctx context.Context, l *Loader, loc string) (asyncapi.Node[T], asyncapi.NodeID, error) {
	d := &decoder{ix: l.index}
	if n, ok, err := lookup[T](d, loc); ok || err != nil {
		id, _ := l.index.Lookup(loc)
		return n, id, err
	}
	file, ptr := asyncapi.SplitLocation(loc)
	f, err := l.File(ctx, file)
	if err != nil {
		return nil, 0, err
	}
	y := navigate(f.Root, asyncapi.Tokens(ptr))
	if y == nil {
		return nil, 0, ErrNoTarget
	}
	d.file = file
	n, err := decodeAt[T](d, y, loc)
	if err != nil {
		return nil, 0, err
	}
	id, _ := l.index.Lookup(loc)
	return n, id, nil
}

// decodeAt dispatches on the entity kind T.
func decodeAt[T any](d *decoder, y *yaml.Node, loc string) (asyncapi.Node[T], error) {
	var (
		n   any
		err error
	)
	switch any((*T)(nil)).(type) {
	case *asyncapi.Schema:
		n, err = d.payloadNode(y, loc)
	case *asyncapi.Channel:
		n, err = decodeNode(d, y, loc, d.channel)
	case *asyncapi.Operation:
		n, err = decodeNode(d, y, loc, d.operation)
	case *asyncapi.Message:
		n, err = decodeNode(d, y, loc, d.message)
	case *asyncapi.MessageTrait:
		n, err = decodeNode(d, y, loc, d.messageTrait)
	case *asyncapi.OperationReply:
		n, err = decodeNode(d, y, loc, d.reply)
	case *asyncapi.OperationReplyAddress:
		n, err = decodeNode(d, y, loc, d.replyAddress)
	case *asyncapi.Parameter:
		n, err = decodeNode(d, y, loc, d.parameter)
	default:
		return nil, fmt.Errorf("loader: no decoder for %T", (*T)(nil))
	}
	if err != nil {
		return nil, err
	}
	node, ok := n.(asyncapi.Node[T])
	if !ok {
		return nil, fmt.Errorf("loader: decoded %T at %s", n, loc)
	}
	return node, nil
}
