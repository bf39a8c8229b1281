package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Source fetches the raw bytes of a file by identifier. Identifiers are
// slash-separated paths relative to the root of the source.
type Source interface {
	Fetch(ctx context.Context, file string) ([]byte, error)
}

// DirSource reads files below a directory.
type DirSource struct {
	Root string
}

// Fetch implements Source.
func (s DirSource) Fetch(ctx context.Context, file string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := filepath.FromSlash(file)
	if !filepath.IsAbs(p) {
		p = filepath.Join(s.Root, p)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}
	return data, nil
}

// MapSource serves files from memory. It is used by tests and by callers
// that already hold the document text.
type MapSource map[string]string

// Fetch implements Source.
func (s MapSource) Fetch(ctx context.Context, file string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, ok := s[file]
	if !ok {
		return nil, fmt.Errorf("reading %s: %w", file, os.ErrNotExist)
	}
	return []byte(data), nil
}
