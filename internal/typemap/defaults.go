package typemap

import (
	"fmt"
	"strconv"

	"github.com/eventforge/asyncgen/internal/asyncapi"
	"github.com/eventforge/asyncgen/internal/naming"
	json "github.com/goccy/go-json"
)

// DefaultValue renders the default of s as a literal for a field of type t.
// The boolean is false when the field gets no initializer. A field without a
// declared default is initialized to the null literal only when the caller
// has established it is nullable.
func (e *Engine) DefaultValue(s *asyncapi.Schema, t TypeRef, nullable bool) (string, bool, error) {
	if s == nil || s.Default == nil {
		if nullable {
			return e.Target.Null, true, nil
		}
		return "", false, nil
	}

	v := s.Default
	switch t.Kind {
	case KindEnum:
		return t.Name + "." + naming.EnumMember(v), true, nil
	case KindString:
		return strconv.Quote(fmt.Sprint(v)), true, nil
	}

	switch v.(type) {
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(v), true, nil
	case string:
		return strconv.Quote(v.(string)), true, nil
	}

	// Structured defaults are rendered as JSON.
	b, err := json.Marshal(v)
	if err != nil {
		return "", false, fmt.Errorf("rendering default %v: %w", v, err)
	}
	return string(b), true, nil
}
