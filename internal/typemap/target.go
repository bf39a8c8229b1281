package typemap

import (
	"fmt"
	"sort"
	"strings"
)

// Target is the vocabulary of type names the engine renders into. Array and
// Map are format strings taking the element type name.
type Target struct {
	String    string `koanf:"string"`
	UUID      string `koanf:"uuid"`
	Timestamp string `koanf:"timestamp"`
	Date      string `koanf:"date"`
	Time      string `koanf:"time"`
	Int32     string `koanf:"int32"`
	Int64     string `koanf:"int64"`
	Float32   string `koanf:"float32"`
	Float64   string `koanf:"float64"`
	Decimal   string `koanf:"decimal"`
	Bool      string `koanf:"bool"`
	Any       string `koanf:"any"`
	Array     string `koanf:"array"`
	Map       string `koanf:"map"`
	Null      string `koanf:"null"`
}

// DefaultTarget returns a Go-flavoured vocabulary.
func DefaultTarget() Target {
	return Target{
		String:    "string",
		UUID:      "uuid.UUID",
		Timestamp: "time.Time",
		Date:      "civil.Date",
		Time:      "civil.Time",
		Int32:     "int32",
		Int64:     "int64",
		Float32:   "float32",
		Float64:   "float64",
		Decimal:   "decimal.Decimal",
		Bool:      "bool",
		Any:       "any",
		Array:     "[]%s",
		Map:       "map[string]%s",
		Null:      "nil",
	}
}

func (t *Target) fields() map[string]*string {
	return map[string]*string{
		"string":    &t.String,
		"uuid":      &t.UUID,
		"timestamp": &t.Timestamp,
		"date":      &t.Date,
		"time":      &t.Time,
		"int32":     &t.Int32,
		"int64":     &t.Int64,
		"float32":   &t.Float32,
		"float64":   &t.Float64,
		"decimal":   &t.Decimal,
		"bool":      &t.Bool,
		"any":       &t.Any,
		"array":     &t.Array,
		"map":       &t.Map,
		"null":      &t.Null,
	}
}

// TargetKeys lists the names accepted by WithOverrides, sorted.
func TargetKeys() []string {
	var t Target
	keys := make([]string, 0, 15)
	for k := range t.fields() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// WithOverrides returns a copy of t with the named entries replaced. Empty
// values are ignored. Array and Map overrides must contain exactly one %s.
func (t Target) WithOverrides(overrides map[string]string) (Target, error) {
	fields := t.fields()
	for key, v := range overrides {
		if v == "" {
			continue
		}
		f, ok := fields[strings.ToLower(key)]
		if !ok {
			return t, fmt.Errorf("unknown target type %q (valid: %s)", key, strings.Join(TargetKeys(), ", "))
		}
		if (f == &t.Array || f == &t.Map) && strings.Count(v, "%s") != 1 {
			return t, fmt.Errorf("target type %q must contain exactly one %%s, got %q", key, v)
		}
		*f = v
	}
	return t, nil
}
