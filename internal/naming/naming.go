// Package naming derives canonical identifiers from document names: type
// names for schemas and member names for enum values.
package naming

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/eventforge/asyncgen/internal/asyncapi"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TypeName converts a name into the canonical type-name casing: words split
// on any non-alphanumeric rune, each word's first letter upper-cased, the
// rest preserved. "order_payload" and "orderPayload" both become
// "OrderPayload". A name starting with a digit is prefixed with "N".
func TypeName(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return ""
	}
	title := cases.Title(language.Und, cases.NoLower)
	var sb strings.Builder
	for _, w := range words {
		if unicode.IsDigit([]rune(w)[0]) {
			sb.WriteString(w)
			continue
		}
		sb.WriteString(title.String(w))
	}
	out := sb.String()
	if r := []rune(out)[0]; unicode.IsDigit(r) {
		out = "N" + out
	}
	return out
}

// FromPointer derives a type name from the final segment of a reference.
func FromPointer(pointer string) string {
	return TypeName(asyncapi.RefName(pointer))
}

// EnumMember renders an enum value as a constant member name: upper-cased,
// with '-' and whitespace replaced by '_'.
func EnumMember(v any) string {
	s := cases.Upper(language.Und).String(fmt.Sprint(v))
	return strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, s)
}

// Suffixed returns name with a numeric suffix, used when disambiguating
// colliding synthetic names.
func Suffixed(name string, n int) string {
	return fmt.Sprintf("%s%d", name, n)
}
