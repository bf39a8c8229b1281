package asyncapi

import (
	"net/url"
	"path"
	"strings"
)

// Location is "<file>#<json-pointer>". The document root of a file is
// "<file>#".
func Location(file, pointer string) string {
	return file + "#" + pointer
}

// SplitLocation returns the file and pointer parts of a location.
func SplitLocation(loc string) (file, pointer string) {
	file, pointer, _ = strings.Cut(loc, "#")
	return file, pointer
}

// Child appends an escaped token to a location or pointer.
func Child(loc string, token string) string {
	return loc + "/" + EscapeToken(token)
}

// AbsoluteLocation makes ref absolute against the file that declares it.
// Relative file parts are joined with the directory of from; URLs and
// absolute paths are kept as written.
func AbsoluteLocation(from, ref string) string {
	file, frag, _ := strings.Cut(ref, "#")
	switch {
	case file == "":
		file = from
	case strings.Contains(file, "://"), strings.HasPrefix(file, "/"):
	default:
		file = path.Clean(path.Join(path.Dir(from), file))
	}
	return Location(file, canonicalPointer(frag))
}

// canonicalPointer re-escapes a pointer token by token so that spellings
// differing only in percent encoding name the same location.
func canonicalPointer(ptr string) string {
	var sb strings.Builder
	for _, tok := range Tokens(ptr) {
		sb.WriteString("/")
		sb.WriteString(EscapeToken(tok))
	}
	return sb.String()
}

// Tokens splits a JSON pointer into unescaped reference tokens.
func Tokens(pointer string) []string {
	if pointer == "" || pointer == "/" {
		return nil
	}
	raw := strings.Split(strings.TrimPrefix(pointer, "/"), "/")
	out := make([]string, len(raw))
	for i, t := range raw {
		out[i] = UnescapeToken(t)
	}
	return out
}

// EscapeToken escapes "~" and "/" per RFC 6901.
func EscapeToken(t string) string {
	t = strings.ReplaceAll(t, "~", "~0")
	return strings.ReplaceAll(t, "/", "~1")
}

// UnescapeToken reverses EscapeToken and decodes URI percent escapes.
func UnescapeToken(t string) string {
	if u, err := url.PathUnescape(t); err == nil {
		t = u
	}
	t = strings.ReplaceAll(t, "~1", "/")
	return strings.ReplaceAll(t, "~0", "~")
}
