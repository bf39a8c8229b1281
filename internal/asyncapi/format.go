package asyncapi

import "strings"

// FormatClass groups schemaFormat strings by how the core treats them.
type FormatClass int

const (
	// FormatUnknown is a format string outside the known vocabulary.
	FormatUnknown FormatClass = iota
	// FormatAsyncAPI is the default AsyncAPI schema dialect.
	FormatAsyncAPI
	// FormatJSONSchema is plain JSON Schema (draft-07).
	FormatJSONSchema
	// FormatUnsupported is a recognized dialect the core does not interpret.
	FormatUnsupported
)

func (c FormatClass) String() string {
	switch c {
	case FormatAsyncAPI:
		return "asyncapi"
	case FormatJSONSchema:
		return "jsonschema"
	case FormatUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Interpretable reports whether payloads in this class decode as Schema.
func (c FormatClass) Interpretable() bool {
	return c == FormatAsyncAPI || c == FormatJSONSchema
}

var unsupportedFormatPrefixes = []string{
	"application/vnd.apache.avro",
	"application/vnd.oai.openapi",
	"application/raml+yaml",
	"application/vnd.google.protobuf",
}

// ClassifySchemaFormat maps a schemaFormat string to its class. The empty
// string is the default dialect.
func ClassifySchemaFormat(format string) FormatClass {
	f := strings.ToLower(strings.TrimSpace(format))
	if f == "" {
		return FormatAsyncAPI
	}
	mediaType, params, _ := strings.Cut(f, ";")
	mediaType = strings.TrimSpace(mediaType)
	switch mediaType {
	case "application/vnd.aai.asyncapi", "application/vnd.aai.asyncapi+json", "application/vnd.aai.asyncapi+yaml":
		if hasVersion(params) {
			return FormatAsyncAPI
		}
		return FormatUnknown
	case "application/schema+json", "application/schema+yaml":
		if strings.Contains(params, "version=draft-07") {
			return FormatJSONSchema
		}
		return FormatUnsupported
	}
	for _, p := range unsupportedFormatPrefixes {
		if strings.HasPrefix(mediaType, p) {
			return FormatUnsupported
		}
	}
	return FormatUnknown
}

func hasVersion(params string) bool {
	for _, p := range strings.Split(params, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(p), "=")
		if ok && k == "version" && v != "" {
			return true
		}
	}
	return false
}
