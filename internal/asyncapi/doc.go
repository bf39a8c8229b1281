// Package asyncapi defines the document model shared by every stage of the
// generator: the AsyncAPI document tree, JSON-Schema-like schemas, the
// inline-or-reference node unions, the location index and the error taxonomy.
//
// Nodes are closed sum types. A consumer switches over the variants:
//
//	switch n := node.(type) {
//	case *asyncapi.Inline[asyncapi.Schema]:
//	case *asyncapi.Reference[asyncapi.Schema]:
//	case asyncapi.BoolSchema:
//	case *asyncapi.MultiFormatSchema:
//	}
package asyncapi
