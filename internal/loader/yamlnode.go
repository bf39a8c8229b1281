package loader

import (
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// parseYAMLReader parses YAML (or JSON) from a reader and returns the root
// content node.
func parseYAMLReader(r io.Reader) (*yaml.Node, error) {
	var node yaml.Node
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&node); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("file is empty or contains only comments")
		}
		return nil, err
	}
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil, fmt.Errorf("file is empty or contains only comments")
		}
		return node.Content[0], nil
	}
	return &node, nil
}

// deAlias follows alias nodes to their anchors.
func deAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

// findNode finds a value by key in a mapping node.
func findNode(root *yaml.Node, key string) *yaml.Node {
	root = deAlias(root)
	if root == nil || root.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == key {
			return deAlias(root.Content[i+1])
		}
	}
	return nil
}

// mappingPairs calls fn for every key/value pair of a mapping node.
func mappingPairs(n *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	n = deAlias(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := fn(n.Content[i].Value, deAlias(n.Content[i+1])); err != nil {
			return err
		}
	}
	return nil
}

// navigate walks a JSON pointer's tokens down from root. It returns nil when
// a token has no match.
func navigate(root *yaml.Node, tokens []string) *yaml.Node {
	cur := deAlias(root)
	for _, tok := range tokens {
		if cur == nil {
			return nil
		}
		switch cur.Kind {
		case yaml.MappingNode:
			cur = findNode(cur, tok)
		case yaml.SequenceNode:
			i, err := strconv.Atoi(tok)
			if err != nil || i < 0 || i >= len(cur.Content) {
				return nil
			}
			cur = deAlias(cur.Content[i])
		default:
			return nil
		}
	}
	return cur
}

// isNull reports whether a node is an explicit YAML null.
func isNull(n *yaml.Node) bool {
	n = deAlias(n)
	return n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

// nodeKindToString converts a yaml.Kind to a human-readable string.
func nodeKindToString(kind yaml.Kind) string {
	switch kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "array"
	case yaml.MappingNode:
		return "object"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}

// decodeAny decodes a node into plain Go values (map[string]any, []any,
// scalars).
func decodeAny(n *yaml.Node) (any, error) {
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
