package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/roach88/flatkey/internal/doc"
)

// decodeYAML parses all documents in a YAML stream. Decoding goes through
// *yaml.Node rather than map[string]any so mapping key order survives -
// the resolver's ordering contract depends on it.
func decodeYAML(path string, data []byte) ([]doc.Value, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var trees []doc.Value
	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &LoadError{Code: ErrCodeSyntax, Path: path, Message: fmt.Sprintf("invalid YAML: %v", err), Err: err}
		}
		if node.Kind == 0 {
			// Empty document (comments only)
			continue
		}
		tree, err := fromYAMLNode(&node)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeSyntax, Path: path, Message: err.Error(), Err: err}
		}
		trees = append(trees, tree)
	}
	return trees, nil
}

// fromYAMLNode converts a parsed YAML node into a doc.Value.
func fromYAMLNode(node *yaml.Node) (doc.Value, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return doc.Null{}, nil
		}
		return fromYAMLNode(node.Content[0])

	case yaml.AliasNode:
		return fromYAMLNode(node.Alias)

	case yaml.MappingNode:
		m := doc.NewMapping()
		// Content holds alternating key/value nodes. A duplicated key
		// keeps its first position but takes the last value.
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valNode := node.Content[i], node.Content[i+1]
			var key string
			if err := keyNode.Decode(&key); err != nil {
				return nil, fmt.Errorf("line %d: mapping key: %w", keyNode.Line, err)
			}
			val, err := fromYAMLNode(valNode)
			if err != nil {
				return nil, err
			}
			m.Set(key, val)
		}
		return m, nil

	case yaml.SequenceNode:
		seq := make(doc.Sequence, 0, len(node.Content))
		for _, elem := range node.Content {
			v, err := fromYAMLNode(elem)
			if err != nil {
				return nil, err
			}
			seq = append(seq, v)
		}
		return seq, nil

	case yaml.ScalarNode:
		return fromYAMLScalar(node)

	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", node.Line, node.Kind)
	}
}

func fromYAMLScalar(node *yaml.Node) (doc.Value, error) {
	switch node.Tag {
	case "!!null":
		return doc.Null{}, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, fmt.Errorf("line %d: boolean scalar: %w", node.Line, err)
		}
		return doc.Bool(b), nil
	case "!!int":
		var n int64
		if err := node.Decode(&n); err != nil {
			return nil, fmt.Errorf("line %d: integer scalar: %w", node.Line, err)
		}
		return doc.Int(n), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, fmt.Errorf("line %d: float scalar: %w", node.Line, err)
		}
		return doc.Float(f), nil
	default:
		// !!str, !!timestamp, and anything explicitly tagged stays a string
		return doc.String(node.Value), nil
	}
}
