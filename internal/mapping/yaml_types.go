package mapping

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// StringOrArray is a list of names written in YAML as a single scalar,
// a sequence, or null. Blank entries are dropped and the rest trimmed.
type StringOrArray []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	var raw []string

	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*s = nil
			return nil
		}

		raw = []string{node.Value}
	case yaml.SequenceNode:
		if err := node.Decode(&raw); err != nil {
			return err
		}
	default:
		return fmt.Errorf("line %d: expected a name or a list of names", node.Line)
	}

	out := make(StringOrArray, 0, len(raw))

	for _, v := range raw {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}

	*s = out

	return nil
}

// MarshalYAML writes a single entry as a scalar.
func (s StringOrArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}

// IsEmpty reports whether the list holds no names.
func (s StringOrArray) IsEmpty() bool {
	return len(s) == 0
}
