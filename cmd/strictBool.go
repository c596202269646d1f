package cmd

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// strictBool only accepts YAML booleans. Quoted strings, numbers and the
// YAML 1.1 spellings (yes/no/on/off) are rejected with errTypeMismatch.
type strictBool bool

func (b *strictBool) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode || value.ShortTag() != "!!bool" {
		return fmt.Errorf("%w: line %d: expected a boolean, got %q", errTypeMismatch, value.Line, value.Value)
	}
	var v bool
	if err := value.Decode(&v); err != nil {
		return err
	}
	*b = strictBool(v)
	return nil
}
