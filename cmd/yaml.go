package cmd

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

func yamlUnmarshal(b []byte, out any) error {
	if err := yaml.Unmarshal(b, out); err != nil {
		return fmt.Errorf("yaml unmarshal: %w", err)
	}
	return nil
}

// UnmarshalYAML accepts "cmd" as an alias for "command".
func (s *stepEntry) UnmarshalYAML(value *yaml.Node) error {
	type plain stepEntry
	if err := value.Decode((*plain)(s)); err != nil {
		return err
	}
	if s.Command == "" {
		var alias struct {
			Cmd string `yaml:"cmd"`
		}
		if err := value.Decode(&alias); err != nil {
			return err
		}
		s.Command = alias.Cmd
	}
	return nil
}
