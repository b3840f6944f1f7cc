package output

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// JSONFormatter writes the result as indented JSON.
type JSONFormatter struct{}

func (f *JSONFormatter) Format(result *Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// YAMLFormatter writes the result as YAML.
type YAMLFormatter struct{}

func (f *YAMLFormatter) Format(result *Result, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(result); err != nil {
		return err
	}
	return enc.Close()
}
