package output

import (
	"fmt"
	"io"
)

// Formatter defines output formatting interface
type Formatter interface {
	Format(result *Result, w io.Writer) error
}

// Output formats accepted by NewFormatter.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatQuiet = "quiet"
)

// Formats lists every accepted format name.
var Formats = []string{FormatText, FormatJSON, FormatYAML, FormatQuiet}

// NewFormatter creates the formatter for format.
func NewFormatter(format string) (Formatter, error) {
	switch format {
	case FormatText, "":
		return &TextFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	case FormatQuiet:
		return &QuietFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
