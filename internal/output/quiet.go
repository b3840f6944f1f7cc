package output

import (
	"fmt"
	"io"
)

// QuietFormatter outputs a one-line summary (for hooks and scripts)
type QuietFormatter struct{}

func (f *QuietFormatter) Format(result *Result, w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s: %d/%d functions analysed in %d commits\n",
		result.Risk, result.Succeeded, result.Attempted, len(result.Commits))
	return err
}
