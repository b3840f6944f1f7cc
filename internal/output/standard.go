package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rohankatakam/funcrisk/internal/analyzer"
	"github.com/rohankatakam/funcrisk/internal/risk"
	"golang.org/x/term"
)

const defaultWidth = 100

// TextFormatter prints one table per commit. Colour is only emitted when w
// is a terminal.
type TextFormatter struct {
	// Width caps the line length; 0 uses the terminal width.
	Width int
}

func (f *TextFormatter) Format(result *Result, w io.Writer) error {
	re := lipgloss.NewRenderer(w)
	bold := re.NewStyle().Bold(true)
	faint := re.NewStyle().Faint(true)
	level := func(l risk.Level) string {
		return re.NewStyle().Foreground(lipgloss.Color(l.Color())).Bold(l >= risk.LevelHigh).Render(l.String())
	}

	width := f.Width
	if width == 0 {
		width = terminalWidth(w)
	}

	var b strings.Builder
	if result.Repository != "" || result.Range != "" {
		fmt.Fprintf(&b, "%s %s\n", bold.Render(result.Repository), result.Range)
	}
	fmt.Fprintf(&b, "Functions analysed: %d/%d (%.1f%%)\n", result.Succeeded, result.Attempted, 100*result.SuccessRate())
	fmt.Fprintf(&b, "Overall risk: %s\n", level(result.Risk))

	for _, c := range result.Commits {
		b.WriteString("\n")
		if c.Hash != "" {
			header := fmt.Sprintf("%s %s", shortHash(c.Hash), c.Subject)
			if c.Author != "" {
				header += " (" + c.Author + ")"
			}
			fmt.Fprintf(&b, "%s  %s\n", bold.Render(truncate(header, width-10)), level(c.Summary.Risk))
			if meta := commitMeta(c); meta != "" {
				fmt.Fprintf(&b, "  %s\n", faint.Render(truncate(meta, width-2)))
			}
		}

		pathWidth, nameWidth := 0, 0
		for _, r := range c.Functions {
			pathWidth = max(pathWidth, len(r.Path))
			nameWidth = max(nameWidth, len(r.Name))
		}
		for _, r := range c.Functions {
			riskCol := faint.Render("?")
			if l, ok := r.Level(); ok {
				riskCol = level(l)
			}
			pad := strings.Repeat(" ", max(0, 7-lipgloss.Width(riskCol)))
			line := fmt.Sprintf("%-10s %-*s %-*s %s", r.Status, pathWidth, r.Path, nameWidth, r.Name, detail(r))
			fmt.Fprintf(&b, "  %s%s %s\n", riskCol, pad, truncate(strings.TrimRight(line, " "), width-10))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func commitMeta(c CommitResult) string {
	var parts []string
	if c.Patch != nil {
		if c.Patch.Feature != "" {
			parts = append(parts, "feature: "+c.Patch.Feature)
		}
		if c.Patch.UpstreamStatus != "" {
			parts = append(parts, "upstream: "+c.Patch.UpstreamStatus)
		}
	}
	if c.ChangeID != "" {
		parts = append(parts, "Change-Id: "+c.ChangeID)
	}
	return strings.Join(parts, "  ")
}

// detail is the last column: the reason for missing functions, otherwise
// the classification and any signature change.
func detail(r *analyzer.FunctionChangeReport) string {
	switch r.Status {
	case analyzer.StatusMissing:
		return r.Reason
	case analyzer.StatusModified:
		s := r.Classification.String()
		if r.Signature != nil && r.Signature.Changed() {
			s += "  " + r.Signature.String()
		}
		return s
	}
	return ""
}

func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultWidth
}

func truncate(s string, n int) string {
	if n <= 3 || len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
