package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rohankatakam/funcrisk/internal/models"
)

// WriteRuns prints stored runs as a table, newest first as given.
func WriteRuns(runs []*models.Run, w io.Writer) error {
	re := lipgloss.NewRenderer(w)
	header := re.NewStyle().Bold(true).Padding(0, 1)
	cell := re.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(re.NewStyle().Faint(true)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		Headers("RUN", "STARTED", "RANGE", "COMMITS", "ANALYSED", "RISK")

	for _, r := range runs {
		t.Row(
			r.ID,
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.RevRange,
			fmt.Sprint(r.CommitCount),
			fmt.Sprintf("%d/%d", r.Succeeded, r.Attempted),
			r.MaxRisk,
		)
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
