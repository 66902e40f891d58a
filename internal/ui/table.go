package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nyoka-pmml/nyoka-cli/internal/infra/output"
)

// Table renders rows as borderless aligned columns nested under the last step.
func (r *Renderer) Table(headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	cell := lipgloss.NewStyle().PaddingRight(2)
	header := cell
	if r.useColor {
		header = r.theme.Header.PaddingRight(2)
	}
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		Rows(rows...)
	if len(headers) > 0 {
		t = t.Headers(headers...)
	}
	for _, line := range strings.Split(t.String(), "\n") {
		r.writeLine(output.Indent + output.Indent + strings.TrimRight(line, " "))
	}
}
