package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Column describes one table column
type Column struct {
	Header string
	// Color is an ANSI color number; empty leaves the cell unstyled
	Color string
}

// Table prints a titled table with rounded borders
func (p *Printer) Table(title string, columns []Column, rows [][]string) {
	r := lipgloss.NewRenderer(p.out)

	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = c.Header
	}

	headerStyle := r.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := r.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.NewStyle().Faint(true)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col < len(columns) && columns[col].Color != "" {
				return cellStyle.Foreground(lipgloss.Color(columns[col].Color))
			}
			return cellStyle
		})

	if title != "" {
		fmt.Fprintln(p.out, r.NewStyle().Bold(true).Render(title))
	}
	fmt.Fprintln(p.out, t.Render())
}
