package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Field is one labelled line of a panel
type Field struct {
	Label string
	Value string
}

// Panel prints labelled fields inside a titled rounded box
func (p *Printer) Panel(title string, fields []Field) {
	r := lipgloss.NewRenderer(p.out)
	label := r.NewStyle().Bold(true)

	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, fmt.Sprintf("%s %s", label.Render(f.Label+":"), f.Value))
	}

	box := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	if title != "" {
		fmt.Fprintln(p.out, r.NewStyle().Bold(true).Render(title))
	}
	fmt.Fprintln(p.out, box.Render(strings.Join(lines, "\n")))
}
