package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	// Color functions
	green   = color.New(color.FgGreen).SprintFunc()
	red     = color.New(color.FgRed).SprintFunc()
	yellow  = color.New(color.FgYellow).SprintFunc()
	blue    = color.New(color.FgBlue).SprintFunc()
	cyan    = color.New(color.FgCyan).SprintFunc()
	magenta = color.New(color.FgMagenta).SprintFunc()
	bold    = color.New(color.Bold).SprintFunc()
)

// Printer writes formatted status output to a writer
type Printer struct {
	out io.Writer
}

// NewPrinter creates a Printer for out; nil means stdout
func NewPrinter(out io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	return &Printer{out: out}
}

// Println prints plain text followed by a newline
func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

// Printf prints formatted plain text
func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}

// Success prints a success message
func (p *Printer) Success(message string) {
	fmt.Fprintln(p.out, green(message))
}

// Error prints an error message
func (p *Printer) Error(message string) {
	fmt.Fprintln(p.out, red(message))
}

// Warning prints a warning message
func (p *Printer) Warning(message string) {
	fmt.Fprintln(p.out, yellow(message))
}

// Info prints an info message
func (p *Printer) Info(message string) {
	fmt.Fprintf(p.out, "%s %s\n", blue("ℹ️ "), message)
}

// Section prints a section header
func (p *Printer) Section(title string) {
	fmt.Fprintf(p.out, "\n%s %s\n\n", cyan("»"), bold(title))
}

// Loading prints a progress message
func (p *Printer) Loading(message string) {
	fmt.Fprintf(p.out, "%s %s\n", "⏳", message)
}

// PrintCommand prints a command the user can run next
func (p *Printer) PrintCommand(command string) {
	fmt.Fprintf(p.out, "      %s\n", magenta(command))
}

// PrintStatusLine prints a status line with label and value
func (p *Printer) PrintStatusLine(label, value string) {
	fmt.Fprintf(p.out, "%s %s\n", bold(label+":"), value)
}

// PrintJSON prints v as indented JSON
func (p *Printer) PrintJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	fmt.Fprintln(p.out, string(data))
	return nil
}

// NewLine prints a new line
func (p *Printer) NewLine() {
	fmt.Fprintln(p.out)
}

// Bold returns a bold-formatted string
func Bold(text string) string {
	return bold(text)
}
