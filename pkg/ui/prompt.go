package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Confirm asks a yes/no question and reads one line from in. Only "y" and
// "yes" (any case) confirm; EOF counts as no.
func (p *Printer) Confirm(in io.Reader, question string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N]: ", question)

	reader := bufio.NewReader(in)
	response, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	if errors.Is(err, io.EOF) && response == "" {
		fmt.Fprintln(p.out)
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// IsTerminal reports whether r is an interactive terminal
func IsTerminal(r any) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
