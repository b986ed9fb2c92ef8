package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"y\n", true},
		{"yes\n", true},
		{"YES\n", true},
		{"  y  \n", true},
		{"n\n", false},
		{"no\n", false},
		{"\n", false},
		{"", false},
		{"yep\n", false},
		{"y", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrinter(&out)

			got, err := p.Confirm(strings.NewReader(tt.input), "Delete it?")
			if err != nil {
				t.Fatalf("Confirm() error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Confirm(%q) = %v; want %v", tt.input, got, tt.expected)
			}
			if !strings.Contains(out.String(), "Delete it? [y/N]: ") {
				t.Errorf("Expected prompt, got: %q", out.String())
			}
		})
	}
}

func TestIsTerminalNonFile(t *testing.T) {
	if IsTerminal(strings.NewReader("")) {
		t.Error("Expected a strings.Reader not to be a terminal")
	}
}
