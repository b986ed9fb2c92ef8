package ui

import (
	"bytes"
	"strings"
	"testing"
)

// capture runs f against a Printer writing to a buffer
func capture(f func(p *Printer)) string {
	var buf bytes.Buffer
	f(NewPrinter(&buf))
	return buf.String()
}

func TestSuccess(t *testing.T) {
	output := capture(func(p *Printer) {
		p.Success("Agent created successfully!")
	})
	if !strings.Contains(output, "Agent created successfully!") {
		t.Errorf("Expected output to contain message, got: %s", output)
	}
}

func TestError(t *testing.T) {
	output := capture(func(p *Printer) {
		p.Error("Error: boom")
	})
	if !strings.Contains(output, "Error: boom") {
		t.Errorf("Expected output to contain 'Error: boom', got: %s", output)
	}
}

func TestInfo(t *testing.T) {
	output := capture(func(p *Printer) {
		p.Info("info message")
	})
	if !strings.Contains(output, "info message") {
		t.Errorf("Expected output to contain 'info message', got: %s", output)
	}
	if !strings.Contains(output, "ℹ️") {
		t.Errorf("Expected output to contain info emoji, got: %s", output)
	}
}

func TestFormattedMessages(t *testing.T) {
	tests := []struct {
		name     string
		print    func(p *Printer)
		expected string
	}{
		{"WarningF", func(p *Printer) { p.WarningF("warning %d: %s", 1, "test") }, "warning 1: test"},
		{"ErrorF", func(p *Printer) { p.ErrorF("error %d: %s", 404, "not found") }, "error 404: not found"},
		{"InfoF", func(p *Printer) { p.InfoF("info: %s=%d", "count", 42) }, "info: count=42"},
		{"SuccessF", func(p *Printer) { p.SuccessF("completed %d tasks", 5) }, "completed 5 tasks"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := capture(tt.print)
			if !strings.Contains(output, tt.expected) {
				t.Errorf("Expected output to contain %q, got: %s", tt.expected, output)
			}
		})
	}
}

func TestPrintCommand(t *testing.T) {
	output := capture(func(p *Printer) {
		p.PrintCommand("gcloud auth application-default login")
	})
	if !strings.HasPrefix(output, "      ") {
		t.Errorf("Expected command to be indented, got: %q", output)
	}
	if !strings.Contains(output, "gcloud auth application-default login") {
		t.Errorf("Expected output to contain command, got: %s", output)
	}
}

func TestPrintStatusLine(t *testing.T) {
	output := capture(func(p *Printer) {
		p.PrintStatusLine("Resource", "projects/p/locations/l/reasoningEngines/1")
	})
	if !strings.Contains(output, "Resource:") {
		t.Errorf("Expected output to contain label, got: %s", output)
	}
	if !strings.Contains(output, "reasoningEngines/1") {
		t.Errorf("Expected output to contain value, got: %s", output)
	}
}

func TestPrintJSON(t *testing.T) {
	output := capture(func(p *Printer) {
		if err := p.PrintJSON(map[string]string{"resource_name": "x"}); err != nil {
			t.Fatal(err)
		}
	})
	if output != "{\n  \"resource_name\": \"x\"\n}\n" {
		t.Errorf("unexpected JSON output: %q", output)
	}
}

func TestNewLine(t *testing.T) {
	output := capture(func(p *Printer) {
		p.NewLine()
	})
	if output != "\n" {
		t.Errorf("Expected single newline, got: %q", output)
	}
}

func TestTable(t *testing.T) {
	output := capture(func(p *Printer) {
		p.Table("Agents", []Column{{Header: "Name", Color: "6"}, {Header: "Display Name"}}, [][]string{
			{"agent1", "Test Agent"},
			{"agent2", "Other"},
		})
	})

	for _, want := range []string{"Agents", "Name", "Display Name", "agent1", "Test Agent", "agent2"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected table to contain %q, got:\n%s", want, output)
		}
	}
	if strings.Index(output, "agent1") > strings.Index(output, "agent2") {
		t.Errorf("Expected rows in order, got:\n%s", output)
	}
}

func TestPanel(t *testing.T) {
	output := capture(func(p *Printer) {
		p.Panel("Agent Details", []Field{
			{Label: "Name", Value: "agent1"},
			{Label: "Description", Value: "A test agent"},
		})
	})

	for _, want := range []string{"Agent Details", "Name:", "agent1", "Description:", "A test agent"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected panel to contain %q, got:\n%s", want, output)
		}
	}
}

func TestBold(t *testing.T) {
	if Bold("test") == "" {
		t.Error("Expected Bold to return non-empty string")
	}
}
