package doctor

import (
	"encoding/json"
	"strings"

	"github.com/braunmar/agent-engine/pkg/ui"
)

// Print outputs the report in human-readable format
func (r *Report) Print(p *ui.Printer) {
	p.Println(ui.Bold("🏥 Agent Engine Doctor - Health Check Report"))
	p.NewLine()

	printSeparator(p)
	r.printConfig(p)

	printSeparator(p)
	r.printCredentials(p)

	printSeparator(p)
	r.printTarget(p)

	printSeparator(p)
	r.printAPI(p)

	printSeparator(p)
	r.printSummary(p)

	p.NewLine()
}

// ToJSON outputs the report in JSON format
func (r *Report) ToJSON() string {
	data, _ := json.MarshalIndent(r, "", "  ")
	return string(data)
}

// ExitCode returns the appropriate exit code based on report status
func (r *Report) ExitCode() int {
	if r.Summary.ErrorsCount > 0 {
		return 2
	}
	if r.Summary.WarningsCount > 0 {
		return 1
	}
	return 0
}

func printSeparator(p *ui.Printer) {
	p.Println(strings.Repeat("━", 70))
	p.NewLine()
}

func (r *Report) printConfig(p *ui.Printer) {
	p.Section("📄 CONFIGURATION")

	if r.Config.Error != "" {
		p.Error(r.Config.Error)
		p.Info("💡 Fix the file or point --config at another one")
		return
	}

	if r.Config.Exists {
		p.SuccessF("Config file loaded (%s)", r.Config.Path)
	} else {
		p.InfoF("No config file at %s, using defaults", orUnknown(r.Config.Path))
	}
}

func (r *Report) printCredentials(p *ui.Printer) {
	p.Section("🔑 CREDENTIALS")

	if !r.Credentials.Found {
		p.Error("Application default credentials not found")
		if r.Credentials.Error != "" {
			p.Printf("  %s\n", r.Credentials.Error)
		}
		p.Info("💡 Sign in with:")
		p.PrintCommand("gcloud auth application-default login")
		return
	}

	p.Success("Application default credentials found")
	if r.Credentials.ProjectID != "" {
		p.PrintStatusLine("  Credentials project", r.Credentials.ProjectID)
	}
}

func (r *Report) printTarget(p *ui.Printer) {
	p.Section("🎯 TARGET")

	if r.Target.Error != "" {
		p.Error(r.Target.Error)
	} else {
		p.SuccessF("Project %s (from %s)", r.Target.Project, r.Target.ProjectSource)
	}
	p.PrintStatusLine("  Location", r.Target.Location)

	if r.Target.ProjectMismatch {
		p.WarningF("Credentials belong to project %s, commands will target %s",
			r.Credentials.ProjectID, r.Target.Project)
	}
}

func (r *Report) printAPI(p *ui.Printer) {
	p.Section("🌐 AGENT ENGINE API")

	if !r.API.Checked {
		p.InfoF("Not checked: %s", r.API.SkipReason)
		return
	}

	if !r.API.Reachable {
		p.Error("API call failed")
		p.Printf("  %s\n", r.API.Error)
		return
	}

	p.Success("API reachable")
	if !r.API.HasAgents {
		p.Info("No agents in this project and location yet")
	}
}

func (r *Report) printSummary(p *ui.Printer) {
	p.Section("📊 SUMMARY")

	// Health status
	statusEmoji := "✅"
	if r.Summary.HealthStatus == StatusPoor {
		statusEmoji = "❌"
	} else if r.Summary.HealthStatus == StatusFair {
		statusEmoji = "⚠️"
	}

	issueCount := r.Summary.ErrorsCount + r.Summary.WarningsCount
	p.Printf("Overall health: %s %s", r.Summary.HealthStatus, statusEmoji)
	if issueCount > 0 {
		p.Printf(" (%d errors, %d warnings)", r.Summary.ErrorsCount, r.Summary.WarningsCount)
	}
	p.NewLine()
}

func orUnknown(s string) string {
	if s == "" {
		return "(unknown)"
	}
	return s
}
