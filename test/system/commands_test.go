package system_test

// commands_test.go runs the CLI binary for every path that can complete
// without Google Cloud credentials or network access:
//
//   1. Informational commands  – version and help
//   2. Configuration errors    – project resolution and config files
//   3. Input validation        – rejected before any client is built

import (
	"testing"
)

// ── Group 1: Informational commands ──────────────────────────────────────────

func TestVersion(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("version")
	assertSuccess(t, out, err)
	assertContains(t, out, "Agent Engine CLI v0.1.0")
}

func TestVersionWithBrokenConfig(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeConfig("project: [unterminated")

	out, err := env.run("version", "--config", path)
	assertSuccess(t, out, err)
	assertContains(t, out, "Agent Engine CLI v0.1.0")
}

func TestHelpListsCommands(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("--help")
	assertSuccess(t, out, err)
	for _, name := range []string{"list", "get", "create", "delete", "chat", "sessions", "sandboxes", "memories", "version"} {
		assertContains(t, out, name)
	}
	assertContains(t, out, "--config")
	assertContains(t, out, "--verbose")
}

// ── Group 2: Configuration errors ────────────────────────────────────────────

// TestListWithoutProject verifies the error when no project can be found
// anywhere, including application default credentials.
func TestListWithoutProject(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("list")
	assertExitCode(t, err, 1)
	assertContains(t, out, "Error: No project specified")
}

// TestProjectFromEnvironment verifies that GOOGLE_CLOUD_PROJECT satisfies
// project resolution; the command then fails on missing credentials.
func TestProjectFromEnvironment(t *testing.T) {
	env := newTestEnv(t)
	env.setenv("GOOGLE_CLOUD_PROJECT", "env-project")

	out, err := env.run("list")
	assertExitCode(t, err, 1)
	assertNotContains(t, out, "No project specified")
	assertContains(t, out, "Error listing agents")
	assertContains(t, out, "application default credentials")
}

func TestProjectFromConfigFile(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeConfig("project: config-project\nlocation: europe-west4\n")

	out, err := env.run("get", "123", "--config", path)
	assertExitCode(t, err, 1)
	assertNotContains(t, out, "No project specified")
	assertContains(t, out, "Error getting agent")
}

func TestInvalidConfigFile(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeConfig("project: bad/project\n")

	out, err := env.run("list", "--project", "p", "--config", path)
	assertExitCode(t, err, 1)
	assertContains(t, out, "Error: invalid configuration")
}

func TestMissingExplicitConfigFile(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("list", "--config", "/does/not/exist.yml")
	assertExitCode(t, err, 1)
	assertContains(t, out, "Error: configuration file not found")
}

// ── Group 3: Input validation ────────────────────────────────────────────────

func TestCreateRejectsUnknownIdentity(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("create", "My Agent", "--identity", "robot", "--project", "p")
	assertExitCode(t, err, 1)
	assertContains(t, out, "invalid value \"robot\" for --identity")
}

func TestDeleteRejectsInvalidIdentifier(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("delete", "bad id", "--yes", "--project", "p")
	assertExitCode(t, err, 1)
	assertContains(t, out, "Error deleting agent")
	assertContains(t, out, "invalid identifier")
}

func TestMissingArgument(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("get")
	assertExitCode(t, err, 1)
	assertContains(t, out, "Error: accepts 1 arg(s), received 0")
}

func TestUnknownCommand(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("deploy")
	assertExitCode(t, err, 1)
	assertContains(t, out, "Error: unknown command \"deploy\"")
}
