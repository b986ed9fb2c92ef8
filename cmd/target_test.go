package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/braunmar/agent-engine/pkg/config"
	"github.com/braunmar/agent-engine/pkg/engine"
)

func TestCommandsUseADCProject(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{"list", "", []string{"list"}},
		{"get", "", []string{"get", "agent-1"}},
		{"create", "", []string{"create", "New Agent"}},
		{"delete", "", []string{"delete", "agent-1", "--yes"}},
		{"sessions", "", []string{"sessions", "list", "agent-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.fake.AddAgent(engine.APIAgent{})

			out, err := h.run(tt.stdin, tt.args...)
			require.NoError(t, err, out)
			assert.Equal(t, 1, h.adcLookups)
			require.Len(t, h.clientCalls, 1)
			assert.Equal(t, adcProject, h.clientCalls[0].project)
			assert.Equal(t, config.DefaultLocation, h.clientCalls[0].location)
		})
	}
}

func TestChatUsesADCProject(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("", "chat", "agent1")
	require.NoError(t, err)
	require.Len(t, h.chatCalls, 1)
	assert.Equal(t, adcProject, h.chatCalls[0].Project)
	assert.Equal(t, "us-central1", h.chatCalls[0].Location)
}

func TestInvalidTargetIsRejected(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
		want string
	}{
		{
			name: "project flag",
			args: []string{"list", "--project", "a/b c"},
			want: "Error: invalid target: project 'a/b c' contains invalid character '/'",
		},
		{
			name: "location flag",
			args: []string{"get", "agent-1", "--project", "p", "--location", "us central1"},
			want: "Error: invalid target: location 'us central1'",
		},
		{
			name: "project from environment",
			env:  map[string]string{"GOOGLE_CLOUD_PROJECT": "proj/x"},
			args: []string{"sessions", "list", "agent-1"},
			want: "Error: invalid target: project 'proj/x'",
		},
		{
			name: "location from environment",
			env:  map[string]string{"GOOGLE_CLOUD_LOCATION": "eu/west"},
			args: []string{"chat", "agent-1", "--project", "p"},
			want: "Error: invalid target: location 'eu/west'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			for k, v := range tt.env {
				h.env[k] = v
			}

			out, err := h.run("", tt.args...)
			require.Error(t, err)
			assert.True(t, config.IsConfigurationError(err))
			assert.Contains(t, out, tt.want)
			assert.Empty(t, h.clientCalls)
			assert.Empty(t, h.chatCalls)
		})
	}
}

func TestExplicitProjectSkipsADC(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("", "list", "--project", "explicit-project", "--location", "asia-east1")
	require.NoError(t, err)
	assert.Zero(t, h.adcLookups)
	require.Len(t, h.clientCalls, 1)
	assert.Equal(t, "explicit-project", h.clientCalls[0].project)
	assert.Equal(t, "asia-east1", h.clientCalls[0].location)
}

func TestErrorWhenNoProject(t *testing.T) {
	h := newHarness(t)
	h.noADC = true

	out, err := h.run("", "list")
	require.Error(t, err)
	assert.True(t, config.IsConfigurationError(err))
	assert.Contains(t, out, "Error: No project specified")
	assert.Empty(t, h.clientCalls)
}

func TestProjectAndLocationFromEnvironment(t *testing.T) {
	h := newHarness(t)
	h.env["GOOGLE_CLOUD_PROJECT"] = "env-project"
	h.env["GOOGLE_CLOUD_LOCATION"] = "europe-west4"

	_, err := h.run("", "list")
	require.NoError(t, err)
	assert.Zero(t, h.adcLookups)
	require.Len(t, h.clientCalls, 1)
	assert.Equal(t, "env-project", h.clientCalls[0].project)
	assert.Equal(t, "europe-west4", h.clientCalls[0].location)
}

func TestConfigFileSuppliesClientOptions(t *testing.T) {
	h := newHarness(t)
	h.writeConfig("project: cfg-project\nlocation: us-east4\nbase_url: http://localhost:8080\napi_version: v1\n")

	_, err := h.run("", "list")
	require.NoError(t, err)
	require.Len(t, h.clientCalls, 1)
	call := h.clientCalls[0]
	assert.Equal(t, "cfg-project", call.project)
	assert.Equal(t, "us-east4", call.location)
	assert.Equal(t, "http://localhost:8080", call.opts.BaseURL)
	assert.Equal(t, "v1", call.opts.APIVersion)
	assert.False(t, call.opts.Debug)
}

func TestFlagsOverrideConfigClientOptions(t *testing.T) {
	h := newHarness(t)
	h.writeConfig("base_url: http://localhost:8080\n")

	_, err := h.run("", "list", "--base-url", "http://127.0.0.1:9000", "--api-version", "v1beta2", "-v")
	require.NoError(t, err)
	require.Len(t, h.clientCalls, 1)
	call := h.clientCalls[0]
	assert.Equal(t, "http://127.0.0.1:9000", call.opts.BaseURL)
	assert.Equal(t, "v1beta2", call.opts.APIVersion)
	assert.True(t, call.opts.Debug)
}

func TestInvalidConfigFile(t *testing.T) {
	h := newHarness(t)
	h.writeConfig("location: \"us central1\"\n")

	out, err := h.run("", "list")
	require.Error(t, err)
	assert.True(t, config.IsConfigurationError(err))
	assert.Contains(t, out, "Error: invalid configuration")
}

func TestClientConstructionFailure(t *testing.T) {
	h := newHarness(t)
	h.clientErr = assert.AnError

	out, err := h.run("", "list")
	require.Error(t, err)
	assert.Contains(t, out, "Error listing agents: "+assert.AnError.Error())
}
