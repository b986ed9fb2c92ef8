package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/oauth2/google"

	"github.com/braunmar/agent-engine/pkg/chat"
	"github.com/braunmar/agent-engine/pkg/engine"
	"github.com/braunmar/agent-engine/pkg/engine/enginetest"
)

const adcProject = "adc-project"

type clientCall struct {
	project  string
	location string
	opts     engine.Options
}

// harness runs the root command against an in-memory backend
type harness struct {
	t    *testing.T
	fake *enginetest.Fake
	env  map[string]string

	// adcLookups counts application default credential lookups
	adcLookups int
	// noADC makes project resolution fail like a machine without credentials
	noADC bool

	clientCalls []clientCall
	clientErr   error

	chatCalls []chat.Params
	chatErr   error
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		t:    t,
		fake: enginetest.New("test-project", "us-central1"),
		env:  map[string]string{},
	}
	// keep the developer's own config file out of the way
	h.writeConfig("")
	return h
}

// writeConfig points the CLI at a config file with the given YAML
func (h *harness) writeConfig(content string) {
	h.t.Helper()
	path := filepath.Join(h.t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		h.t.Fatalf("write config: %v", err)
	}
	h.env["AGENT_ENGINE_CONFIG"] = path
}

func (h *harness) deps() deps {
	getenv := func(key string) string { return h.env[key] }

	return deps{
		findCredentials: func(ctx context.Context, scopes ...string) (*google.Credentials, error) {
			h.adcLookups++
			if h.noADC {
				return nil, errors.New("could not find default credentials")
			}
			return &google.Credentials{ProjectID: adcProject}, nil
		},
		newClient: func(ctx context.Context, project, location string, opts engine.Options) (engine.API, error) {
			h.clientCalls = append(h.clientCalls, clientCall{project: project, location: location, opts: opts})
			if h.clientErr != nil {
				return nil, h.clientErr
			}
			return h.fake, nil
		},
		runChat: func(ctx context.Context, params chat.Params) error {
			h.chatCalls = append(h.chatCalls, params)
			return h.chatErr
		},
		getenv: getenv,
	}
}

// run executes args with stdin and returns everything written to stdout
// and stderr
func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()

	root := newRootCmd(h.deps())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := run(context.Background(), root)
	return out.String(), err
}
