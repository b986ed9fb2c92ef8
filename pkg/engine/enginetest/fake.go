// Package enginetest provides an in-memory engine.API for tests.
package enginetest

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/braunmar/agent-engine/pkg/engine"
	"github.com/braunmar/agent-engine/pkg/resource"
)

// Fake is an in-memory agent registry keyed by full resource name
type Fake struct {
	Project  string
	Location string

	// CreateCalls records every CreateAgent request
	CreateCalls []engine.CreateRequest
	// DeleteCalls records the force flag of every DeleteAgent call
	DeleteCalls []bool
	// Err, when set, is returned by every operation
	Err error
	// Reply produces the streamed events for a chat message; the default
	// echoes the message back
	Reply func(message string) []engine.Event

	mu        sync.Mutex
	order     []string
	agents    map[string]engine.APIAgent
	sessions  map[string][]engine.APISession
	sandboxes map[string][]engine.APISandbox
	memories  map[string][]engine.APIMemory
	now       func() time.Time
}

var _ engine.API = (*Fake)(nil)

// New creates an empty fake for a project and location
func New(project, location string) *Fake {
	return &Fake{
		Project:   project,
		Location:  location,
		agents:    make(map[string]engine.APIAgent),
		sessions:  make(map[string][]engine.APISession),
		sandboxes: make(map[string][]engine.APISandbox),
		memories:  make(map[string][]engine.APIMemory),
		now:       time.Now,
	}
}

// Close is a no-op
func (f *Fake) Close() error {
	return nil
}

func (f *Fake) resolver() resource.Resolver {
	return resource.Resolver{Project: f.Project, Location: f.Location}
}

// AddAgent stores raw as-is and returns its full name. Agents without a
// name get the next agent-N id.
func (f *Fake) AddAgent(raw engine.APIAgent) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addAgentLocked(raw)
}

func (f *Fake) addAgentLocked(raw engine.APIAgent) string {
	name := raw.Name
	if name == "" {
		name = raw.ResourceName
	}
	if name == "" {
		name = f.resolver().Collection(resource.ReasoningEngines) + fmt.Sprintf("/agent-%d", len(f.agents)+1)
		raw.Name = name
	}
	if _, exists := f.agents[name]; !exists {
		f.order = append(f.order, name)
	}
	f.agents[name] = raw
	return name
}

// AddSession attaches a session to an agent
func (f *Fake) AddSession(agentName string, s engine.APISession) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.Name == "" {
		s.Name = agentName + "/sessions/" + uuid.NewString()
	}
	f.sessions[agentName] = append(f.sessions[agentName], s)
}

// AddSandbox attaches a sandbox to an agent
func (f *Fake) AddSandbox(agentName string, s engine.APISandbox) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.Name == "" {
		s.Name = agentName + "/sandboxEnvironments/" + uuid.NewString()
	}
	f.sandboxes[agentName] = append(f.sandboxes[agentName], s)
}

// AddMemory attaches a memory to an agent
func (f *Fake) AddMemory(agentName string, m engine.APIMemory) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m.Name == "" {
		m.Name = agentName + "/memories/" + uuid.NewString()
	}
	f.memories[agentName] = append(f.memories[agentName], m)
}

// HasAgent reports whether an agent with the full name exists
func (f *Fake) HasAgent(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.agents[name]
	return ok
}

// ChildCount returns the number of sessions, sandboxes and memories of an agent
func (f *Fake) ChildCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions[name]) + len(f.sandboxes[name]) + len(f.memories[name])
}

// lookupLocked resolves id and falls back to a suffix match on short ids
func (f *Fake) lookupLocked(id string) (string, error) {
	name, err := f.resolver().Agent(id)
	if err != nil {
		return "", err
	}
	if _, ok := f.agents[name]; ok {
		return name, nil
	}
	for _, candidate := range f.order {
		if strings.HasSuffix(candidate, "/"+id) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("agent %s: %w", id, engine.ErrNotFound)
}

func (f *Fake) ListAgents(ctx context.Context) iter.Seq2[engine.Agent, error] {
	return func(yield func(engine.Agent, error) bool) {
		if f.Err != nil {
			yield(engine.Agent{}, f.Err)
			return
		}

		f.mu.Lock()
		snapshot := make([]engine.APIAgent, 0, len(f.order))
		for _, name := range f.order {
			snapshot = append(snapshot, f.agents[name])
		}
		f.mu.Unlock()

		for _, raw := range snapshot {
			if !yield(engine.Normalize(raw), nil) {
				return
			}
		}
	}
}

func (f *Fake) GetAgent(ctx context.Context, id string) (engine.Agent, error) {
	if f.Err != nil {
		return engine.Agent{}, f.Err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	name, err := f.lookupLocked(id)
	if err != nil {
		return engine.Agent{}, err
	}
	return engine.Normalize(f.agents[name]), nil
}

func (f *Fake) CreateAgent(ctx context.Context, req engine.CreateRequest) (engine.Agent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.CreateCalls = append(f.CreateCalls, req)
	if f.Err != nil {
		return engine.Agent{}, f.Err
	}

	now := f.now()
	spec := &engine.AgentSpec{AgentFramework: "google-adk"}
	switch req.IdentityType {
	case engine.IdentityServiceAccount:
		spec.IdentityType = "SERVICE_ACCOUNT"
		spec.ServiceAccount = req.ServiceAccount
		spec.EffectiveIdentity = req.ServiceAccount
	case engine.IdentityAgent:
		spec.IdentityType = "AGENT_IDENTITY"
	}

	name := f.addAgentLocked(engine.APIAgent{
		DisplayName: req.DisplayName,
		CreateTime:  &now,
		UpdateTime:  &now,
		Spec:        spec,
	})
	return engine.Normalize(f.agents[name]), nil
}

func (f *Fake) DeleteAgent(ctx context.Context, id string, force bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.DeleteCalls = append(f.DeleteCalls, force)
	if f.Err != nil {
		return f.Err
	}

	name, err := f.lookupLocked(id)
	if err != nil {
		return err
	}

	if !force && len(f.sessions[name])+len(f.sandboxes[name])+len(f.memories[name]) > 0 {
		return fmt.Errorf("agent %s: %w", id, engine.ErrHasDependents)
	}

	delete(f.agents, name)
	delete(f.sessions, name)
	delete(f.sandboxes, name)
	delete(f.memories, name)
	for i, candidate := range f.order {
		if candidate == name {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *Fake) ListSessions(ctx context.Context, id string) ([]engine.Session, error) {
	if f.Err != nil {
		return nil, f.Err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	name, err := f.lookupLocked(id)
	if err != nil {
		return nil, err
	}

	sessions := make([]engine.Session, 0, len(f.sessions[name]))
	for _, s := range f.sessions[name] {
		sessions = append(sessions, engine.NormalizeSession(s))
	}
	return sessions, nil
}

func (f *Fake) ListSandboxes(ctx context.Context, id string) ([]engine.Sandbox, error) {
	if f.Err != nil {
		return nil, f.Err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	name, err := f.lookupLocked(id)
	if err != nil {
		return nil, err
	}

	sandboxes := make([]engine.Sandbox, 0, len(f.sandboxes[name]))
	for _, s := range f.sandboxes[name] {
		sandboxes = append(sandboxes, engine.NormalizeSandbox(s))
	}
	return sandboxes, nil
}

func (f *Fake) ListMemories(ctx context.Context, id string) ([]engine.Memory, error) {
	if f.Err != nil {
		return nil, f.Err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	name, err := f.lookupLocked(id)
	if err != nil {
		return nil, err
	}

	memories := make([]engine.Memory, 0, len(f.memories[name]))
	for _, m := range f.memories[name] {
		memories = append(memories, engine.NormalizeMemory(m))
	}
	return memories, nil
}

func (f *Fake) CreateSession(ctx context.Context, id, userID string) (engine.Session, error) {
	if f.Err != nil {
		return engine.Session{}, f.Err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	name, err := f.lookupLocked(id)
	if err != nil {
		return engine.Session{}, err
	}

	now := f.now()
	s := engine.APISession{
		Name:       name + "/sessions/" + uuid.NewString(),
		UserID:     userID,
		CreateTime: &now,
		UpdateTime: &now,
	}
	f.sessions[name] = append(f.sessions[name], s)
	return engine.NormalizeSession(s), nil
}

func (f *Fake) StreamQuery(ctx context.Context, id, userID, sessionID, message string) iter.Seq2[engine.Event, error] {
	return func(yield func(engine.Event, error) bool) {
		if f.Err != nil {
			yield(engine.Event{}, f.Err)
			return
		}

		f.mu.Lock()
		_, err := f.lookupLocked(id)
		f.mu.Unlock()
		if err != nil {
			yield(engine.Event{}, err)
			return
		}

		reply := f.Reply
		if reply == nil {
			reply = func(message string) []engine.Event {
				return []engine.Event{{Author: "agent", Text: message}}
			}
		}

		for _, ev := range reply(message) {
			if err := ctx.Err(); err != nil {
				yield(engine.Event{}, err)
				return
			}
			if !yield(ev, nil) {
				return
			}
		}
	}
}
