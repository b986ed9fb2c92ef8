package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/braunmar/agent-engine/pkg/resource"
)

// NotApplicable marks a value the API did not provide
const NotApplicable = "N/A"

// TimeLayout is the display granularity for timestamps
const TimeLayout = "2006-01-02 15:04"

// Normalize maps an API agent response onto the display model
func Normalize(raw APIAgent) Agent {
	name := raw.Name
	if name == "" {
		name = raw.ResourceName
	}

	identity := NotApplicable
	if raw.Spec != nil && raw.Spec.EffectiveIdentity != "" {
		identity = raw.Spec.EffectiveIdentity
	}

	return Agent{
		Name:              name,
		ShortName:         resource.ShortName(name),
		DisplayName:       raw.DisplayName,
		Description:       raw.Description,
		CreateTime:        raw.CreateTime,
		UpdateTime:        raw.UpdateTime,
		EffectiveIdentity: identity,
		Spec:              raw.Spec,
	}
}

// Resource converts a normalized agent back into its API shape
func (a Agent) Resource() APIAgent {
	spec := a.Spec
	if spec == nil && a.EffectiveIdentity != "" && a.EffectiveIdentity != NotApplicable {
		spec = &AgentSpec{EffectiveIdentity: a.EffectiveIdentity}
	}

	return APIAgent{
		Name:        a.Name,
		DisplayName: a.DisplayName,
		Description: a.Description,
		CreateTime:  a.CreateTime,
		UpdateTime:  a.UpdateTime,
		Spec:        spec,
	}
}

// NormalizeSession maps an API session onto the display model
func NormalizeSession(raw APISession) Session {
	return Session{
		Name:        raw.Name,
		ID:          resource.ShortName(raw.Name),
		DisplayName: raw.DisplayName,
		UserID:      raw.UserID,
		CreateTime:  raw.CreateTime,
		UpdateTime:  raw.UpdateTime,
		ExpireTime:  raw.ExpireTime,
	}
}

// NormalizeSandbox maps an API sandbox onto the display model
func NormalizeSandbox(raw APISandbox) Sandbox {
	state := raw.State
	if state == "" {
		state = "STATE_UNSPECIFIED"
	}

	return Sandbox{
		Name:        raw.Name,
		ID:          resource.ShortName(raw.Name),
		DisplayName: raw.DisplayName,
		State:       state,
		CreateTime:  raw.CreateTime,
		ExpireTime:  raw.ExpireTime,
	}
}

// NormalizeMemory maps an API memory onto the display model
func NormalizeMemory(raw APIMemory) Memory {
	return Memory{
		Name:       raw.Name,
		ID:         resource.ShortName(raw.Name),
		Fact:       raw.Fact,
		Scope:      raw.Scope,
		CreateTime: raw.CreateTime,
		UpdateTime: raw.UpdateTime,
	}
}

// FormatTime renders a timestamp at minute granularity, or N/A when absent
func FormatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return NotApplicable
	}
	return t.UTC().Format(TimeLayout)
}

// StateLabel returns the sandbox state without its enum prefix
func (s Sandbox) StateLabel() string {
	return strings.TrimPrefix(s.State, "STATE_")
}

// ScopeString renders the memory scope as sorted key=value pairs
func (m Memory) ScopeString() string {
	if len(m.Scope) == 0 {
		return NotApplicable
	}

	keys := make([]string, 0, len(m.Scope))
	for k := range m.Scope {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, m.Scope[k]))
	}
	return strings.Join(pairs, ", ")
}

// OrNA returns value, or N/A when it is empty
func OrNA(value string) string {
	if value == "" {
		return NotApplicable
	}
	return value
}
