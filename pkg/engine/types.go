package engine

import (
	"encoding/json"
	"time"
)

// APIAgent is the reasoning engine resource as returned by the API.
// v1beta1 responses carry the resource path in Name; older responses
// use ResourceName. Both are optional and Normalize picks one.
type APIAgent struct {
	Name         string     `json:"name,omitempty"`
	ResourceName string     `json:"resourceName,omitempty"`
	DisplayName  string     `json:"displayName,omitempty"`
	Description  string     `json:"description,omitempty"`
	CreateTime   *time.Time `json:"createTime,omitempty"`
	UpdateTime   *time.Time `json:"updateTime,omitempty"`
	Spec         *AgentSpec `json:"spec,omitempty"`
}

// AgentSpec is the optional nested spec of a reasoning engine. Only the
// identity fields are decoded; the raw document is kept for full output.
type AgentSpec struct {
	EffectiveIdentity string `json:"effectiveIdentity,omitempty"`
	IdentityType      string `json:"identityType,omitempty"`
	ServiceAccount    string `json:"serviceAccount,omitempty"`
	AgentFramework    string `json:"agentFramework,omitempty"`

	raw json.RawMessage
}

type agentSpecFields AgentSpec

// UnmarshalJSON decodes the known fields and keeps the original document
func (s *AgentSpec) UnmarshalJSON(data []byte) error {
	var fields agentSpecFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*s = AgentSpec(fields)
	s.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON emits the original document when the spec was decoded from
// an API response, and the known fields otherwise
func (s AgentSpec) MarshalJSON() ([]byte, error) {
	if len(s.raw) > 0 {
		return s.raw, nil
	}
	return json.Marshal(agentSpecFields(s))
}

// Agent is the normalized view of a reasoning engine used for display
type Agent struct {
	Name              string
	ShortName         string
	DisplayName       string
	Description       string
	CreateTime        *time.Time
	UpdateTime        *time.Time
	EffectiveIdentity string
	Spec              *AgentSpec
}

// APISession is a session resource as returned by the API
type APISession struct {
	Name        string     `json:"name,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
	UserID      string     `json:"userId,omitempty"`
	CreateTime  *time.Time `json:"createTime,omitempty"`
	UpdateTime  *time.Time `json:"updateTime,omitempty"`
	ExpireTime  *time.Time `json:"expireTime,omitempty"`
}

// Session is a conversation session owned by an agent
type Session struct {
	Name        string
	ID          string
	DisplayName string
	UserID      string
	CreateTime  *time.Time
	UpdateTime  *time.Time
	ExpireTime  *time.Time
}

// APISandbox is a sandbox environment as returned by the API
type APISandbox struct {
	Name        string     `json:"name,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
	State       string     `json:"state,omitempty"`
	CreateTime  *time.Time `json:"createTime,omitempty"`
	UpdateTime  *time.Time `json:"updateTime,omitempty"`
	ExpireTime  *time.Time `json:"expireTime,omitempty"`
}

// Sandbox is an isolated execution environment owned by an agent
type Sandbox struct {
	Name        string
	ID          string
	DisplayName string
	State       string
	CreateTime  *time.Time
	ExpireTime  *time.Time
}

// APIMemory is a memory resource as returned by the API
type APIMemory struct {
	Name        string            `json:"name,omitempty"`
	DisplayName string            `json:"displayName,omitempty"`
	Fact        string            `json:"fact,omitempty"`
	Scope       map[string]string `json:"scope,omitempty"`
	CreateTime  *time.Time        `json:"createTime,omitempty"`
	UpdateTime  *time.Time        `json:"updateTime,omitempty"`
}

// Memory is a stored fact scoped to a set of keys, owned by an agent
type Memory struct {
	Name       string
	ID         string
	Fact       string
	Scope      map[string]string
	CreateTime *time.Time
	UpdateTime *time.Time
}

// Event is one streamed chat event
type Event struct {
	Author       string
	Text         string
	ErrorCode    string
	ErrorMessage string
}

// IdentityType selects the identity an agent runs as
type IdentityType string

const (
	// IdentityAgent binds the agent to a platform-managed agent identity
	IdentityAgent IdentityType = "agent_identity"
	// IdentityServiceAccount binds the agent to a service account
	IdentityServiceAccount IdentityType = "service_account"
)

// IdentityTypes lists the identity types accepted on the command line
var IdentityTypes = []IdentityType{IdentityAgent, IdentityServiceAccount}

// CreateRequest describes an agent to create without deploying code
type CreateRequest struct {
	DisplayName    string
	IdentityType   IdentityType
	ServiceAccount string
}
