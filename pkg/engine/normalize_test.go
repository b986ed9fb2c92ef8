package engine

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(t time.Time) *time.Time { return &t }

func TestNormalize(t *testing.T) {
	created := time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		raw       APIAgent
		fullName  string
		shortName string
		identity  string
	}{
		{
			name: "v1beta1 name with identity",
			raw: APIAgent{
				Name: "projects/test/locations/us-central1/reasoningEngines/agent1",
				Spec: &AgentSpec{EffectiveIdentity: "agents.global.proj-123.system.id.goog/resources/test"},
			},
			fullName:  "projects/test/locations/us-central1/reasoningEngines/agent1",
			shortName: "agent1",
			identity:  "agents.global.proj-123.system.id.goog/resources/test",
		},
		{
			name:      "legacy resource name",
			raw:       APIAgent{ResourceName: "projects/test/locations/us-central1/reasoningEngines/agent2"},
			fullName:  "projects/test/locations/us-central1/reasoningEngines/agent2",
			shortName: "agent2",
			identity:  NotApplicable,
		},
		{
			name: "name preferred over resource name",
			raw: APIAgent{
				Name:         "projects/a/locations/b/reasoningEngines/preferred",
				ResourceName: "projects/a/locations/b/reasoningEngines/ignored",
			},
			fullName:  "projects/a/locations/b/reasoningEngines/preferred",
			shortName: "preferred",
			identity:  NotApplicable,
		},
		{
			name:      "neither name present",
			raw:       APIAgent{DisplayName: "orphan"},
			fullName:  "",
			shortName: "",
			identity:  NotApplicable,
		},
		{
			name:      "spec without identity",
			raw:       APIAgent{Name: "x/y", Spec: &AgentSpec{AgentFramework: "langchain"}},
			fullName:  "x/y",
			shortName: "y",
			identity:  NotApplicable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.raw.CreateTime = &created
			agent := Normalize(tt.raw)

			assert.Equal(t, tt.fullName, agent.Name)
			assert.Equal(t, tt.shortName, agent.ShortName)
			assert.Equal(t, tt.identity, agent.EffectiveIdentity)
			assert.Equal(t, "2024-01-01 12:30", FormatTime(agent.CreateTime))
			assert.Equal(t, NotApplicable, FormatTime(agent.UpdateTime))
		})
	}
}

func TestNormalizeDecodesBothSchemas(t *testing.T) {
	v1beta1 := `{"name":"projects/p/locations/l/reasoningEngines/1","displayName":"New","createTime":"2024-01-02T14:45:00Z","spec":{"effectiveIdentity":"sa@p.iam.gserviceaccount.com","packageSpec":{"pythonVersion":"3.12"}}}`
	legacy := `{"resourceName":"projects/p/locations/l/reasoningEngines/1","displayName":"New","createTime":"2024-01-02T14:45:00Z"}`

	var a, b APIAgent
	require.NoError(t, json.Unmarshal([]byte(v1beta1), &a))
	require.NoError(t, json.Unmarshal([]byte(legacy), &b))

	na, nb := Normalize(a), Normalize(b)
	assert.Equal(t, na.Name, nb.Name)
	assert.Equal(t, "1", na.ShortName)
	assert.Equal(t, "2024-01-02 14:45", FormatTime(nb.CreateTime))
	assert.Equal(t, "sa@p.iam.gserviceaccount.com", na.EffectiveIdentity)
	assert.Equal(t, NotApplicable, nb.EffectiveIdentity)

	// The full spec document survives for --full output.
	out, err := json.Marshal(na.Spec)
	require.NoError(t, err)
	assert.Contains(t, string(out), "packageSpec")
}

func TestNormalizeChildren(t *testing.T) {
	created := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

	session := NormalizeSession(APISession{Name: "projects/p/locations/l/reasoningEngines/a/sessions/s1", UserID: "u1", CreateTime: &created})
	assert.Equal(t, "s1", session.ID)
	assert.Equal(t, "u1", session.UserID)
	assert.Equal(t, "2025-03-04 05:06", FormatTime(session.CreateTime))

	sandbox := NormalizeSandbox(APISandbox{Name: "x/sandboxEnvironments/sb1", State: "STATE_RUNNING"})
	assert.Equal(t, "sb1", sandbox.ID)
	assert.Equal(t, "RUNNING", sandbox.StateLabel())
	assert.Equal(t, "UNSPECIFIED", NormalizeSandbox(APISandbox{}).StateLabel())

	memory := NormalizeMemory(APIMemory{Name: "x/memories/m1", Fact: "likes tea", Scope: map[string]string{"user_id": "u1", "app": "demo"}})
	assert.Equal(t, "m1", memory.ID)
	assert.Equal(t, "app=demo, user_id=u1", memory.ScopeString())
	assert.Equal(t, NotApplicable, Memory{}.ScopeString())
}

func TestOrNA(t *testing.T) {
	if got := OrNA(""); got != NotApplicable {
		t.Errorf("OrNA(%q) = %q; want %q", "", got, NotApplicable)
	}
	if got := OrNA("value"); got != "value" {
		t.Errorf("OrNA(%q) = %q; want %q", "value", got, "value")
	}
}

func TestNormalizeIdempotentProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("normalize(resource(normalize(x))) == normalize(x)", prop.ForAll(
		func(name string, legacy bool, display string, identity string, hasSpec bool, minutes int64) bool {
			raw := APIAgent{DisplayName: display}
			if legacy {
				raw.ResourceName = name
			} else {
				raw.Name = name
			}
			if hasSpec {
				raw.Spec = &AgentSpec{EffectiveIdentity: identity}
			}
			ts := time.Unix(minutes*60, 0).UTC()
			raw.CreateTime = &ts

			once := Normalize(raw)
			twice := Normalize(once.Resource())
			return reflect.DeepEqual(once, twice)
		},
		gen.AnyString(), gen.Bool(), gen.AnyString(), gen.AnyString(), gen.Bool(), gen.Int64Range(0, 40_000_000),
	))

	properties.TestingRun(t)
}
