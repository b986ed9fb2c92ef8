package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	aiplatform "cloud.google.com/go/aiplatform/apiv1beta1"
	"cloud.google.com/go/aiplatform/apiv1beta1/aiplatformpb"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/braunmar/agent-engine/pkg/resource"
)

// DefaultAPIVersion is the Vertex AI API version with agent engine support
const DefaultAPIVersion = "v1beta1"

// API is the set of agent operations the CLI needs
type API interface {
	ListAgents(ctx context.Context) iter.Seq2[Agent, error]
	GetAgent(ctx context.Context, id string) (Agent, error)
	CreateAgent(ctx context.Context, req CreateRequest) (Agent, error)
	DeleteAgent(ctx context.Context, id string, force bool) error
	ListSessions(ctx context.Context, id string) ([]Session, error)
	ListSandboxes(ctx context.Context, id string) ([]Sandbox, error)
	ListMemories(ctx context.Context, id string) ([]Memory, error)
	CreateSession(ctx context.Context, id, userID string) (Session, error)
	StreamQuery(ctx context.Context, id, userID, sessionID, message string) iter.Seq2[Event, error]
	Close() error
}

// Options configures a Client
type Options struct {
	// BaseURL overrides https://{location}-aiplatform.googleapis.com. Its
	// host is also the gRPC endpoint; http URLs dial without TLS or credentials.
	BaseURL string
	// APIVersion overrides DefaultAPIVersion on the REST sandbox route
	APIVersion string
	// HTTPClient carries credentials for REST calls; NewClient fills it from ADC
	HTTPClient *http.Client
	// ClientOptions are applied last to every SDK client
	ClientOptions []option.ClientOption
	// Debug logs every call and response through Logger
	Debug  bool
	Logger *slog.Logger
}

// Client talks to Vertex AI Agent Engine through the aiplatform SDK
type Client struct {
	resolver resource.Resolver
	logger   *slog.Logger
	debug    atomic.Bool

	engines   *aiplatform.ReasoningEngineClient
	execution *aiplatform.ReasoningEngineExecutionClient
	sessions  *aiplatform.SessionClient
	memories  *aiplatform.MemoryBankClient
	rest      *restClient
}

var _ API = (*Client)(nil)

// NewClient creates a Client for the given project and location.
// Credentials come from application default credentials unless opts
// says otherwise.
func NewClient(ctx context.Context, project, location string, opts Options) (*Client, error) {
	if project == "" {
		return nil, errors.New("project is required")
	}
	if location == "" {
		return nil, errors.New("location is required")
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s-aiplatform.googleapis.com", location)
	}
	endpoint, plaintext, err := grpcEndpoint(baseURL)
	if err != nil {
		return nil, err
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc, err = google.DefaultClient(ctx, aiplatform.DefaultAuthScopes()...)
		if err != nil {
			return nil, fmt.Errorf("failed to load application default credentials: %w", err)
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	c := &Client{
		resolver: resource.Resolver{Project: project, Location: location},
		logger:   logger,
		rest:     newRESTClient(baseURL, opts.APIVersion, hc, logger),
	}

	clientOpts := []option.ClientOption{
		option.WithEndpoint(endpoint),
		option.WithGRPCDialOption(grpc.WithChainUnaryInterceptor(c.logUnary)),
		option.WithGRPCDialOption(grpc.WithChainStreamInterceptor(c.logStream)),
	}
	if plaintext {
		clientOpts = append(clientOpts,
			option.WithoutAuthentication(),
			option.WithGRPCDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		)
	}
	clientOpts = append(clientOpts, opts.ClientOptions...)

	if err := c.dial(ctx, clientOpts); err != nil {
		c.Close()
		return nil, err
	}

	if opts.Debug {
		c.EnableDebugLogging()
	}

	return c, nil
}

func (c *Client) dial(ctx context.Context, opts []option.ClientOption) error {
	var err error
	if c.engines, err = aiplatform.NewReasoningEngineClient(ctx, opts...); err != nil {
		return fmt.Errorf("failed to create reasoning engine client: %w", err)
	}
	if c.execution, err = aiplatform.NewReasoningEngineExecutionClient(ctx, opts...); err != nil {
		return fmt.Errorf("failed to create reasoning engine execution client: %w", err)
	}
	if c.sessions, err = aiplatform.NewSessionClient(ctx, opts...); err != nil {
		return fmt.Errorf("failed to create session client: %w", err)
	}
	if c.memories, err = aiplatform.NewMemoryBankClient(ctx, opts...); err != nil {
		return fmt.Errorf("failed to create memory bank client: %w", err)
	}
	return nil
}

// grpcEndpoint turns a base URL into a host:port dial target
func grpcEndpoint(baseURL string) (endpoint string, plaintext bool, err error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return "", false, fmt.Errorf("invalid base URL %q", baseURL)
	}

	plaintext = u.Scheme == "http"
	if u.Port() != "" {
		return u.Host, plaintext, nil
	}
	port := "443"
	if plaintext {
		port = "80"
	}
	return net.JoinHostPort(u.Hostname(), port), plaintext, nil
}

// Close releases the SDK connections
func (c *Client) Close() error {
	var errs []error
	if c.engines != nil {
		errs = append(errs, c.engines.Close())
	}
	if c.execution != nil {
		errs = append(errs, c.execution.Close())
	}
	if c.sessions != nil {
		errs = append(errs, c.sessions.Close())
	}
	if c.memories != nil {
		errs = append(errs, c.memories.Close())
	}
	return errors.Join(errs...)
}

// EnableDebugLogging turns on call logging for the SDK clients and wraps
// the REST transport. Only the first call has any effect.
func (c *Client) EnableDebugLogging() {
	if !c.debug.CompareAndSwap(false, true) {
		return
	}
	c.rest.httpClient = WithDebugLogging(c.rest.httpClient, c.logger)
}

// ListAgents lazily iterates over every agent in the project. Each call
// starts again from the first page.
func (c *Client) ListAgents(ctx context.Context) iter.Seq2[Agent, error] {
	return func(yield func(Agent, error) bool) {
		it := c.engines.ListReasoningEngines(ctx, &aiplatformpb.ListReasoningEnginesRequest{
			Parent: c.resolver.Parent(),
		})

		for msg, err := range it.All() {
			if err != nil {
				yield(Agent{}, fmt.Errorf("failed to list agents: %w", fromStatus(ctx, err)))
				return
			}
			raw, err := fromProto[APIAgent](msg)
			if err != nil {
				yield(Agent{}, fmt.Errorf("failed to list agents: %w", err))
				return
			}
			if !yield(Normalize(raw), nil) {
				return
			}
		}
	}
}

// GetAgent fetches a single agent by short ID or full resource name
func (c *Client) GetAgent(ctx context.Context, id string) (Agent, error) {
	name, err := c.resolver.Agent(id)
	if err != nil {
		return Agent{}, err
	}

	msg, err := c.engines.GetReasoningEngine(ctx, &aiplatformpb.GetReasoningEngineRequest{Name: name})
	if err != nil {
		return Agent{}, fmt.Errorf("agent %s: %w", id, fromStatus(ctx, err))
	}

	raw, err := fromProto[APIAgent](msg)
	if err != nil {
		return Agent{}, fmt.Errorf("agent %s: %w", id, err)
	}
	return Normalize(raw), nil
}

type createAgentBody struct {
	DisplayName string      `json:"displayName"`
	Spec        *createSpec `json:"spec,omitempty"`
}

type createSpec struct {
	IdentityType   string `json:"identityType,omitempty"`
	ServiceAccount string `json:"serviceAccount,omitempty"`
}

// buildCreateBody maps a create request onto the API payload. Unknown
// identity types are sent without identity fields.
func buildCreateBody(req CreateRequest) createAgentBody {
	body := createAgentBody{DisplayName: req.DisplayName}

	switch req.IdentityType {
	case IdentityAgent:
		body.Spec = &createSpec{IdentityType: "AGENT_IDENTITY"}
	case IdentityServiceAccount:
		body.Spec = &createSpec{IdentityType: "SERVICE_ACCOUNT"}
		if req.ServiceAccount != "" {
			body.Spec.ServiceAccount = req.ServiceAccount
		}
	}

	return body
}

// CreateAgent creates an agent without deploying code and waits for the
// operation to finish
func (c *Client) CreateAgent(ctx context.Context, req CreateRequest) (Agent, error) {
	body := &aiplatformpb.ReasoningEngine{}
	if err := toProto(buildCreateBody(req), body); err != nil {
		return Agent{}, fmt.Errorf("failed to create agent: %w", err)
	}

	op, err := c.engines.CreateReasoningEngine(ctx, &aiplatformpb.CreateReasoningEngineRequest{
		Parent:          c.resolver.Parent(),
		ReasoningEngine: body,
	})
	if err != nil {
		return Agent{}, fmt.Errorf("failed to create agent: %w", fromStatus(ctx, err))
	}
	c.logger.Debug("waiting for operation", "operation", op.Name())

	msg, err := op.Wait(ctx)
	if err != nil {
		return Agent{}, fmt.Errorf("failed to create agent: %w", fromStatus(ctx, err))
	}

	// An operation without a response body still names the new resource.
	if msg.GetName() == "" {
		if name := operationResource(op.Name()); name != "" {
			return c.GetAgent(ctx, name)
		}
	}

	raw, err := fromProto[APIAgent](msg)
	if err != nil {
		return Agent{}, fmt.Errorf("failed to create agent: %w", err)
	}
	return Normalize(raw), nil
}

// DeleteAgent deletes an agent. Without force the API refuses to delete an
// agent that still owns sessions, sandboxes or memories.
func (c *Client) DeleteAgent(ctx context.Context, id string, force bool) error {
	name, err := c.resolver.Agent(id)
	if err != nil {
		return err
	}

	op, err := c.engines.DeleteReasoningEngine(ctx, &aiplatformpb.DeleteReasoningEngineRequest{
		Name:  name,
		Force: force,
	})
	if err != nil {
		err = fromStatus(ctx, err)
		var apiErr *APIError
		if !force && errors.As(err, &apiErr) && apiErr.Status == "FAILED_PRECONDITION" {
			return fmt.Errorf("agent %s: %w", id, ErrHasDependents)
		}
		return fmt.Errorf("agent %s: %w", id, err)
	}

	if err := op.Wait(ctx); err != nil {
		return fmt.Errorf("agent %s: %w", id, fromStatus(ctx, err))
	}
	return nil
}

// ListSessions returns every session of an agent
func (c *Client) ListSessions(ctx context.Context, id string) ([]Session, error) {
	agent, err := c.GetAgent(ctx, id)
	if err != nil {
		return nil, err
	}

	it := c.sessions.ListSessions(ctx, &aiplatformpb.ListSessionsRequest{Parent: agent.Name})

	var sessions []Session
	for msg, err := range it.All() {
		if err != nil {
			return nil, fmt.Errorf("failed to list sessions: %w", fromStatus(ctx, err))
		}
		raw, err := fromProto[APISession](msg)
		if err != nil {
			return nil, fmt.Errorf("failed to list sessions: %w", err)
		}
		sessions = append(sessions, NormalizeSession(raw))
	}
	return sessions, nil
}

// ListMemories returns every memory of an agent
func (c *Client) ListMemories(ctx context.Context, id string) ([]Memory, error) {
	agent, err := c.GetAgent(ctx, id)
	if err != nil {
		return nil, err
	}

	it := c.memories.ListMemories(ctx, &aiplatformpb.ListMemoriesRequest{Parent: agent.Name})

	var memories []Memory
	for msg, err := range it.All() {
		if err != nil {
			return nil, fmt.Errorf("failed to list memories: %w", fromStatus(ctx, err))
		}
		raw, err := fromProto[APIMemory](msg)
		if err != nil {
			return nil, fmt.Errorf("failed to list memories: %w", err)
		}
		memories = append(memories, NormalizeMemory(raw))
	}
	return memories, nil
}

// CreateSession starts a new chat session for a user
func (c *Client) CreateSession(ctx context.Context, id, userID string) (Session, error) {
	name, err := c.resolver.Agent(id)
	if err != nil {
		return Session{}, err
	}

	op, err := c.sessions.CreateSession(ctx, &aiplatformpb.CreateSessionRequest{
		Parent:  name,
		Session: &aiplatformpb.Session{UserId: userID},
	})
	if err != nil {
		return Session{}, fmt.Errorf("failed to create session: %w", fromStatus(ctx, err))
	}

	msg, err := op.Wait(ctx)
	if err != nil {
		return Session{}, fmt.Errorf("failed to create session: %w", fromStatus(ctx, err))
	}

	raw, err := fromProto[APISession](msg)
	if err != nil {
		return Session{}, fmt.Errorf("failed to create session: %w", err)
	}
	if raw.Name == "" {
		raw.Name = operationResource(op.Name())
	}
	if raw.UserID == "" {
		raw.UserID = userID
	}

	return NormalizeSession(raw), nil
}

// fromProto decodes an SDK message into its API view through the
// message's JSON form, which uses the same field names as the REST API
func fromProto[T any](msg proto.Message) (T, error) {
	var out T
	data, err := protojson.Marshal(msg)
	if err != nil {
		return out, fmt.Errorf("encode %s: %w", msg.ProtoReflect().Descriptor().Name(), err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", msg.ProtoReflect().Descriptor().Name(), err)
	}
	return out, nil
}

// toProto fills msg from the JSON form of v. Fields msg does not know
// are rejected.
func toProto(v any, msg proto.Message) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return protojson.Unmarshal(data, msg)
}

// operationResource strips the /operations/{id} suffix from an operation name
func operationResource(name string) string {
	if i := strings.Index(name, "/operations/"); i >= 0 {
		return name[:i]
	}
	return ""
}
