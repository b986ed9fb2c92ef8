package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

const maxErrorBody = 4096

// restClient reaches the sandbox environment collection, which the
// aiplatform SDK does not expose, over the REST API
type restClient struct {
	baseURL    string
	apiVersion string
	httpClient *http.Client
	logger     *slog.Logger
}

func newRESTClient(baseURL, apiVersion string, hc *http.Client, logger *slog.Logger) *restClient {
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	return &restClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiVersion: strings.Trim(apiVersion, "/"),
		httpClient: hc,
		logger:     logger,
	}
}

// ListSandboxes returns every sandbox environment of an agent
func (c *Client) ListSandboxes(ctx context.Context, id string) ([]Sandbox, error) {
	agent, err := c.GetAgent(ctx, id)
	if err != nil {
		return nil, err
	}

	var sandboxes []Sandbox
	query := url.Values{}
	for {
		var page struct {
			SandboxEnvironments []APISandbox `json:"sandboxEnvironments"`
			NextPageToken       string       `json:"nextPageToken"`
		}
		if err := c.rest.get(ctx, agent.Name+"/sandboxEnvironments", query, &page); err != nil {
			return nil, fmt.Errorf("failed to list sandboxes: %w", err)
		}

		for _, s := range page.SandboxEnvironments {
			sandboxes = append(sandboxes, NormalizeSandbox(s))
		}

		if page.NextPageToken == "" {
			return sandboxes, nil
		}
		query.Set("pageToken", page.NextPageToken)
	}
}

// get fetches path (relative to the API version root) and decodes the
// JSON response into out
func (c *restClient) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.endpoint(path)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	c.logger.Debug("agent engine request", "method", http.MethodGet, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *restClient) endpoint(path string) string {
	return c.baseURL + "/" + c.apiVersion + "/" + strings.TrimLeft(path, "/")
}

func decodeAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(data))}

	var envelope apiErrorBody
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Status = envelope.Error.Status
		apiErr.Message = envelope.Error.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	return apiErr
}
