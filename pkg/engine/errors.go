package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genproto/googleapis/rpc/code"
	"google.golang.org/grpc/status"

	"github.com/braunmar/agent-engine/pkg/resource"
)

var (
	// ErrInvalidIdentifier is returned for malformed resource identifiers
	ErrInvalidIdentifier = resource.ErrInvalidIdentifier

	// ErrNotFound is returned when the backing resource does not exist
	ErrNotFound = errors.New("not found")

	// ErrHasDependents is returned when deleting an agent that still owns
	// sessions, sandboxes or memories without force
	ErrHasDependents = errors.New("agent has sessions, sandboxes or memories; use --force to delete")
)

// APIError is an error status returned by the Agent Engine API.
// StatusCode is only set for REST calls.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	switch {
	case e.Status != "" && e.StatusCode != 0:
		return fmt.Sprintf("%s (%d): %s", e.Status, e.StatusCode, e.Message)
	case e.Status != "":
		return fmt.Sprintf("%s: %s", e.Status, e.Message)
	default:
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	}
}

// Unwrap lets errors.Is match ErrNotFound for missing resources
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound || e.Status == "NOT_FOUND" {
		return ErrNotFound
	}
	return nil
}

// fromStatus converts a gRPC status returned by the SDK into an APIError.
// Once ctx is done its error is returned instead.
func fromStatus(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	return &APIError{Status: code.Code(st.Code()).String(), Message: st.Message()}
}

// apiErrorBody is the Google API error envelope of REST responses
type apiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
