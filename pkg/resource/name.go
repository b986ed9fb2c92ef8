package resource

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ReasoningEngines is the collection segment for agent resources
const ReasoningEngines = "reasoningEngines"

// ErrInvalidIdentifier is returned when an identifier is empty or contains
// whitespace or control characters
var ErrInvalidIdentifier = errors.New("invalid identifier")

// Resolve expands a short identifier into a fully qualified resource name.
// Identifiers that already contain a path separator are returned unchanged.
func Resolve(identifier, project, location, resourceType string) (string, error) {
	if err := Validate(identifier); err != nil {
		return "", err
	}

	if strings.Contains(identifier, "/") {
		return identifier, nil
	}

	return fmt.Sprintf("projects/%s/locations/%s/%s/%s", project, location, resourceType, identifier), nil
}

// Validate checks that an identifier is non-empty and free of whitespace
// and control characters
func Validate(identifier string) error {
	if strings.TrimSpace(identifier) == "" {
		return fmt.Errorf("%w: must not be empty", ErrInvalidIdentifier)
	}

	for _, r := range identifier {
		if unicode.IsSpace(r) || r < 32 {
			return fmt.Errorf("%w: %q contains invalid characters", ErrInvalidIdentifier, identifier)
		}
	}

	return nil
}

// ShortName returns the last path segment of a resource name
func ShortName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Resolver binds a project and location so call sites only pass identifiers
type Resolver struct {
	Project  string
	Location string
}

// Agent resolves an agent identifier into a reasoning engine resource name
func (r Resolver) Agent(identifier string) (string, error) {
	return Resolve(identifier, r.Project, r.Location, ReasoningEngines)
}

// Parent returns the location resource that owns agents
func (r Resolver) Parent() string {
	return fmt.Sprintf("projects/%s/locations/%s", r.Project, r.Location)
}

// Collection returns the parent path that lists resources of the given type
func (r Resolver) Collection(resourceType string) string {
	return r.Parent() + "/" + resourceType
}
