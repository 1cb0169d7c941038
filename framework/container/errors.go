package container

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrNoActiveContainer is returned by ResolveGlobal when no container has
// been installed with SetActive. Distinguished from NotRegisteredError:
// the cause is configuration, not a missing registration.
var ErrNoActiveContainer = errors.New("container: no active container configured")

// ErrScopeClosed is returned when resolving through a scope after Close.
var ErrScopeClosed = errors.New("container: scope already closed")

// NotRegisteredError reports a resolve of a key with no descriptor.
type NotRegisteredError struct {
	Type reflect.Type
}

func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("no service registered for type %v", e.Type)
}

// ScopeRequiredError reports a resolve of a scoped key with no active scope.
type ScopeRequiredError struct {
	Type reflect.Type
}

func (e *ScopeRequiredError) Error() string {
	return fmt.Sprintf("no active scope while resolving scoped service %v", e.Type)
}

// CircularDependencyError reports a dependency chain that revisits a key
// already under construction. Chain holds the full path, ending on the
// repeated key.
type CircularDependencyError struct {
	Chain []reflect.Type
}

func (e *CircularDependencyError) Error() string {
	return "circular dependency detected: " + formatChain(e.Chain)
}

func formatChain(chain []reflect.Type) string {
	parts := make([]string, len(chain))
	for i, t := range chain {
		parts[i] = t.String()
	}
	return strings.Join(parts, " -> ")
}

// ConstructionError wraps a failure returned by a constructor or factory.
type ConstructionError struct {
	Type reflect.Type
	Err  error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("construction failed for type %v: %v", e.Type, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// DisposeError wraps a failure returned by a dispose callback.
type DisposeError struct {
	Type reflect.Type
	Err  error
}

func (e *DisposeError) Error() string {
	return fmt.Sprintf("dispose failed for type %v: %v", e.Type, e.Err)
}

func (e *DisposeError) Unwrap() error {
	return e.Err
}

// ValidationError aggregates every finding of a build-time validation pass.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("container validation failed with %d error(s):\n  - %s",
		len(e.Messages), strings.Join(e.Messages, "\n  - "))
}
