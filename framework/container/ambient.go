package container

import (
	"context"
	"reflect"
	"sync"
)

// Process-wide pointer to the currently active container. An escape hatch for
// code paths that hold no explicit container reference; wiring through
// explicit parameters remains the default. Tests reset it with ClearActive.
var (
	activeMu sync.RWMutex
	active   *Container
)

// SetActive installs c as the process-wide active container, making it
// reachable through ResolveGlobal.
func SetActive(c *Container) {
	activeMu.Lock()
	active = c
	activeMu.Unlock()
}

// ClearActive removes the active container.
func ClearActive() {
	activeMu.Lock()
	active = nil
	activeMu.Unlock()
}

// Active returns the active container, or nil when none is installed.
func Active() *Container {
	activeMu.RLock()
	defer activeMu.RUnlock()
	return active
}

// ResolveGlobal resolves T from the active container, obeying the same
// lifetime and scope rules as direct resolution. The scope, if any, is read
// from ctx (see WithScope) — so scoped keys still require a scope-carrying
// context. Fails with ErrNoActiveContainer when no container is installed.
//
//	svc, err := container.ResolveGlobal[GreetingService](r.Context())
func ResolveGlobal[T any](ctx context.Context) (T, error) {
	return assertInstance[T](GetGlobal(ctx, reflect.TypeOf((*T)(nil)).Elem()))
}

// GetGlobal is the untyped counterpart of ResolveGlobal.
func GetGlobal(ctx context.Context, key reflect.Type) (any, error) {
	c := Active()
	if c == nil {
		return nil, ErrNoActiveContainer
	}
	if s, ok := ScopeFromContext(ctx); ok && s.Container() == c {
		return s.Get(key)
	}
	return c.Get(key)
}
