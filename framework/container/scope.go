package container

import (
	"context"
	"reflect"
	"sync"

	"github.com/google/uuid"
)

// Scope is the storage and lifecycle boundary for Scoped instances, tied to
// one concurrently executing unit of work (typically one HTTP request). Enter
// one with Container.EnterScope, resolve through it, and Close it when the
// unit of work ends — the scope itself is the token handed back at exit.
//
// Scopes never share scoped instances: two units of work executing
// concurrently each own their own Scope and never observe each other's state.
type Scope struct {
	id string
	c  *Container

	mu        sync.RWMutex
	instances map[reflect.Type]any
	disposers []func() error
	closed    bool

	lockMu     sync.Mutex
	buildLocks map[reflect.Type]*sync.Mutex
}

// EnterScope establishes a new, empty scope for one unit of work.
func (c *Container) EnterScope() *Scope {
	return &Scope{
		id:         uuid.NewString(),
		c:          c,
		instances:  make(map[reflect.Type]any),
		buildLocks: make(map[reflect.Type]*sync.Mutex),
	}
}

// ID returns the scope's unique identifier, useful for request logging.
func (s *Scope) ID() string { return s.id }

// Container returns the container this scope belongs to.
func (s *Scope) Container() *Container { return s.c }

// ResolveFrom builds or retrieves the instance registered under the key T,
// with this scope active. Singleton and transient keys behave exactly as in
// direct container resolution.
func ResolveFrom[T any](s *Scope) (T, error) {
	return assertInstance[T](s.Get(reflect.TypeOf((*T)(nil)).Elem()))
}

// Get is the untyped counterpart of ResolveFrom.
func (s *Scope) Get(key reflect.Type) (any, error) {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return nil, ErrScopeClosed
	}
	return s.c.resolve(key, &resolutionContext{scope: s})
}

// Len returns the number of scoped instances created so far in this scope.
func (s *Scope) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.instances)
}

// Close disposes every scoped instance created during this scope that carries
// a dispose callback, newest-first, then discards the scope's storage. Every
// callback runs exactly once even when others fail; failures are logged and
// returned aggregated. Close is idempotent and safe to defer on error paths —
// disposal is not skippable when the unit of work fails.
func (s *Scope) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	disposers := s.disposers
	s.disposers = nil
	s.instances = nil
	s.mu.Unlock()

	return runDisposers(disposers)
}

// ExitScope closes the given scope. Equivalent to scope.Close; the method
// form reads better when the container manages the boundary.
func (c *Container) ExitScope(s *Scope) error {
	return s.Close()
}

func (s *Scope) cached(key reflect.Type) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	instance, ok := s.instances[key]
	return instance, ok
}

// resolveScoped mirrors the singleton path with the scope as the store: a
// per-key guard serializes first construction so concurrent resolutions
// within one scope build at most one instance.
func (s *Scope) resolveScoped(desc *ServiceDescriptor, rc *resolutionContext) (any, error) {
	lock := s.buildLock(desc.Key)
	lock.Lock()
	defer lock.Unlock()

	if instance, ok := s.cached(desc.Key); ok {
		return instance, nil
	}

	instance, err := s.c.construct(desc, rc)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrScopeClosed
	}
	s.instances[desc.Key] = instance
	if desc.HasDispose() {
		s.disposers = append(s.disposers, makeDisposer(desc, instance))
	}
	s.mu.Unlock()
	return instance, nil
}

func (s *Scope) buildLock(key reflect.Type) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	lock, ok := s.buildLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.buildLocks[key] = lock
	}
	return lock
}

// ── Context threading ─────────────────────────────────────────────────────────

type scopeContextKey struct{}

// WithScope returns a context carrying the scope, so code further down the
// call chain can reach the active scope without an explicit reference.
func WithScope(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, scopeContextKey{}, s)
}

// ScopeFromContext returns the scope carried by ctx, if any.
func ScopeFromContext(ctx context.Context) (*Scope, bool) {
	s, ok := ctx.Value(scopeContextKey{}).(*Scope)
	return s, ok
}
