package container

import (
	"errors"
	"log"
	"reflect"
	"slices"
)

// resolutionContext is per-top-level-resolve state: the scope (if any) the
// call runs under and the chain of keys currently being constructed, used to
// detect cycles. It is discarded when the top-level call returns.
type resolutionContext struct {
	scope *Scope
	stack []reflect.Type
}

// Resolve builds or retrieves the instance registered under the key T.
//
//	svc, err := container.Resolve[GreetingService](c)
//
// Scoped keys cannot be resolved directly on the container; resolve them
// through a Scope (see EnterScope) or ResolveFrom.
func Resolve[T any](c *Container) (T, error) {
	return assertInstance[T](c.Get(reflect.TypeOf((*T)(nil)).Elem()))
}

// MustResolve is Resolve for wiring paths where a failure is a programming
// error. It panics instead of returning one.
func MustResolve[T any](c *Container) T {
	v, err := Resolve[T](c)
	if err != nil {
		panic(err)
	}
	return v
}

// Get is the untyped counterpart of Resolve.
func (c *Container) Get(key reflect.Type) (any, error) {
	return c.resolve(key, &resolutionContext{})
}

func assertInstance[T any](instance any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		// Only reachable when a descriptor was registered under an
		// incompatible key, which registration already rejects.
		return zero, &ConstructionError{
			Type: reflect.TypeOf((*T)(nil)).Elem(),
			Err:  errors.New("resolved instance has unexpected type"),
		}
	}
	return typed, nil
}

func (c *Container) resolve(key reflect.Type, rc *resolutionContext) (any, error) {
	desc, ok := c.GetRegistration(key)
	if !ok {
		return nil, &NotRegisteredError{Type: key}
	}

	// Cached instances short-circuit before any cycle bookkeeping: a chain
	// that reaches an already-built service terminates there.
	switch desc.Lifetime {
	case Singleton:
		if instance, ok := c.cachedSingleton(key); ok {
			return instance, nil
		}
	case Scoped:
		if rc.scope == nil {
			return nil, &ScopeRequiredError{Type: key}
		}
		if instance, ok := rc.scope.cached(key); ok {
			return instance, nil
		}
	}

	if slices.Contains(rc.stack, key) {
		chain := append(slices.Clone(rc.stack), key)
		return nil, &CircularDependencyError{Chain: chain}
	}
	rc.stack = append(rc.stack, key)
	defer func() { rc.stack = rc.stack[:len(rc.stack)-1] }()

	switch desc.Lifetime {
	case Singleton:
		return c.resolveSingleton(desc, rc)
	case Scoped:
		return rc.scope.resolveScoped(desc, rc)
	default:
		return c.construct(desc, rc)
	}
}

// resolveSingleton serializes first construction per key: the per-key guard
// plus a second cache check guarantee at-most-one constructor run even when
// many goroutines race on first access.
func (c *Container) resolveSingleton(desc *ServiceDescriptor, rc *resolutionContext) (any, error) {
	lock := c.buildLock(desc.Key)
	lock.Lock()
	defer lock.Unlock()

	if instance, ok := c.cachedSingleton(desc.Key); ok {
		return instance, nil
	}

	instance, err := c.construct(desc, rc)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.singletons[desc.Key] = instance
	if desc.HasDispose() {
		c.disposers = append(c.disposers, makeDisposer(desc, instance))
	}
	c.mu.Unlock()
	return instance, nil
}

func (c *Container) cachedSingleton(key reflect.Type) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	instance, ok := c.singletons[key]
	return instance, ok
}

// construct invokes the descriptor's recipe. Constructor parameters are
// resolved recursively through the same resolution context; factories are
// called directly with no automatic parameter resolution.
func (c *Container) construct(desc *ServiceDescriptor, rc *resolutionContext) (any, error) {
	switch {
	case desc.value.IsValid():
		return desc.value.Interface(), nil

	case desc.factory.IsValid():
		var args []reflect.Value
		if desc.factory.Type().NumIn() == 1 {
			args = []reflect.Value{reflect.ValueOf(c)}
		}
		return callRecipe(desc, desc.factory, args)

	default:
		args := make([]reflect.Value, len(desc.deps))
		for i, dep := range desc.deps {
			instance, err := c.resolve(dep, rc)
			if err != nil {
				return nil, err
			}
			args[i] = instanceValue(instance, dep)
		}
		return callRecipe(desc, desc.ctor, args)
	}
}

// callRecipe calls a constructor or factory and unwraps an optional trailing
// error, wrapping it so callers can tell a recipe failure from a graph error.
func callRecipe(desc *ServiceDescriptor, fn reflect.Value, args []reflect.Value) (any, error) {
	results := fn.Call(args)
	if len(results) == 2 && !results[1].IsNil() {
		return nil, &ConstructionError{Type: desc.Key, Err: results[1].Interface().(error)}
	}
	return results[0].Interface(), nil
}

// instanceValue re-types an instance for a call argument slot; a nil
// interface instance needs an explicitly typed zero value.
func instanceValue(instance any, t reflect.Type) reflect.Value {
	v := reflect.ValueOf(instance)
	if !v.IsValid() {
		return reflect.Zero(t)
	}
	return v
}

func makeDisposer(desc *ServiceDescriptor, instance any) func() error {
	return func() error {
		out := desc.dispose.Call([]reflect.Value{instanceValue(instance, desc.Key)})
		if len(out) == 1 && !out[0].IsNil() {
			return &DisposeError{Type: desc.Key, Err: out[0].Interface().(error)}
		}
		return nil
	}
}

// runDisposers runs dispose callbacks newest-first. Every callback runs even
// when earlier ones fail; failures are logged and returned aggregated.
func runDisposers(disposers []func() error) error {
	var errs []error
	for i := len(disposers) - 1; i >= 0; i-- {
		if err := disposers[i](); err != nil {
			log.Printf("container: %v", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
