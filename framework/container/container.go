package container

import (
	"fmt"
	"reflect"
	"sync"
)

// ── Lifetimes ─────────────────────────────────────────────────────────────────

// Lifetime governs how resolved instances are cached and shared.
type Lifetime int

const (
	// Transient services are constructed fresh on every resolution.
	Transient Lifetime = iota + 1
	// Scoped services are constructed once per active scope.
	Scoped
	// Singleton services are constructed once for the container's lifetime.
	Singleton
)

func (l Lifetime) String() string {
	switch l {
	case Transient:
		return "Transient"
	case Scoped:
		return "Scoped"
	case Singleton:
		return "Singleton"
	default:
		return "Unknown"
	}
}

// ── Descriptors ───────────────────────────────────────────────────────────────

// ServiceDescriptor is the registered recipe for one service key: a
// constructor or factory, a lifetime, and an optional dispose callback.
type ServiceDescriptor struct {
	Key      reflect.Type
	Lifetime Lifetime

	// Exactly one of the three is set.
	ctor    reflect.Value // func(deps...) T | func(deps...) (T, error)
	factory reflect.Value // func() T | func(*Container) T | ... (T, error)
	value   reflect.Value // pre-built instance

	deps    []reflect.Type // constructor parameter types
	dispose reflect.Value  // func(T) | func(T) error, zero when absent
}

// Dependencies returns the declared dependency keys of a constructor-based
// descriptor. Factory and value descriptors declare none: whatever a factory
// needs it resolves explicitly from the container it receives.
func (d *ServiceDescriptor) Dependencies() []reflect.Type {
	return d.deps
}

// HasDispose reports whether a dispose callback was registered.
func (d *ServiceDescriptor) HasDispose() bool {
	return d.dispose.IsValid()
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the service registry and resolver. Register constructors at
// configuration time, then resolve instances with Resolve or through a Scope.
//
// The zero value is not usable; create one with New.
type Container struct {
	mu          sync.RWMutex
	descriptors map[reflect.Type]*ServiceDescriptor

	// Lazily populated singleton store, purged together with the
	// descriptors by Clear.
	singletons map[reflect.Type]any
	disposers  []func() error // singleton dispose callbacks, run by Close

	// Per-key construction guards so a singleton is built at most once
	// even under concurrent first access.
	lockMu     sync.Mutex
	buildLocks map[reflect.Type]*sync.Mutex
}

// New creates an empty container. The container registers itself, so
// constructors and factories may declare a *Container parameter.
func New() *Container {
	c := &Container{
		descriptors: make(map[reflect.Type]*ServiceDescriptor),
		singletons:  make(map[reflect.Type]any),
		buildLocks:  make(map[reflect.Type]*sync.Mutex),
	}
	c.AddValue(c)
	return c
}

// ── Registration ──────────────────────────────────────────────────────────────

// AddSingleton registers a constructor whose result is shared for the
// container's entire life. The service key is the constructor's return type;
// its parameter types are resolved recursively at construction time.
//
//	c.AddSingleton(NewGreetingService)
//	c.AddScoped(repositories.NewUserRepository, func(r repositories.UserRepository) error {
//	    return r.Close()
//	})
//
// The optional dispose callback must be func(T) or func(T) error and runs at
// container Close. Registering a key twice replaces the previous descriptor
// and drops any cached instance for it.
func (c *Container) AddSingleton(ctor any, dispose ...any) *Container {
	return c.register(newConstructorDescriptor(ctor, Singleton, dispose))
}

// AddScoped registers a constructor whose result is shared within one active
// scope. The dispose callback, if present, runs when the owning scope closes.
func (c *Container) AddScoped(ctor any, dispose ...any) *Container {
	return c.register(newConstructorDescriptor(ctor, Scoped, dispose))
}

// AddTransient registers a constructor invoked on every resolution. The
// container never caches or disposes transient instances.
func (c *Container) AddTransient(ctor any, dispose ...any) *Container {
	return c.register(newConstructorDescriptor(ctor, Transient, dispose))
}

// AddSingletonFactory registers a factory for a singleton service. Unlike a
// constructor, a factory is invoked directly with no automatic parameter
// resolution: it takes no arguments or a single *Container, and resolves any
// nested dependencies explicitly.
//
//	c.AddSingletonFactory(func(c *container.Container) (Mailer, error) {
//	    cfg, err := container.Resolve[*config.Config](c)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return NewSMTPMailer(cfg), nil
//	})
func (c *Container) AddSingletonFactory(factory any, dispose ...any) *Container {
	return c.register(newFactoryDescriptor(factory, Singleton, dispose))
}

// AddScopedFactory registers a factory for a scoped service.
func (c *Container) AddScopedFactory(factory any, dispose ...any) *Container {
	return c.register(newFactoryDescriptor(factory, Scoped, dispose))
}

// AddTransientFactory registers a factory invoked on every resolution.
func (c *Container) AddTransientFactory(factory any, dispose ...any) *Container {
	return c.register(newFactoryDescriptor(factory, Transient, dispose))
}

// AddValue registers a pre-built instance as a singleton under its dynamic
// type. Use RegisterValue to register a value under an interface key.
func (c *Container) AddValue(value any) *Container {
	if value == nil {
		panic("container: cannot register a nil value")
	}
	return c.registerValue(reflect.TypeOf(value), reflect.ValueOf(value))
}

// RegisterValue registers a pre-built instance as a singleton under the key T.
//
//	container.RegisterValue[Clock](c, systemClock{})
func RegisterValue[T any](c *Container, value T) *Container {
	return c.registerValue(reflect.TypeOf((*T)(nil)).Elem(), reflect.ValueOf(&value).Elem())
}

func (c *Container) registerValue(key reflect.Type, value reflect.Value) *Container {
	desc := &ServiceDescriptor{
		Key:      key,
		Lifetime: Singleton,
		value:    value,
	}
	c.mu.Lock()
	c.descriptors[key] = desc
	c.singletons[key] = value.Interface()
	c.mu.Unlock()
	return c
}

func (c *Container) register(desc *ServiceDescriptor) *Container {
	c.mu.Lock()
	c.descriptors[desc.Key] = desc
	// Drop a stale instance so the key is rebuilt with the new recipe.
	delete(c.singletons, desc.Key)
	c.mu.Unlock()
	return c
}

// newConstructorDescriptor validates ctor as func(deps...) T or
// func(deps...) (T, error) and derives the service key from T.
func newConstructorDescriptor(ctor any, lifetime Lifetime, dispose []any) *ServiceDescriptor {
	fn := reflect.ValueOf(ctor)
	key := returnType(fn, "constructor")

	t := fn.Type()
	deps := make([]reflect.Type, t.NumIn())
	for i := range deps {
		deps[i] = t.In(i)
	}

	return &ServiceDescriptor{
		Key:      key,
		Lifetime: lifetime,
		ctor:     fn,
		deps:     deps,
		dispose:  disposeValue(key, dispose),
	}
}

var containerType = reflect.TypeOf((*Container)(nil))

// newFactoryDescriptor validates factory as func() T, func(*Container) T, or
// either shape returning (T, error).
func newFactoryDescriptor(factory any, lifetime Lifetime, dispose []any) *ServiceDescriptor {
	fn := reflect.ValueOf(factory)
	key := returnType(fn, "factory")

	t := fn.Type()
	switch t.NumIn() {
	case 0:
	case 1:
		if t.In(0) != containerType {
			panic(fmt.Sprintf("container: factory for %v may only take a *container.Container parameter, got %v", key, t.In(0)))
		}
	default:
		panic(fmt.Sprintf("container: factory for %v must take no arguments or a single *container.Container", key))
	}

	return &ServiceDescriptor{
		Key:      key,
		Lifetime: lifetime,
		factory:  fn,
		dispose:  disposeValue(key, dispose),
	}
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// returnType checks that fn returns exactly one value or a (value, error)
// tuple and returns the value type, which becomes the service key.
func returnType(fn reflect.Value, kind string) reflect.Type {
	if !fn.IsValid() || fn.Kind() != reflect.Func {
		panic(fmt.Sprintf("container: %s must be a function", kind))
	}
	t := fn.Type()
	if t.NumOut() < 1 || t.NumOut() > 2 {
		panic(fmt.Sprintf("container: %s must return exactly one value, or a value and an error", kind))
	}
	if t.NumOut() == 2 && !t.Out(1).AssignableTo(errorType) {
		panic(fmt.Sprintf("container: second return value of a %s must be an error", kind))
	}
	return t.Out(0)
}

// disposeValue validates an optional dispose callback as func(T) or
// func(T) error, where T accepts the service key type.
func disposeValue(key reflect.Type, dispose []any) reflect.Value {
	if len(dispose) == 0 {
		return reflect.Value{}
	}
	if len(dispose) > 1 {
		panic(fmt.Sprintf("container: at most one dispose callback may be given for %v", key))
	}
	fn := reflect.ValueOf(dispose[0])
	if !fn.IsValid() || fn.Kind() != reflect.Func {
		panic(fmt.Sprintf("container: dispose callback for %v must be a function", key))
	}
	t := fn.Type()
	if t.NumIn() != 1 || !key.AssignableTo(t.In(0)) {
		panic(fmt.Sprintf("container: dispose callback for %v must take the service as its only parameter", key))
	}
	if t.NumOut() > 1 || (t.NumOut() == 1 && !t.Out(0).AssignableTo(errorType)) {
		panic(fmt.Sprintf("container: dispose callback for %v must return nothing or an error", key))
	}
	return fn
}

// ── Composition ───────────────────────────────────────────────────────────────

// Installer composes registration logic across independent modules.
type Installer func(*Container)

// Install applies one or more installers in order. Chainable, so several
// installer groups compose in one expression:
//
//	c.Install(installers.Repositories).Install(installers.Services)
func (c *Container) Install(installers ...Installer) *Container {
	for _, install := range installers {
		install(c)
	}
	return c
}

// ── Introspection ─────────────────────────────────────────────────────────────

// IsRegistered reports whether a descriptor exists for key.
func (c *Container) IsRegistered(key reflect.Type) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.descriptors[key]
	return ok
}

// Registered reports whether the key T is registered.
func Registered[T any](c *Container) bool {
	return c.IsRegistered(reflect.TypeOf((*T)(nil)).Elem())
}

// GetRegistration returns the active descriptor for key, if any.
func (c *Container) GetRegistration(key reflect.Type) (*ServiceDescriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	desc, ok := c.descriptors[key]
	return desc, ok
}

// Keys returns every registered service key.
func (c *Container) Keys() []reflect.Type {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]reflect.Type, 0, len(c.descriptors))
	for key := range c.descriptors {
		keys = append(keys, key)
	}
	return keys
}

// ── Lifecycle ─────────────────────────────────────────────────────────────────

// Clear removes every descriptor and purges the singleton store in one
// critical section: nothing registered before Clear is observable by a
// resolution that starts afterwards. Pending singleton dispose callbacks are
// dropped, not run; call Close first to dispose.
func (c *Container) Clear() {
	c.mu.Lock()
	c.descriptors = make(map[reflect.Type]*ServiceDescriptor)
	c.singletons = make(map[reflect.Type]any)
	c.disposers = nil
	c.mu.Unlock()

	c.lockMu.Lock()
	c.buildLocks = make(map[reflect.Type]*sync.Mutex)
	c.lockMu.Unlock()

	c.AddValue(c)
}

// Close disposes every singleton the container constructed, most recent
// first. Dispose failures are collected; one failing callback never prevents
// the rest from running.
func (c *Container) Close() error {
	c.mu.Lock()
	disposers := c.disposers
	c.disposers = nil
	c.mu.Unlock()

	return runDisposers(disposers)
}

func (c *Container) buildLock(key reflect.Type) *sync.Mutex {
	c.lockMu.Lock()
	defer c.lockMu.Unlock()
	lock, ok := c.buildLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		c.buildLocks[key] = lock
	}
	return lock
}
