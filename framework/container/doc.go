// Package container provides a runtime dependency-injection container with
// configurable service lifetimes, per-request scopes, and build-time graph
// validation.
//
// # Overview
//
// Services are registered by constructor: the constructor's return type is
// the service key, and its parameter types are the declared dependencies,
// resolved recursively on demand. Because Go has no parameterized methods,
// resolution is exposed as generic package functions.
//
// # Container Lifecycle
//
//  1. Create: c := container.New()
//  2. Register: c.AddSingleton(...).AddScoped(...).Install(installers...)
//  3. Validate: msgs := c.Validate() — abort startup when non-empty
//  4. Serve: one scope per unit of work, closed when the work ends
//
// # Lifetimes
//
//	// Singleton — one instance for the container's life
//	c.AddSingleton(NewGreetingService)
//
//	// Scoped — one instance per active scope (e.g. per request)
//	c.AddScoped(NewUserRepository, func(r UserRepository) error { return r.Close() })
//
//	// Transient — a fresh instance on every resolution
//	c.AddTransient(NewIDGenerator)
//
// # Resolving
//
//	svc, err := container.Resolve[GreetingService](c)
//
//	scope := c.EnterScope()
//	defer scope.Close()
//	repo, err := container.ResolveFrom[UserRepository](scope)
//
// Resolving a scoped key without a scope fails with ScopeRequiredError — it
// never silently falls back to another lifetime. A dependency chain that
// revisits a key fails with CircularDependencyError naming the full chain.
//
// # Factories
//
// A factory is invoked directly, with no automatic parameter resolution:
//
//	c.AddScopedFactory(func(c *container.Container) (Session, error) {
//	    pool, err := container.Resolve[*Pool](c)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return pool.Open()
//	})
//
// # Scopes and disposal
//
// A Scope isolates state for one concurrently executing unit of work. Closing
// it runs every recorded dispose callback exactly once, including on error
// paths, and aggregates callback failures without dropping any. Scopes travel
// through context.Context via WithScope / ScopeFromContext, which is how the
// request middleware threads them.
//
// # Validation
//
//	if msgs := c.Validate(); len(msgs) > 0 {
//	    return &container.ValidationError{Messages: msgs}
//	}
//
// Validate walks the declared graph without instantiating anything and
// reports every missing and circular dependency at once. ValidateEndpoint
// checks a single callable's parameters against the registry.
//
// # Ambient resolution
//
// SetActive installs a process-wide container for code with no explicit
// reference; ResolveGlobal resolves against it, reading the active scope
// from the caller's context. This is a deliberate ergonomics trade-off
// against strict dependency passing — prefer explicit wiring.
package container
