// Package installers groups the demo's service registrations, mirroring
// the installer pattern: each installer owns one slice of the graph.
package installers

import (
	"github.com/km-arc/go-inject/demo/repositories"
	"github.com/km-arc/go-inject/demo/services"
	"github.com/km-arc/go-inject/framework/container"
)

// InstallRepositories registers the data access layer. Repositories are
// scoped: one instance per request, released when the request ends.
func InstallRepositories(c *container.Container) {
	c.AddScoped(repositories.NewUserRepository, func(r repositories.UserRepository) {
		if closer, ok := r.(interface{ Close() }); ok {
			closer.Close()
		}
	})
	c.AddScoped(repositories.NewProductRepository)
}

// InstallServices registers the application services.
func InstallServices(c *container.Container) {
	c.AddScoped(services.NewUserService)
	c.AddSingleton(services.NewGreetingService)
}
