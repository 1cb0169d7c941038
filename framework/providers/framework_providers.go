// Package providers bundles the framework's core container installers.
package providers

import (
	"github.com/km-arc/go-inject/framework/config"
	"github.com/km-arc/go-inject/framework/container"
	"github.com/km-arc/go-inject/framework/routing"
)

// ── Config ───────────────────────────────────────────────────────────────────

// Config loads application configuration from .env files and binds
// *config.Config into the container as a singleton.
func Config(envFiles ...string) container.Installer {
	return func(c *container.Container) {
		c.AddSingletonFactory(func() *config.Config {
			return config.Load(envFiles...)
		})
	}
}

// ── Routing ──────────────────────────────────────────────────────────────────

// Routing binds *routing.Router into the container as a singleton.
// The router comes with the default middleware stack (logging, panic
// recovery, real IP).
func Routing() container.Installer {
	return func(c *container.Container) {
		c.AddSingletonFactory(routing.New)
	}
}
