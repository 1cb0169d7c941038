// Package app wires the container, configuration, and router into a
// runnable application.
package app

import (
	"fmt"
	"log"
	"net/http"

	"github.com/km-arc/go-inject/framework/config"
	"github.com/km-arc/go-inject/framework/container"
	gohttp "github.com/km-arc/go-inject/framework/http"
	"github.com/km-arc/go-inject/framework/providers"
	"github.com/km-arc/go-inject/framework/routing"
)

// Application is the top-level application container.
// It embeds the IoC Container so user code can call app.AddSingleton(),
// app.AddScoped(), app.Install() directly.
type Application struct {
	*container.Container

	controllers []any
	validate    bool
	built       bool
}

// New creates the application and installs the framework core
// (configuration and routing) into its container.
func New(envFiles ...string) *Application {
	c := container.New()
	c.Install(
		providers.Config(envFiles...),
		providers.Routing(),
	)

	return &Application{
		Container: c,
		validate:  true,
	}
}

// WithValidation toggles graph validation during Build. On by default.
func (a *Application) WithValidation(on bool) *Application {
	a.validate = on
	return a
}

// RegisterController registers a controller constructor as a scoped
// service. The constructor's parameters are checked during Build so a
// missing dependency fails at startup instead of on the first request.
func (a *Application) RegisterController(ctor any) *Application {
	a.AddScoped(ctor)
	a.controllers = append(a.controllers, ctor)
	return a
}

// Build validates the dependency graph, installs the per-request scope
// middleware, and promotes the container to the process-wide active one.
// Registration after Build still works but is not re-validated.
func (a *Application) Build() error {
	if a.built {
		return nil
	}

	if a.validate {
		msgs := a.Validate()
		for _, ctor := range a.controllers {
			msgs = append(msgs, a.ValidateEndpoint(ctor)...)
		}
		if len(msgs) > 0 {
			return &container.ValidationError{Messages: msgs}
		}
	}

	a.Router().Middleware(gohttp.RequestScope(a.Container))
	container.SetActive(a.Container)
	a.built = true
	return nil
}

// Config resolves *config.Config from the container.
func (a *Application) Config() *config.Config {
	return container.MustResolve[*config.Config](a.Container)
}

// Router resolves *routing.Router from the container.
func (a *Application) Router() *routing.Router {
	return container.MustResolve[*routing.Router](a.Container)
}

// Run builds the application (if needed) and starts the HTTP server.
func (a *Application) Run() {
	if err := a.Build(); err != nil {
		log.Fatalf("app: %v", err)
	}
	cfg := a.Config()
	addr := ":" + cfg.App.Port
	fmt.Printf("%s running on http://localhost%s  [%s]\n",
		cfg.App.Name, addr, cfg.App.Env)
	if err := http.ListenAndServe(addr, a.Router()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// Close demotes the container from active and disposes its singletons.
func (a *Application) Close() error {
	if container.Active() == a.Container {
		container.ClearActive()
	}
	return a.Container.Close()
}

// Environment returns the APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }

// Controller is an embeddable base for HTTP controllers.
type Controller struct{}

func (c *Controller) Request(r *http.Request) *gohttp.Request {
	return gohttp.NewRequest(r)
}
func (c *Controller) Response(w http.ResponseWriter) *gohttp.Response {
	return gohttp.NewResponse(w)
}
