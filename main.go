package main

import (
	"log"
	"net/http"

	"github.com/km-arc/go-inject/demo/controllers"
	"github.com/km-arc/go-inject/demo/installers"
	"github.com/km-arc/go-inject/framework/app"
	"github.com/km-arc/go-inject/framework/container"
	gohttp "github.com/km-arc/go-inject/framework/http"
	"github.com/km-arc/go-inject/framework/routing"
)

func main() {
	application := app.New() // loads .env automatically

	application.Install(
		installers.InstallRepositories,
		installers.InstallServices,
	)
	application.RegisterController(controllers.NewUserController)

	// Validates the graph and opens a scope per request.
	if err := application.Build(); err != nil {
		log.Fatalf("app: %v", err)
	}

	r := application.Router()

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		gohttp.NewResponse(w).Success(map[string]any{"message": "Welcome to go-inject!"})
	})

	r.Prefix("/users", func(users *routing.Router) {
		users.Get("/", handle((*controllers.UserController).Index))
		users.Get("/{id}", handle((*controllers.UserController).Show))
		users.Get("/{id}/greet", handle((*controllers.UserController).Greet))
	})

	application.Run()
}

// handle resolves the controller from the request scope and dispatches
// to the given action.
func handle(action func(*controllers.UserController, http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, err := container.ResolveGlobal[*controllers.UserController](r.Context())
		if err != nil {
			gohttp.NewResponse(w).ServerError(err.Error())
			return
		}
		action(ctrl, w, r)
	}
}
