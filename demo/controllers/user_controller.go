// Package controllers holds the demo HTTP controllers. Controllers are
// scoped services: one instance is built per request, with its
// dependencies drawn from the request scope.
package controllers

import (
	"net/http"
	"strconv"

	"github.com/km-arc/go-inject/demo/services"
	"github.com/km-arc/go-inject/framework/app"
	"github.com/km-arc/go-inject/framework/routing"
)

// UserController serves the /users endpoints.
type UserController struct {
	app.Controller
	users    services.UserService
	greeting *services.GreetingService
}

// NewUserController constructs the controller. Both dependencies are
// injected by the container.
func NewUserController(users services.UserService, greeting *services.GreetingService) *UserController {
	return &UserController{users: users, greeting: greeting}
}

// Index handles GET /users.
func (c *UserController) Index(w http.ResponseWriter, r *http.Request) {
	c.Response(w).Success(c.users.ListUsers())
}

// Show handles GET /users/{id}.
func (c *UserController) Show(w http.ResponseWriter, r *http.Request) {
	res := c.Response(w)

	id, err := strconv.Atoi(routing.Param(r, "id"))
	if err != nil {
		res.Error(http.StatusBadRequest, "user id must be numeric")
		return
	}

	user, ok := c.users.GetUser(id)
	if !ok {
		res.NotFound("User not found.")
		return
	}
	res.Success(user)
}

// Greet handles GET /users/{id}/greet.
func (c *UserController) Greet(w http.ResponseWriter, r *http.Request) {
	res := c.Response(w)

	id, err := strconv.Atoi(routing.Param(r, "id"))
	if err != nil {
		res.Error(http.StatusBadRequest, "user id must be numeric")
		return
	}

	user, ok := c.users.GetUser(id)
	if !ok {
		res.NotFound("User not found.")
		return
	}
	res.Success(map[string]any{
		"greeting": c.greeting.Greet(user.Name),
		"served":   c.greeting.Served(),
	})
}
