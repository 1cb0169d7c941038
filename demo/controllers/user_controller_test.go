package controllers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-inject/demo/controllers"
	"github.com/km-arc/go-inject/demo/installers"
	"github.com/km-arc/go-inject/framework/app"
	"github.com/km-arc/go-inject/framework/container"
	"github.com/km-arc/go-inject/framework/routing"
)

func newDemoApp(t *testing.T) *app.Application {
	t.Helper()

	a := app.New()
	a.Install(installers.InstallRepositories, installers.InstallServices)
	a.RegisterController(controllers.NewUserController)
	require.NoError(t, a.Build())
	t.Cleanup(func() { _ = a.Close() })

	a.Router().Prefix("/users", func(users *routing.Router) {
		users.Get("/", dispatch(t, (*controllers.UserController).Index))
		users.Get("/{id}", dispatch(t, (*controllers.UserController).Show))
		users.Get("/{id}/greet", dispatch(t, (*controllers.UserController).Greet))
	})
	return a
}

func dispatch(t *testing.T, action func(*controllers.UserController, http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, err := container.ResolveGlobal[*controllers.UserController](r.Context())
		require.NoError(t, err)
		action(ctrl, w, r)
	}
}

func get(a *app.Application, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	a.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestUserController_Index(t *testing.T) {
	a := newDemoApp(t)

	rr := get(a, "/users/")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":[
		{"id":1,"name":"Alice","email":"alice@example.com"},
		{"id":2,"name":"Bob","email":"bob@example.com"}
	]}`, rr.Body.String())
}

func TestUserController_Show(t *testing.T) {
	a := newDemoApp(t)

	rr := get(a, "/users/1")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":{"id":1,"name":"Alice","email":"alice@example.com"}}`, rr.Body.String())

	rr = get(a, "/users/99")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = get(a, "/users/abc")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUserController_Greet(t *testing.T) {
	a := newDemoApp(t)

	rr := get(a, "/users/2/greet")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":{"greeting":"Hello, Bob!","served":1}}`, rr.Body.String())

	// the greeting service is a singleton, so the counter survives
	// across requests
	rr = get(a, "/users/1/greet")
	assert.JSONEq(t, `{"data":{"greeting":"Hello, Alice!","served":2}}`, rr.Body.String())
}
