// Package http provides request/response helpers and container-aware
// middleware for HTTP handlers.
//
// # Request
//
// Request wraps *http.Request with a fluent input API.
//
//	req := gohttp.NewRequest(r)
//
//	// Bind JSON / form body into a struct
//	var payload struct {
//	    Name string `json:"name"`
//	}
//	if err := req.Bind(&payload); err != nil { ... }
//
//	// Input retrieval (query string + POST body)
//	name := req.Input("name", "default")
//	page := req.Query("page", "1")
//	ok   := req.Has("name")
//
//	// Route params (requires Chi router)
//	id := req.RouteParam("id")
//
//	// Headers and auth
//	token := req.BearerToken()
//	val   := req.Header("X-Custom")
//
// # Response
//
// Response wraps http.ResponseWriter with JSON helpers.
//
//	res := gohttp.NewResponse(w)
//
//	res.JSON(200, data)           // raw JSON with status
//	res.Success(data)             // 200 {"data": ...}
//	res.Created(data)             // 201 {"data": ...}
//	res.NoContent()               // 204
//
//	res.Error(400, "bad input")   // {"message": "bad input"}
//	res.Unauthorized()            // 401 {"message": "Unauthenticated."}
//	res.NotFound()                // 404 {"message": "Not found."}
//	res.ServerError()             // 500 {"message": "Server Error."}
//
// # RequestScope
//
// RequestScope is a middleware that opens a container scope per request.
// Scoped services resolved during the request share one instance, and
// their dispose callbacks run when the request ends.
//
//	router.Middleware(gohttp.RequestScope(c))
//
//	// inside a handler:
//	scope, _ := container.ScopeFromContext(r.Context())
//	svc, err := container.ResolveFrom[*UserService](scope)
package http
