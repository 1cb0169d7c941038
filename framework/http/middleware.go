package http

import (
	"log"
	"net/http"

	"github.com/km-arc/go-inject/framework/container"
)

// RequestScope opens a container scope for each request and closes it when
// the handler returns, including on panic. Scoped services resolved during
// the request share one instance, and their dispose callbacks run at the
// end of the request.
//
// Handlers reach the scope through the request context:
//
//	scope, _ := container.ScopeFromContext(r.Context())
//	svc, err := container.ResolveFrom[*UserService](scope)
func RequestScope(c *container.Container) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope := c.EnterScope()
			defer func() {
				if err := scope.Close(); err != nil {
					log.Printf("http: closing request scope: %v", err)
				}
			}()

			ctx := container.WithScope(r.Context(), scope)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
