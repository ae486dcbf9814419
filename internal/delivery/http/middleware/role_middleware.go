package middleware

import (
	"net/http"

	"go-doctor-scheduling/internal/domain/entity"
	"go-doctor-scheduling/pkg/response"
)

// Route guards for the three audiences of the API. Must run after
// Authenticate, which puts the Principal into the request context.
var (
	RequireAdmin   = RequireRole(entity.RoleIDAdmin)
	RequireDoctor  = RequireRole(entity.RoleIDDoctor)
	RequirePatient = RequireRole(entity.RoleIDPatient)
)

// RequireRole admits callers whose role is one of roleIDs. A request without
// a Principal is unauthenticated (401); a wrong role is forbidden (403).
func RequireRole(roleIDs ...int) func(http.Handler) http.Handler {
	allowed := make(map[int]struct{}, len(roleIDs))
	for _, id := range roleIDs {
		allowed[id] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}
			if _, ok := allowed[p.RoleID]; !ok {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
