package middleware

import (
	"net/http"

	"clinic-staffing/internal/domain/entity"
	"clinic-staffing/pkg/response"
)

// RequireRole creates a middleware that checks if the user has any of the required roles
// Role is read from context (set by AuthMiddleware from JWT claims)
func RequireRole(allowedRoleIDs ...int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roleID, ok := GetRoleIDFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			allowed := false
			for _, allowedRoleID := range allowedRoleIDs {
				if roleID == allowedRoleID {
					allowed = true
					break
				}
			}

			if !allowed {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireApproved blocks accounts that have not been confirmed by a
// manager yet. Unapproved doctors can authenticate but not act.
func RequireApproved(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		approved, ok := GetApprovedFromContext(r.Context())
		if !ok || !approved {
			response.Forbidden(w, "Account is pending confirmation")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireManager is a convenience middleware for manager-only endpoints
func RequireManager(next http.Handler) http.Handler {
	return RequireRole(entity.RoleIDManager)(next)
}

// RequireHR is a convenience middleware for HR-only endpoints
func RequireHR(next http.Handler) http.Handler {
	return RequireRole(entity.RoleIDHR)(next)
}

// RequireDoctor is a convenience middleware for doctor-only endpoints
func RequireDoctor(next http.Handler) http.Handler {
	return RequireRole(entity.RoleIDDoctor)(next)
}

// RequireHROrManager is a convenience middleware for staff administration endpoints
func RequireHROrManager(next http.Handler) http.Handler {
	return RequireRole(entity.RoleIDHR, entity.RoleIDManager)(next)
}
