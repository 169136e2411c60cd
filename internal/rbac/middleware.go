package rbac

import (
	"errors"
	"net/http"

	"github.com/mind-engage/mindengage-quiz/internal/apierr"
)

var errForbidden = apierr.New(http.StatusForbidden, "forbidden", errors.New("forbidden"))

var defaultChecker = NewChecker(nil)

// Default is the checker behind Require and RequireAny.
func Default() *Checker { return defaultChecker }

// Require enforces a single permission.
func Require(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if role == "" || !defaultChecker.Has(role, perm) {
				apierr.Write(w, errForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAny enforces that the role has at least one of the permissions.
func RequireAny(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if role == "" || !defaultChecker.Any(role, perms...) {
				apierr.Write(w, errForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
