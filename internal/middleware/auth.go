package middleware

import (
	"net/http"

	"github.com/dukerupert/behaviorchart/internal/auth"
)

// Authenticate reads the session cookies and populates AuthContext. It never
// rejects a request; the Require* guards decide what a route needs.
func Authenticate(sessions *auth.Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := auth.WithAuth(r.Context(), sessions.Read(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser redirects to the user login page unless the user flag is set.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.IsUser(r.Context()) {
			redirectTo(w, r, "/login")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin redirects to the admin login page unless the admin flag is set.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.IsAdmin(r.Context()) {
			redirectTo(w, r, "/admin")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func redirectTo(w http.ResponseWriter, r *http.Request, target string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
