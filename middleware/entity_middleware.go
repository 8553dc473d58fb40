package middleware

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"barhop-server/models"
	"barhop-server/utils/errors"
)

type UserLoader interface {
	Get(ctx context.Context, id string) (*models.User, error)
}

type BarLoader interface {
	Get(ctx context.Context, id string) (*models.Bar, error)
}

// LoadUser resolves the {userId} path parameter into a user document on the
// request context. The whole request fails with NotFound when it is absent.
func LoadUser(users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := users.Get(r.Context(), mux.Vars(r)["userId"])
			if err != nil {
				WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
		})
	}
}

// LoadBar does the same for {barId}.
func LoadBar(bars BarLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bar, err := bars.Get(r.Context(), mux.Vars(r)["barId"])
			if err != nil {
				WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithBar(r.Context(), bar)))
		})
	}
}

// RequireOwner rejects requests whose authenticated principal is not the
// loaded user. Must run after JWTMiddleware and LoadUser.
func RequireOwner() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principalID, ok := PrincipalIDFromContext(r.Context())
			if !ok {
				WriteError(w, errors.ErrUnauthorized)
				return
			}
			user, ok := UserFromContext(r.Context())
			if !ok {
				WriteError(w, errors.ErrNotFound)
				return
			}
			if user.ID != principalID {
				WriteError(w, errors.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
