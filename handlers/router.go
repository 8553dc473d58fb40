package handlers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"barhop-server/middleware"
)

// NewRouter binds the HTTP surface. Per-resource subrouters compose the
// guard pipeline in order: load entity, authenticate, check ownership.
func NewRouter(auth *AuthHandler, users *UserHandler, bars *BarHandler,
	userLoader middleware.UserLoader, barLoader middleware.BarLoader,
	jwtSecret string, allowedOrigins []string) *mux.Router {

	r := mux.NewRouter()
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.CORSMiddleware(allowedOrigins))

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	}).Methods("GET")
	r.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Ready")
	}).Methods("GET")

	r.HandleFunc("/auth/login", auth.Login).Methods("POST", "OPTIONS")

	r.HandleFunc("/users", users.ListUsers).Methods("GET", "OPTIONS")
	r.HandleFunc("/users", users.CreateUser).Methods("POST", "OPTIONS")
	r.HandleFunc("/users/search", users.SearchUsers).Methods("GET", "OPTIONS")

	// Public single-user reads.
	userRead := r.PathPrefix("/users/{userId}").Subrouter()
	userRead.Use(middleware.LoadUser(userLoader))
	userRead.HandleFunc("", users.GetUser).Methods("GET", "OPTIONS")

	// Owner-only user mutations.
	userWrite := r.PathPrefix("/users/{userId}").Subrouter()
	userWrite.Use(middleware.LoadUser(userLoader))
	userWrite.Use(middleware.JWTMiddleware(jwtSecret))
	userWrite.Use(middleware.RequireOwner())
	userWrite.HandleFunc("", users.UpdateUser).Methods("PUT", "OPTIONS")
	userWrite.HandleFunc("", users.DeleteUser).Methods("DELETE", "OPTIONS")
	userWrite.HandleFunc("/favTeam", users.UpdateFavTeam).Methods("PUT", "OPTIONS")
	userWrite.HandleFunc("/follow", users.UpdateFollow).Methods("PUT", "OPTIONS")
	userWrite.HandleFunc("/followingBar", users.UpdateFollowingBar).Methods("PUT", "OPTIONS")

	r.HandleFunc("/bars", bars.ListBars).Methods("GET", "OPTIONS")
	r.HandleFunc("/bars", bars.CreateBar).Methods("POST", "OPTIONS")
	r.HandleFunc("/bars/search", bars.SearchBars).Methods("GET", "OPTIONS")

	barRouter := r.PathPrefix("/bars/{barId}").Subrouter()
	barRouter.Use(middleware.LoadBar(barLoader))
	barRouter.HandleFunc("", bars.GetBar).Methods("GET", "OPTIONS")
	// Bar deletion carries no ownership check; bars have no owner field.
	barRouter.HandleFunc("", bars.DeleteBar).Methods("DELETE", "OPTIONS")

	return r
}
