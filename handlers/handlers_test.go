package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"barhop-server/services"
	"barhop-server/store"
)

const testJWTSecret = "test-secret"

type testEnv struct {
	router *mux.Router
	users  *services.UserService
	bars   *services.BarService
}

// newTestEnv wires the full router over the memory store. teamURL may be
// empty when the test never expands fav teams.
func newTestEnv(t *testing.T, teamURL string) *testEnv {
	t.Helper()
	userStore := store.NewMemoryUserStore()
	barStore := store.NewMemoryBarStore()
	userService := services.NewUserService(userStore, barStore, nil, testJWTSecret)
	barService := services.NewBarService(barStore, userStore)
	teamService := services.NewTeamService(teamURL, nil)

	router := NewRouter(
		NewAuthHandler(userService),
		NewUserHandler(userService, teamService),
		NewBarHandler(barService),
		userService, barService,
		testJWTSecret, []string{"*"},
	)
	return &testEnv{router: router, users: userService, bars: barService}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(dst))
}

// createUser registers through the API and returns the response body.
func (e *testEnv) createUser(t *testing.T, username string) map[string]any {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/users", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var user map[string]any
	decodeBody(t, rec, &user)
	return user
}

func (e *testEnv) login(t *testing.T, username string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"username": username,
		"password": "password",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	decodeBody(t, rec, &body)
	require.NotEmpty(t, body["token"])
	return body["token"]
}

func (e *testEnv) createBar(t *testing.T, name string, lat, lon float64) map[string]any {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/bars", "", map[string]any{
		"name":      name,
		"placeId":   "place-" + name,
		"latitude":  lat,
		"longitude": lon,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var bar map[string]any
	decodeBody(t, rec, &bar)
	return bar
}
