package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginEndpoint(t *testing.T) {
	env := newTestEnv(t, "")
	env.createUser(t, "a")

	token := env.login(t, "a")
	assert.NotEmpty(t, token)
}

func TestLoginBadCredentials(t *testing.T) {
	env := newTestEnv(t, "")
	env.createUser(t, "a")

	rec := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "a",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "nobody",
		"password": "password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginValidation(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{"username": "a"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
