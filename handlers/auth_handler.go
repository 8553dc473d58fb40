package handlers

import (
	"net/http"

	"barhop-server/middleware"
	"barhop-server/services"
	"barhop-server/utils/validation"
)

type AuthHandler struct {
	users *services.UserService
}

func NewAuthHandler(users *services.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if apiErr := validation.DecodeAndValidate(r, &input); apiErr != nil {
		middleware.WriteError(w, apiErr)
		return
	}
	token, err := h.users.Login(r.Context(), input.Username, input.Password)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
