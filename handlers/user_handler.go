package handlers

import (
	"net/http"

	"barhop-server/middleware"
	"barhop-server/models"
	"barhop-server/services"
	"barhop-server/utils/errors"
	"barhop-server/utils/validation"
)

const (
	OperationAdd    = "add"
	OperationRemove = "remove"
)

type UserHandler struct {
	users *services.UserService
	teams *services.TeamService
}

func NewUserHandler(users *services.UserService, teams *services.TeamService) *UserHandler {
	return &UserHandler{users: users, teams: teams}
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	opts, apiErr := listOptions(r)
	if apiErr != nil {
		middleware.WriteError(w, apiErr)
		return
	}
	users, err := h.users.List(r.Context(), opts)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username" validate:"required,min=2,max=64"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
	}
	if apiErr := validation.DecodeAndValidate(r, &input); apiErr != nil {
		middleware.WriteError(w, apiErr)
		return
	}
	user, err := h.users.Create(r.Context(), input.Username, input.Email, input.Password)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	if keyword == "" {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}
	users, err := h.users.Search(r.Context(), keyword)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// GetUser responds with the loaded user, favTeams expanded into team
// objects. The expansion is response-only, nothing populated is persisted.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, errors.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, models.UserWithTeams{
		User:           *user,
		FavTeamDetails: h.teams.Expand(r.Context(), user.FavTeams),
	})
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, errors.ErrNotFound)
		return
	}
	var input struct {
		Username string `json:"username" validate:"required,min=2,max=64"`
	}
	if apiErr := validation.DecodeAndValidate(r, &input); apiErr != nil {
		middleware.WriteError(w, apiErr)
		return
	}
	updated, err := h.users.UpdateUsername(r.Context(), user.ID, input.Username)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, errors.ErrNotFound)
		return
	}
	deleted, err := h.users.Delete(r.Context(), user.ID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deleted)
}

func (h *UserHandler) UpdateFavTeam(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, errors.ErrNotFound)
		return
	}
	var input struct {
		Operation string `json:"operation" validate:"required,oneof=add remove"`
		FavTeamID string `json:"favTeamId" validate:"required"`
	}
	if apiErr := validation.DecodeAndValidate(r, &input); apiErr != nil {
		middleware.WriteError(w, apiErr)
		return
	}

	var updated *models.User
	var err error
	if input.Operation == OperationAdd {
		updated, err = h.users.AddFavTeam(r.Context(), user.ID, input.FavTeamID)
	} else {
		updated, err = h.users.RemoveFavTeam(r.Context(), user.ID, input.FavTeamID)
	}
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *UserHandler) UpdateFollow(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, errors.ErrNotFound)
		return
	}
	var input struct {
		Operation    string `json:"operation" validate:"required,oneof=add remove"`
		TargetUserID string `json:"targetUserId" validate:"required"`
	}
	if apiErr := validation.DecodeAndValidate(r, &input); apiErr != nil {
		middleware.WriteError(w, apiErr)
		return
	}

	var updated *models.User
	var err error
	if input.Operation == OperationAdd {
		updated, err = h.users.FollowUser(r.Context(), user.ID, input.TargetUserID)
	} else {
		updated, err = h.users.UnfollowUser(r.Context(), user.ID, input.TargetUserID)
	}
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *UserHandler) UpdateFollowingBar(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, errors.ErrNotFound)
		return
	}
	var input struct {
		Operation string `json:"operation" validate:"required,oneof=add remove"`
		BarID     string `json:"barId" validate:"required"`
	}
	if apiErr := validation.DecodeAndValidate(r, &input); apiErr != nil {
		middleware.WriteError(w, apiErr)
		return
	}

	var updated *models.User
	var err error
	if input.Operation == OperationAdd {
		updated, err = h.users.FollowBar(r.Context(), user.ID, input.BarID)
	} else {
		updated, err = h.users.UnfollowBar(r.Context(), user.ID, input.BarID)
	}
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
