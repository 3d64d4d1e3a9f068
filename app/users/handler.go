package users

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/atlas-backend/storefront/app/api"
	"github.com/atlas-backend/storefront/models"
)

const birthDateLayout = "2006-01-02"

type UserResponse struct {
	ID         uint    `json:"id"`
	Username   string  `json:"username"`
	Email      string  `json:"email"`
	FirstName  string  `json:"first_name"`
	MiddleName *string `json:"middle_name"`
	LastName   string  `json:"last_name"`
	FullName   string  `json:"full_name"`
	BirthDate  *string `json:"birth_date"`
	IsActive   bool    `json:"is_active"`
}

type UserProvider interface {
	Create(ctx context.Context, user *models.User, password string) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
}

type UserHandler struct {
	repo UserProvider
}

func NewUserHandler(r UserProvider) *UserHandler {
	return &UserHandler{repo: r}
}

func toUser(u *models.User) UserResponse {
	resp := UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		MiddleName: u.MiddleName,
		LastName:   u.LastName,
		FullName:   u.FullName(),
		IsActive:   u.IsActive,
	}
	if u.BirthDate != nil {
		d := u.BirthDate.Format(birthDateLayout)
		resp.BirthDate = &d
	}
	return resp
}

type profileInput struct {
	Email      string  `json:"email"`
	FirstName  string  `json:"first_name"`
	MiddleName *string `json:"middle_name"`
	LastName   string  `json:"last_name"`
	BirthDate  *string `json:"birth_date"`
}

func (in profileInput) apply(u *models.User) bool {
	u.Email = in.Email
	u.FirstName = in.FirstName
	u.MiddleName = in.MiddleName
	u.LastName = in.LastName
	u.BirthDate = nil
	if in.BirthDate != nil && *in.BirthDate != "" {
		d, err := time.Parse(birthDateLayout, *in.BirthDate)
		if err != nil {
			return false
		}
		u.BirthDate = &d
	}
	return true
}

func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
		profileInput
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" || input.Password == "" {
		api.ErrorResponse(w, http.StatusBadRequest, "Missing username or password")
		return
	}

	user := &models.User{Username: input.Username}
	if !input.apply(user) {
		api.ErrorResponse(w, http.StatusBadRequest, "birth_date must be YYYY-MM-DD")
		return
	}

	if err := h.repo.Create(r.Context(), user, input.Password); err != nil {
		api.HandleError(w, err, "Failed to create user")
		return
	}

	api.OKResponse(w, http.StatusCreated, toUser(user))
}

func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	user, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		api.HandleError(w, err, "failed to get user")
		return
	}

	api.OKResponse(w, http.StatusOK, toUser(user))
}

// HandleUpdate replaces the profile fields of a user.
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	var input profileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	user := &models.User{ID: id}
	if !input.apply(user) {
		api.ErrorResponse(w, http.StatusBadRequest, "birth_date must be YYYY-MM-DD")
		return
	}

	if err := h.repo.UpdateProfile(r.Context(), user); err != nil {
		api.HandleError(w, err, "Failed to update user")
		return
	}

	updated, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		api.HandleError(w, err, "failed to get user")
		return
	}
	api.OKResponse(w, http.StatusOK, toUser(updated))
}

// HandleDelete removes a user together with their orders.
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		api.HandleError(w, err, "Failed to delete user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func userID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, "Invalid user id")
		return 0, false
	}
	return uint(id), true
}
