package controllers

import (
	"fmt"
	"log/slog"
	"net/http"

	"blogapi/internal/delivery/http/helpers"
	"blogapi/internal/delivery/http/middleware"
	"blogapi/internal/domain"
)

// CreateUserRequest is the request body for POST /api/users.
type CreateUserRequest struct {
	Email     string  `json:"email" validate:"required,email,max=255"`
	Password  string  `json:"password" validate:"required,min=8"`
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	RoleID    int64   `json:"role_id" validate:"omitempty,gt=0"`
}

// UpdateUserRequest is the request body for PATCH /api/users/{id} and PATCH /api/users/me.
// Every field is optional. role_id and active are ignored on /me.
type UpdateUserRequest struct {
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
	Password  *string `json:"password" validate:"omitempty,min=8"`
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	RoleID    *int64  `json:"role_id" validate:"omitempty,gt=0"`
	Active    *bool   `json:"active"`
}

func (u UpdateUserRequest) changes() domain.UserChanges {
	return domain.UserChanges{
		Email:     u.Email,
		Password:  u.Password,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		RoleID:    u.RoleID,
		Active:    u.Active,
	}
}

// ConfirmPasswordRequest is the request body for POST /api/users/me/confirm-password.
type ConfirmPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// UserController handles user accounts.
type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

// NewUserController creates a UserController with the given logger and service.
func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *UserController) principal(w http.ResponseWriter, r *http.Request) (domain.Principal, bool) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "missing session")
	}
	return p, ok
}

// GetMe godoc
// @Summary Get current user
// @Tags users
// @Produce json
// @Security CookieAuth
// @Success 200 {object} helpers.APIResponse "data contains the user with role_name"
// @Failure 401 {object} helpers.APIResponse "code: UNAUTHORIZED"
// @Failure 403 {object} helpers.APIResponse "code: FORBIDDEN for roles other than admin and standard"
// @Failure 404 {object} helpers.APIResponse "code: NOT_FOUND"
// @Router /users/me [get]
func (c *UserController) GetMe(w http.ResponseWriter, r *http.Request) {
	p, ok := c.principal(w, r)
	if !ok {
		return
	}
	user, err := c.Service.Get(r.Context(), p.UserID)
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// UpdateMe godoc
// @Summary Update current user
// @Description Email, password and names may change. role_id and active are ignored.
// @Tags users
// @Accept json
// @Security CookieAuth
// @Param body body UpdateUserRequest true "Fields to update"
// @Success 204
// @Failure 401 {object} helpers.APIResponse "code: UNAUTHORIZED"
// @Failure 409 {object} helpers.APIResponse "code: UNIQUE_VIOLATION"
// @Failure 422 {object} helpers.APIResponse "code: INVALID_INPUT"
// @Router /users/me [patch]
func (c *UserController) UpdateMe(w http.ResponseWriter, r *http.Request) {
	p, ok := c.principal(w, r)
	if !ok {
		return
	}
	var req UpdateUserRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.UpdateSelf(r.Context(), p.UserID, req.changes()); err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ConfirmPassword godoc
// @Summary Confirm the current user's password
// @Tags users
// @Accept json
// @Security CookieAuth
// @Param body body ConfirmPasswordRequest true "Password"
// @Success 204
// @Failure 401 {object} helpers.APIResponse "code: UNAUTHORIZED"
// @Router /users/me/confirm-password [post]
func (c *UserController) ConfirmPassword(w http.ResponseWriter, r *http.Request) {
	p, ok := c.principal(w, r)
	if !ok {
		return
	}
	var req ConfirmPasswordRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.ConfirmPassword(r.Context(), p.UserID, req.Password); err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// List godoc
// @Summary List users
// @Description Every user except the caller.
// @Tags users
// @Produce json
// @Security CookieAuth
// @Success 200 {object} helpers.APIResponse "data contains users with role_name"
// @Failure 403 {object} helpers.APIResponse "code: FORBIDDEN"
// @Router /users [get]
func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	p, ok := c.principal(w, r)
	if !ok {
		return
	}
	users, err := c.Service.ListOthers(r.Context(), p.UserID)
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, nonNil(users))
}

// Create godoc
// @Summary Create a user
// @Description role_id defaults to the standard role. The password is stored hashed.
// @Tags users
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param body body CreateUserRequest true "User"
// @Success 201 {object} helpers.APIResponse "location points at the new user"
// @Failure 409 {object} helpers.APIResponse "code: UNIQUE_VIOLATION or FOREIGN_KEY_VIOLATION"
// @Failure 422 {object} helpers.APIResponse "code: INVALID_INPUT"
// @Router /users [post]
func (c *UserController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.Create(r.Context(), domain.NewUser{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		RoleID:    req.RoleID,
	})
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteCreated(w, fmt.Sprintf("/api/users/%d", user.ID), user)
}

// Get godoc
// @Summary Get a user
// @Tags users
// @Produce json
// @Security CookieAuth
// @Param id path int true "User ID"
// @Success 200 {object} helpers.APIResponse "data contains the user with role_name"
// @Failure 404 {object} helpers.APIResponse "code: NOT_FOUND"
// @Router /users/{id} [get]
func (c *UserController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	user, err := c.Service.Get(r.Context(), id)
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// Update godoc
// @Summary Update a user
// @Tags users
// @Accept json
// @Security CookieAuth
// @Param id path int true "User ID"
// @Param body body UpdateUserRequest true "Fields to update"
// @Success 204
// @Failure 404 {object} helpers.APIResponse "code: NOT_FOUND"
// @Failure 409 {object} helpers.APIResponse "code: UNIQUE_VIOLATION"
// @Router /users/{id} [patch]
func (c *UserController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	var req UpdateUserRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.Update(r.Context(), id, req.changes()); err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete godoc
// @Summary Delete a user
// @Tags users
// @Security CookieAuth
// @Param id path int true "User ID"
// @Success 204
// @Failure 404 {object} helpers.APIResponse "code: NOT_FOUND"
// @Router /users/{id} [delete]
func (c *UserController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	if err := c.Service.Delete(r.Context(), id); err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
