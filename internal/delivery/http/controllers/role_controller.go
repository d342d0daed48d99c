package controllers

import (
	"fmt"
	"log/slog"
	"net/http"

	"blogapi/internal/delivery/http/helpers"
	"blogapi/internal/domain"
)

// RoleRequest is the request body for POST /api/roles and PATCH /api/roles/{id}.
type RoleRequest struct {
	Name string `json:"role_name" validate:"required,max=50"`
}

// RoleController handles role administration. Every route requires an admin session.
type RoleController struct {
	Logger  *slog.Logger
	Service domain.RoleService
}

// NewRoleController creates a RoleController with the given logger and service.
func NewRoleController(logger *slog.Logger, svc domain.RoleService) *RoleController {
	return &RoleController{
		Logger:  logger,
		Service: svc,
	}
}

// List godoc
// @Summary List roles
// @Tags roles
// @Produce json
// @Security CookieAuth
// @Success 200 {object} helpers.APIResponse "data contains roles"
// @Failure 401 {object} helpers.APIResponse "code: UNAUTHORIZED"
// @Failure 403 {object} helpers.APIResponse "code: FORBIDDEN"
// @Router /roles [get]
func (c *RoleController) List(w http.ResponseWriter, r *http.Request) {
	roles, err := c.Service.List(r.Context())
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, nonNil(roles))
}

// Get godoc
// @Summary Get a role
// @Tags roles
// @Produce json
// @Security CookieAuth
// @Param id path int true "Role ID"
// @Success 200 {object} helpers.APIResponse "data contains the role"
// @Failure 404 {object} helpers.APIResponse "code: NOT_FOUND"
// @Router /roles/{id} [get]
func (c *RoleController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	role, err := c.Service.Get(r.Context(), id)
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, role)
}

// Create godoc
// @Summary Create a role
// @Tags roles
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param body body RoleRequest true "Role"
// @Success 201 {object} helpers.APIResponse "location points at the new role"
// @Failure 409 {object} helpers.APIResponse "code: UNIQUE_VIOLATION"
// @Failure 422 {object} helpers.APIResponse "code: INVALID_INPUT"
// @Router /roles [post]
func (c *RoleController) Create(w http.ResponseWriter, r *http.Request) {
	var req RoleRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	role, err := c.Service.Create(r.Context(), req.Name)
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteCreated(w, fmt.Sprintf("/api/roles/%d", role.ID), role)
}

// Update godoc
// @Summary Rename a role
// @Tags roles
// @Accept json
// @Security CookieAuth
// @Param id path int true "Role ID"
// @Param body body RoleRequest true "Role"
// @Success 204
// @Failure 404 {object} helpers.APIResponse "code: NOT_FOUND"
// @Router /roles/{id} [patch]
func (c *RoleController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	var req RoleRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.Update(r.Context(), id, req.Name); err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete godoc
// @Summary Delete a role
// @Description The built-in admin and standard roles cannot be deleted. Roles still assigned to users fail with a foreign key violation.
// @Tags roles
// @Security CookieAuth
// @Param id path int true "Role ID"
// @Success 204
// @Failure 404 {object} helpers.APIResponse "code: NOT_FOUND"
// @Failure 409 {object} helpers.APIResponse "code: FOREIGN_KEY_VIOLATION"
// @Failure 422 {object} helpers.APIResponse "code: INVALID_INPUT"
// @Router /roles/{id} [delete]
func (c *RoleController) Delete(w http.ResponseWriter, r *http.Request) {
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
