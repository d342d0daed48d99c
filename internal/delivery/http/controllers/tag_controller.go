package controllers

import (
	"fmt"
	"log/slog"
	"net/http"

	"blogapi/internal/delivery/http/helpers"
	"blogapi/internal/domain"
	"blogapi/internal/query"
)

// TagRequest is the request body for POST /api/tags and PATCH /api/tags/{id}.
type TagRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// TagController handles tag endpoints.
type TagController struct {
	Logger  *slog.Logger
	Service domain.TagService
	Strict  bool
}

// NewTagController creates a TagController with the given logger and service.
func NewTagController(logger *slog.Logger, svc domain.TagService, strict bool) *TagController {
	return &TagController{
		Logger:  logger,
		Service: svc,
		Strict:  strict,
	}
}

// List godoc
// @Summary List tags
// @Description Filter, sort and page tags with the same query parameters as posts.
// @Tags tags
// @Produce json
// @Param start query int false "Offset"
// @Param step query int false "Limit"
// @Param filter.eq[] query []string false "field=value" collectionFormat(multi)
// @Param filter.like[] query []string false "field=value" collectionFormat(multi)
// @Param order[] query []string false "field or -field" collectionFormat(multi)
// @Success 200 {object} helpers.APIResponse "data contains tags"
// @Failure 400 {object} helpers.APIResponse "code: BAD_REQUEST"
// @Router /tags [get]
func (c *TagController) List(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r, query.TagSchema, c.Strict)
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	tags, err := c.Service.List(r.Context(), params)
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, nonNil(tags))
}

// Get godoc
// @Summary Get a tag
// @Tags tags
// @Produce json
// @Param id path int true "Tag ID"
// @Success 200 {object} helpers.APIResponse "data contains the tag"
// @Failure 404 {object} helpers.APIResponse "code: NOT_FOUND"
// @Router /tags/{id} [get]
func (c *TagController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	tag, err := c.Service.Get(r.Context(), id)
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, tag)
}

// Create godoc
// @Summary Create a tag
// @Tags tags
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param body body TagRequest true "Tag"
// @Success 201 {object} helpers.APIResponse "location points at the new tag"
// @Failure 409 {object} helpers.APIResponse "code: UNIQUE_VIOLATION"
// @Failure 422 {object} helpers.APIResponse "code: INVALID_INPUT"
// @Router /tags [post]
func (c *TagController) Create(w http.ResponseWriter, r *http.Request) {
	var req TagRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	tag, err := c.Service.Create(r.Context(), req.Name)
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteCreated(w, fmt.Sprintf("/api/tags/%d", tag.ID), tag)
}

// Update godoc
// @Summary Rename a tag
// @Tags tags
// @Accept json
// @Security CookieAuth
// @Param id path int true "Tag ID"
// @Param body body TagRequest true "Tag"
// @Success 204
// @Failure 404 {object} helpers.APIResponse "code: NOT_FOUND"
// @Failure 409 {object} helpers.APIResponse "code: UNIQUE_VIOLATION"
// @Router /tags/{id} [patch]
func (c *TagController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	var req TagRequest
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
// @Summary Delete a tag
// @Description Removes the tag and its post links. data reports how many links went with it.
// @Tags tags
// @Produce json
// @Security CookieAuth
// @Param id path int true "Tag ID"
// @Success 200 {object} helpers.APIResponse "data contains id, name and removed_associations"
// @Failure 404 {object} helpers.APIResponse "code: NOT_FOUND"
// @Router /tags/{id} [delete]
func (c *TagController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	deleted, err := c.Service.Delete(r.Context(), id)
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, deleted)
}

// Posts godoc
// @Summary List posts carrying a tag
// @Description Only start, step and order apply. An unknown tag yields an empty list.
// @Tags tags
// @Produce json
// @Param id path int true "Tag ID"
// @Param start query int false "Offset"
// @Param step query int false "Limit"
// @Param order[] query []string false "field or -field" collectionFormat(multi)
// @Success 200 {object} helpers.APIResponse "data contains posts with their tags"
// @Router /tags/{id}/posts [get]
func (c *TagController) Posts(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	params, err := listParams(r, query.PostSchema, c.Strict)
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	posts, err := c.Service.Posts(r.Context(), id, params)
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, nonNil(posts))
}
