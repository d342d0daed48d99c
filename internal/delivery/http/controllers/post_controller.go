package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"blogapi/internal/delivery/http/helpers"
	"blogapi/internal/domain"
	"blogapi/internal/query"
)

// PostRequest is the request body for POST /api/posts and PATCH /api/posts/{id}.
type PostRequest struct {
	Title   string  `json:"title" validate:"required,max=100"`
	Author  string  `json:"author" validate:"required,max=100"`
	Content *string `json:"content"`
}

// TagRefsRequest names tags by id, by name, or both.
type TagRefsRequest struct {
	IDs   []int64  `json:"id" validate:"omitempty,dive,gt=0"`
	Names []string `json:"name" validate:"omitempty,dive,min=1,max=100"`
}

func (t TagRefsRequest) refs() domain.TagRefs {
	return domain.TagRefs{IDs: t.IDs, Names: t.Names}
}

// PostController handles post endpoints and the post/tag links.
type PostController struct {
	Logger  *slog.Logger
	Service domain.PostService
	// Strict rejects list queries carrying unusable filter or order tokens.
	Strict bool
}

// NewPostController creates a PostController with the given logger and service.
func NewPostController(logger *slog.Logger, svc domain.PostService, strict bool) *PostController {
	return &PostController{
		Logger:  logger,
		Service: svc,
		Strict:  strict,
	}
}

// List godoc
// @Summary List posts
// @Description Filter, sort and page posts. Every filter token is OR-combined. Without filters and without step nothing is returned.
// @Tags posts
// @Produce json
// @Param start query int false "Offset"
// @Param step query int false "Limit"
// @Param filter.eq[] query []string false "field=value" collectionFormat(multi)
// @Param filter.ge[] query []string false "field=value" collectionFormat(multi)
// @Param filter.le[] query []string false "field=value" collectionFormat(multi)
// @Param filter.like[] query []string false "field=value" collectionFormat(multi)
// @Param filter.between[] query []string false "field=lo,hi" collectionFormat(multi)
// @Param order[] query []string false "field or -field" collectionFormat(multi)
// @Success 200 {object} helpers.APIResponse "data contains posts with their tags"
// @Failure 400 {object} helpers.APIResponse "code: BAD_REQUEST"
// @Failure 500 {object} helpers.APIResponse "code: INTERNAL_SERVER_ERROR"
// @Router /posts [get]
func (c *PostController) List(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r, query.PostSchema, c.Strict)
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	posts, err := c.Service.List(r.Context(), params)
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, nonNil(posts))
}

// Get godoc
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} helpers.APIResponse "data contains the post and its tags"
// @Failure 400 {object} helpers.APIResponse "code: BAD_REQUEST"
// @Failure 404 {object} helpers.APIResponse "code: NOT_FOUND"
// @Router /posts/{id} [get]
func (c *PostController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	post, err := c.Service.Get(r.Context(), id)
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, post)
}

// Create godoc
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param body body PostRequest true "Post"
// @Success 201 {object} helpers.APIResponse "location points at the new post"
// @Failure 400 {object} helpers.APIResponse "code: BAD_REQUEST"
// @Failure 422 {object} helpers.APIResponse "code: INVALID_INPUT"
// @Router /posts [post]
func (c *PostController) Create(w http.ResponseWriter, r *http.Request) {
	var req PostRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	post := &domain.Post{Title: req.Title, Author: req.Author, Content: req.Content}
	if err := c.Service.Create(r.Context(), post); err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteCreated(w, fmt.Sprintf("/api/posts/%d", post.ID), post)
}

// Update godoc
// @Summary Update a post
// @Description Replaces title, author and content and stamps last_updated.
// @Tags posts
// @Accept json
// @Security CookieAuth
// @Param id path int true "Post ID"
// @Param body body PostRequest true "Post"
// @Success 204
// @Failure 404 {object} helpers.APIResponse "code: NOT_FOUND"
// @Failure 422 {object} helpers.APIResponse "code: INVALID_INPUT"
// @Router /posts/{id} [patch]
func (c *PostController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	var req PostRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	post := &domain.Post{ID: id, Title: req.Title, Author: req.Author, Content: req.Content}
	if err := c.Service.Update(r.Context(), post); err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete godoc
// @Summary Delete a post
// @Description Removes the post and every tag link it has.
// @Tags posts
// @Produce json
// @Security CookieAuth
// @Param id path int true "Post ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse "code: NOT_FOUND"
// @Router /posts/{id} [delete]
func (c *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	if err := c.Service.Delete(r.Context(), id); err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, helpers.APIResponse{
		Status:  helpers.StatusSuccess,
		Message: fmt.Sprintf("post %d deleted", id),
	})
}

// AttachTags godoc
// @Summary Attach tags to a post
// @Description With a JSON body {id:[], name:[]} every referenced tag must exist or nothing is attached.
// @Description Without a body the tags matching the filter query parameters are attached.
// @Tags posts
// @Accept json
// @Security CookieAuth
// @Param id path int true "Post ID"
// @Param body body TagRefsRequest false "Tag ids and names"
// @Success 204
// @Failure 400 {object} helpers.APIResponse "code: INVALID_INPUT when a tag does not exist"
// @Failure 404 {object} helpers.APIResponse "code: NOT_FOUND"
// @Router /posts/{id}/tags [patch]
func (c *PostController) AttachTags(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}

	var req TagRefsRequest
	err = helpers.DecodeJSON(r, &req)
	switch {
	case errors.Is(err, helpers.ErrEmptyBody):
		params, err := listParams(r, query.TagSchema, c.Strict)
		if err != nil {
			writeError(c.Logger, w, r, err)
			return
		}
		if _, err := c.Service.AttachTagsByQuery(r.Context(), id, params); err != nil {
			writeError(c.Logger, w, r, err)
			return
		}
	case err != nil:
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	default:
		if err := helpers.Validate(&req); err != nil {
			writeError(c.Logger, w, r, err)
			return
		}
		if _, err := c.Service.AttachTags(r.Context(), id, req.refs()); err != nil {
			writeError(c.Logger, w, r, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReplaceTags godoc
// @Summary Replace the tags of a post
// @Description Drops every tag of the post and attaches the referenced ones in one transaction. An empty body object clears the tags.
// @Tags posts
// @Accept json
// @Security CookieAuth
// @Param id path int true "Post ID"
// @Param body body TagRefsRequest true "Tag ids and names"
// @Success 204
// @Failure 400 {object} helpers.APIResponse "code: INVALID_INPUT when a tag does not exist"
// @Failure 404 {object} helpers.APIResponse "code: NOT_FOUND"
// @Router /posts/{id}/tags [put]
func (c *PostController) ReplaceTags(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	var req TagRefsRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.ReplaceTags(r.Context(), id, req.refs()); err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AttachTag godoc
// @Summary Attach one tag to a post
// @Tags posts
// @Security CookieAuth
// @Param id path int true "Post ID"
// @Param tagID path int true "Tag ID"
// @Success 204
// @Failure 404 {object} helpers.APIResponse "code: NOT_FOUND"
// @Router /posts/{id}/tags/{tagID} [patch]
func (c *PostController) AttachTag(w http.ResponseWriter, r *http.Request) {
	postID, tagID, ok := c.pairIDs(w, r)
	if !ok {
		return
	}
	if err := c.Service.AttachTag(r.Context(), postID, tagID); err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DetachTag godoc
// @Summary Detach one tag from a post
// @Tags posts
// @Security CookieAuth
// @Param id path int true "Post ID"
// @Param tagID path int true "Tag ID"
// @Success 204
// @Failure 404 {object} helpers.APIResponse "code: NOT_FOUND"
// @Router /posts/{id}/tags/{tagID} [delete]
func (c *PostController) DetachTag(w http.ResponseWriter, r *http.Request) {
	postID, tagID, ok := c.pairIDs(w, r)
	if !ok {
		return
	}
	if _, err := c.Service.DetachTag(r.Context(), postID, tagID); err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *PostController) pairIDs(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	postID, err := helpers.PathID(r, "id")
	if err != nil {
		writeError(c.Logger, w, r, err)
		return 0, 0, false
	}
	tagID, err := helpers.PathID(r, "tagID")
	if err != nil {
		writeError(c.Logger, w, r, err)
		return 0, 0, false
	}
	return postID, tagID, true
}
