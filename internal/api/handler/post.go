package handler

import (
	"net/http"

	"github.com/pulsecrm/backend/internal/api/middleware"
	"github.com/pulsecrm/backend/internal/api/response"
	"github.com/pulsecrm/backend/internal/domain"
	"github.com/pulsecrm/backend/internal/service"
)

// PostHandler handles blog post endpoints
type PostHandler struct {
	postService *service.PostService
}

// NewPostHandler creates a new post handler
func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// List handles listing posts
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	filter := domain.PostFilter{
		Status: r.URL.Query().Get("status"),
		Tag:    r.URL.Query().Get("tag"),
		Search: r.URL.Query().Get("search"),
	}

	page, err := h.postService.List(r.Context(), tenant, filter, listParams(r))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, page)
}

// Get handles getting one post
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := urlID(r, "postID")
	if err != nil {
		response.FromError(w, err)
		return
	}

	post, err := h.postService.Get(r.Context(), tenant, id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, post)
}

// Create handles post creation
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.PostCreate
	if err := decodeAndValidate(r, &input); err != nil {
		response.FromError(w, err)
		return
	}

	post, err := h.postService.Create(r.Context(), tenant, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, post)
}

// Update handles partial post updates
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := urlID(r, "postID")
	if err != nil {
		response.FromError(w, err)
		return
	}

	var input domain.PostUpdate
	if err := decodeAndValidate(r, &input); err != nil {
		response.FromError(w, err)
		return
	}

	post, err := h.postService.Update(r.Context(), tenant, id, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, post)
}

// Delete handles post deletion
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := urlID(r, "postID")
	if err != nil {
		response.FromError(w, err)
		return
	}

	if err := h.postService.Delete(r.Context(), tenant, id); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}

// Publish handles the publish action
func (h *PostHandler) Publish(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := urlID(r, "postID")
	if err != nil {
		response.FromError(w, err)
		return
	}

	post, err := h.postService.Publish(r.Context(), tenant, id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, post)
}

// Unpublish handles the unpublish action
func (h *PostHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := urlID(r, "postID")
	if err != nil {
		response.FromError(w, err)
		return
	}

	post, err := h.postService.Unpublish(r.Context(), tenant, id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, post)
}
