package handler

import (
	"net/http"
	"strconv"

	"github.com/pulsecrm/backend/internal/api/middleware"
	"github.com/pulsecrm/backend/internal/api/response"
	"github.com/pulsecrm/backend/internal/domain"
	"github.com/pulsecrm/backend/internal/service"
)

// ReviewHandler handles review endpoints
type ReviewHandler struct {
	reviewService *service.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// List handles listing reviews
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	rating, _ := strconv.Atoi(r.URL.Query().Get("rating"))

	filter := domain.ReviewFilter{
		Platform: r.URL.Query().Get("platform"),
		Status:   r.URL.Query().Get("status"),
		Rating:   rating,
		From:     queryTime(r, "from"),
		To:       queryTime(r, "to"),
	}

	page, err := h.reviewService.List(r.Context(), tenant, filter, listParams(r))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, page)
}

// Get handles getting one review
func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := urlID(r, "reviewID")
	if err != nil {
		response.FromError(w, err)
		return
	}

	review, err := h.reviewService.Get(r.Context(), tenant, id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, review)
}

// Create handles review ingestion
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.ReviewCreate
	if err := decodeAndValidate(r, &input); err != nil {
		response.FromError(w, err)
		return
	}

	review, err := h.reviewService.Create(r.Context(), tenant, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, review)
}

// Reply handles the reply action
func (h *ReviewHandler) Reply(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := urlID(r, "reviewID")
	if err != nil {
		response.FromError(w, err)
		return
	}

	var input domain.ReviewReply
	if err := decodeAndValidate(r, &input); err != nil {
		response.FromError(w, err)
		return
	}

	review, err := h.reviewService.Reply(r.Context(), tenant, id, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, review)
}

// Analyze handles the sentiment analysis action
func (h *ReviewHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := urlID(r, "reviewID")
	if err != nil {
		response.FromError(w, err)
		return
	}

	review, err := h.reviewService.Analyze(r.Context(), tenant, id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, review)
}

// Delete handles review deletion
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := urlID(r, "reviewID")
	if err != nil {
		response.FromError(w, err)
		return
	}

	if err := h.reviewService.Delete(r.Context(), tenant, id); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}
