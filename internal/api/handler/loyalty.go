package handler

import (
	"net/http"

	"github.com/pulsecrm/backend/internal/api/middleware"
	"github.com/pulsecrm/backend/internal/api/response"
	"github.com/pulsecrm/backend/internal/domain"
	"github.com/pulsecrm/backend/internal/service"
)

// LoyaltyHandler handles loyalty program endpoints
type LoyaltyHandler struct {
	loyaltyService *service.LoyaltyService
}

// NewLoyaltyHandler creates a new loyalty handler
func NewLoyaltyHandler(loyaltyService *service.LoyaltyService) *LoyaltyHandler {
	return &LoyaltyHandler{loyaltyService: loyaltyService}
}

// List handles listing members
func (h *LoyaltyHandler) List(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	filter := domain.LoyaltyFilter{
		Tier:   r.URL.Query().Get("tier"),
		Search: r.URL.Query().Get("search"),
	}

	page, err := h.loyaltyService.List(r.Context(), tenant, filter, listParams(r))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, page)
}

// Get handles getting one member
func (h *LoyaltyHandler) Get(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := urlID(r, "memberID")
	if err != nil {
		response.FromError(w, err)
		return
	}

	member, err := h.loyaltyService.Get(r.Context(), tenant, id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, member)
}

// Create handles member enrollment
func (h *LoyaltyHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.LoyaltyMemberCreate
	if err := decodeAndValidate(r, &input); err != nil {
		response.FromError(w, err)
		return
	}

	member, err := h.loyaltyService.Create(r.Context(), tenant, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, member)
}

// Update handles partial member updates
func (h *LoyaltyHandler) Update(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := urlID(r, "memberID")
	if err != nil {
		response.FromError(w, err)
		return
	}

	var input domain.LoyaltyMemberUpdate
	if err := decodeAndValidate(r, &input); err != nil {
		response.FromError(w, err)
		return
	}

	member, err := h.loyaltyService.Update(r.Context(), tenant, id, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, member)
}

// Delete handles member removal
func (h *LoyaltyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := urlID(r, "memberID")
	if err != nil {
		response.FromError(w, err)
		return
	}

	if err := h.loyaltyService.Delete(r.Context(), tenant, id); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}

// AdjustPoints handles the adjust-points action
func (h *LoyaltyHandler) AdjustPoints(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := urlID(r, "memberID")
	if err != nil {
		response.FromError(w, err)
		return
	}

	var input domain.PointsAdjustment
	if err := decodeAndValidate(r, &input); err != nil {
		response.FromError(w, err)
		return
	}

	member, err := h.loyaltyService.AdjustPoints(r.Context(), tenant, id, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, member)
}

// ListTransactions handles listing a member's points history
func (h *LoyaltyHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := urlID(r, "memberID")
	if err != nil {
		response.FromError(w, err)
		return
	}

	page, err := h.loyaltyService.ListTransactions(r.Context(), tenant, id, listParams(r))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, page)
}

// RecalculateTiers handles a workspace-wide tier reconciliation
func (h *LoyaltyHandler) RecalculateTiers(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	changed, err := h.loyaltyService.RecalculateTiers(r.Context(), tenant)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, map[string]int{"changed": changed})
}
