package handler

import (
	"net/http"

	"github.com/pulsecrm/backend/internal/api/middleware"
	"github.com/pulsecrm/backend/internal/api/response"
	"github.com/pulsecrm/backend/internal/domain"
	"github.com/pulsecrm/backend/internal/service"
)

// CampaignHandler handles campaign endpoints
type CampaignHandler struct {
	campaignService *service.CampaignService
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(campaignService *service.CampaignService) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService}
}

// List handles listing campaigns
func (h *CampaignHandler) List(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	filter := domain.CampaignFilter{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
		From:   queryTime(r, "from"),
		To:     queryTime(r, "to"),
	}

	page, err := h.campaignService.List(r.Context(), tenant, filter, listParams(r))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, page)
}

// Get handles getting one campaign
func (h *CampaignHandler) Get(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := urlID(r, "campaignID")
	if err != nil {
		response.FromError(w, err)
		return
	}

	campaign, err := h.campaignService.Get(r.Context(), tenant, id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, campaign)
}

// Create handles campaign creation
func (h *CampaignHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.CampaignCreate
	if err := decodeAndValidate(r, &input); err != nil {
		response.FromError(w, err)
		return
	}

	campaign, err := h.campaignService.Create(r.Context(), tenant, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, campaign)
}

// Update handles partial campaign updates
func (h *CampaignHandler) Update(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := urlID(r, "campaignID")
	if err != nil {
		response.FromError(w, err)
		return
	}

	var input domain.CampaignUpdate
	if err := decodeAndValidate(r, &input); err != nil {
		response.FromError(w, err)
		return
	}

	campaign, err := h.campaignService.Update(r.Context(), tenant, id, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, campaign)
}

// Delete handles campaign deletion
func (h *CampaignHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := urlID(r, "campaignID")
	if err != nil {
		response.FromError(w, err)
		return
	}

	if err := h.campaignService.Delete(r.Context(), tenant, id); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}

// Send handles the send action
func (h *CampaignHandler) Send(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := urlID(r, "campaignID")
	if err != nil {
		response.FromError(w, err)
		return
	}

	campaign, err := h.campaignService.Send(r.Context(), tenant, id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, campaign)
}

// Pause handles the pause action
func (h *CampaignHandler) Pause(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := urlID(r, "campaignID")
	if err != nil {
		response.FromError(w, err)
		return
	}

	campaign, err := h.campaignService.Pause(r.Context(), tenant, id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, campaign)
}

// Duplicate handles the duplicate action
func (h *CampaignHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := urlID(r, "campaignID")
	if err != nil {
		response.FromError(w, err)
		return
	}

	campaign, err := h.campaignService.Duplicate(r.Context(), tenant, id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, campaign)
}

// AddRecipients handles bulk recipient addition
func (h *CampaignHandler) AddRecipients(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := urlID(r, "campaignID")
	if err != nil {
		response.FromError(w, err)
		return
	}

	var input struct {
		Recipients []domain.RecipientCreate `json:"recipients" validate:"required,min=1,dive"`
	}
	if err := decodeAndValidate(r, &input); err != nil {
		response.FromError(w, err)
		return
	}

	recipients, err := h.campaignService.AddRecipients(r.Context(), tenant, id, input.Recipients)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, map[string]any{
		"added": len(recipients),
	})
}

// ListRecipients handles listing campaign recipients
func (h *CampaignHandler) ListRecipients(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := urlID(r, "campaignID")
	if err != nil {
		response.FromError(w, err)
		return
	}

	page, err := h.campaignService.ListRecipients(r.Context(), tenant, id, listParams(r))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, page)
}

// RecipientStats handles the recipient stats endpoint
func (h *CampaignHandler) RecipientStats(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := urlID(r, "campaignID")
	if err != nil {
		response.FromError(w, err)
		return
	}

	stats, err := h.campaignService.RecipientStats(r.Context(), tenant, id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, stats)
}
