package handler

import (
	"net/http"

	"github.com/pulsecrm/backend/internal/api/middleware"
	"github.com/pulsecrm/backend/internal/api/response"
	"github.com/pulsecrm/backend/internal/domain"
	"github.com/pulsecrm/backend/internal/service"
)

// WebhookHandler handles webhook endpoint management
type WebhookHandler struct {
	webhookService *service.WebhookService
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(webhookService *service.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookService: webhookService}
}

// List handles listing endpoints
func (h *WebhookHandler) List(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	page, err := h.webhookService.List(r.Context(), tenant, listParams(r))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, page)
}

// Get handles getting one endpoint
func (h *WebhookHandler) Get(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := urlID(r, "endpointID")
	if err != nil {
		response.FromError(w, err)
		return
	}

	endpoint, err := h.webhookService.Get(r.Context(), tenant, id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, endpoint)
}

// Create handles endpoint registration. The response carries the secret;
// this is the only time it is ever returned.
func (h *WebhookHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.WebhookEndpointCreate
	if err := decodeAndValidate(r, &input); err != nil {
		response.FromError(w, err)
		return
	}

	endpoint, err := h.webhookService.Create(r.Context(), tenant, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, endpoint)
}

// Update handles partial endpoint updates
func (h *WebhookHandler) Update(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := urlID(r, "endpointID")
	if err != nil {
		response.FromError(w, err)
		return
	}

	var input domain.WebhookEndpointUpdate
	if err := decodeAndValidate(r, &input); err != nil {
		response.FromError(w, err)
		return
	}

	endpoint, err := h.webhookService.Update(r.Context(), tenant, id, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, endpoint)
}

// Delete handles endpoint removal
func (h *WebhookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := urlID(r, "endpointID")
	if err != nil {
		response.FromError(w, err)
		return
	}

	if err := h.webhookService.Delete(r.Context(), tenant, id); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}

// RotateSecret handles the rotate-secret action. The response carries the
// new secret, returned only this once.
func (h *WebhookHandler) RotateSecret(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := urlID(r, "endpointID")
	if err != nil {
		response.FromError(w, err)
		return
	}

	endpoint, err := h.webhookService.RotateSecret(r.Context(), tenant, id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, endpoint)
}

// Test handles the test action, firing a ping delivery
func (h *WebhookHandler) Test(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := urlID(r, "endpointID")
	if err != nil {
		response.FromError(w, err)
		return
	}

	if err := h.webhookService.Test(r.Context(), tenant, id); err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, map[string]string{"status": "queued"})
}

// ListDeliveries handles listing an endpoint's deliveries
func (h *WebhookHandler) ListDeliveries(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := urlID(r, "endpointID")
	if err != nil {
		response.FromError(w, err)
		return
	}

	page, err := h.webhookService.ListDeliveries(r.Context(), tenant, id, listParams(r))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, page)
}

// Redeliver handles the redeliver action on a delivery
func (h *WebhookHandler) Redeliver(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	deliveryID, err := urlID(r, "deliveryID")
	if err != nil {
		response.FromError(w, err)
		return
	}

	if err := h.webhookService.RedeliverDelivery(r.Context(), tenant, deliveryID); err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, map[string]string{"status": "queued"})
}
