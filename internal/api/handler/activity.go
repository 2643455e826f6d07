package handler

import (
	"net/http"

	"github.com/pulsecrm/backend/internal/api/middleware"
	"github.com/pulsecrm/backend/internal/api/response"
	"github.com/pulsecrm/backend/internal/domain"
	"github.com/pulsecrm/backend/internal/service"
)

// ActivityHandler handles activity log endpoints
type ActivityHandler struct {
	activityService *service.ActivityService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// List handles listing activity entries
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	filter := domain.ActivityFilter{
		EntityType:   r.URL.Query().Get("entity_type"),
		ActivityType: r.URL.Query().Get("activity_type"),
		From:         queryTime(r, "from"),
		To:           queryTime(r, "to"),
	}

	page, err := h.activityService.List(r.Context(), tenant, filter, listParams(r))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, page)
}
