package handler

import (
	"net/http"

	"github.com/pulsecrm/backend/internal/api/middleware"
	"github.com/pulsecrm/backend/internal/api/response"
	"github.com/pulsecrm/backend/internal/domain"
	"github.com/pulsecrm/backend/internal/service"
)

// NotificationHandler handles notification endpoints
type NotificationHandler struct {
	notificationService *service.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List handles listing the user's notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"

	page, err := h.notificationService.List(r.Context(), tenant, unreadOnly, listParams(r))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, page)
}

// UnreadCount handles the unread counter endpoint
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	count, err := h.notificationService.UnreadCount(r.Context(), tenant)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, map[string]int{"unread": count})
}

// MarkRead handles marking one notification read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := urlID(r, "notificationID")
	if err != nil {
		response.FromError(w, err)
		return
	}

	if err := h.notificationService.MarkRead(r.Context(), tenant, id); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}

// MarkAllRead handles marking every notification read
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	n, err := h.notificationService.MarkAllRead(r.Context(), tenant)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, map[string]int{"marked": n})
}

// ListPreferences handles listing channel preferences
func (h *NotificationHandler) ListPreferences(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	prefs, err := h.notificationService.ListPreferences(r.Context(), tenant)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, prefs)
}

// UpdatePreference handles upserting a channel preference
func (h *NotificationHandler) UpdatePreference(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.ChannelPreferenceUpdate
	if err := decodeAndValidate(r, &input); err != nil {
		response.FromError(w, err)
		return
	}

	pref, err := h.notificationService.UpdatePreference(r.Context(), tenant, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, pref)
}
