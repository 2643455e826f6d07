package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pulsecrm/backend/internal/api/middleware"
	"github.com/pulsecrm/backend/internal/api/response"
	"github.com/pulsecrm/backend/internal/domain"
	"github.com/pulsecrm/backend/internal/service"
)

// WorkspaceHandler handles workspace endpoints
type WorkspaceHandler struct {
	workspaceService *service.WorkspaceService
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(workspaceService *service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceService: workspaceService}
}

// Create handles workspace creation
func (h *WorkspaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.WorkspaceCreate
	if err := decodeAndValidate(r, &input); err != nil {
		response.FromError(w, err)
		return
	}

	workspace, err := h.workspaceService.Create(r.Context(), userID, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, workspace)
}

// List handles listing the user's workspaces
func (h *WorkspaceHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	workspaces, err := h.workspaceService.ListByUser(r.Context(), userID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, workspaces)
}

// Get handles getting the tenant's workspace
func (h *WorkspaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	workspace, err := h.workspaceService.Get(r.Context(), tenant)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, workspace)
}

// Update handles updating the tenant's workspace
func (h *WorkspaceHandler) Update(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.WorkspaceUpdate
	if err := decodeAndValidate(r, &input); err != nil {
		response.FromError(w, err)
		return
	}

	workspace, err := h.workspaceService.Update(r.Context(), tenant, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, workspace)
}

// Delete handles deleting the tenant's workspace
func (h *WorkspaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	if err := h.workspaceService.Delete(r.Context(), tenant); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}

// AddMember handles adding a workspace member
func (h *WorkspaceHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input struct {
		UserID string `json:"user_id" validate:"required,uuid"`
		Role   string `json:"role" validate:"required"`
	}
	if err := decodeAndValidate(r, &input); err != nil {
		response.FromError(w, err)
		return
	}

	userID, err := uuid.Parse(input.UserID)
	if err != nil {
		response.FromError(w, domain.NewValidationError("user_id", "invalid UUID"))
		return
	}

	if err := h.workspaceService.AddMember(r.Context(), tenant, userID, input.Role); err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, map[string]any{
		"user_id": userID,
		"role":    input.Role,
	})
}

// RemoveMember handles removing a workspace member
func (h *WorkspaceHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	userID, err := urlID(r, "userID")
	if err != nil {
		response.FromError(w, err)
		return
	}

	if err := h.workspaceService.RemoveMember(r.Context(), tenant, userID); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}
