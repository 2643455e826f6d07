package domain

import (
	"github.com/google/uuid"
)

// TenantContext is the resolved identity/scope bundle for a request. It is
// built once by middleware and treated as immutable for the request lifetime.
// Every tenant-scoped query takes its workspace ID from here, never from the
// request payload.
type TenantContext struct {
	WorkspaceID uuid.UUID
	CompanyID   *uuid.UUID
	UserID      uuid.UUID
	Role        string
}

// HasRole reports whether the context role is one of the given roles.
func (t TenantContext) HasRole(roles ...string) bool {
	for _, r := range roles {
		if t.Role == r {
			return true
		}
	}
	return false
}
