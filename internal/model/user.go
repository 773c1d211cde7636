package model

import (
	"github.com/google/uuid"
)

// User status constants
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusPending  = "pending"
)

// User role constants. Admins and super admins are the eligible
// escalation actors and default notification recipients.
const (
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleAgent      = "AGENT"
	RoleUser       = "USER"
)

// User represents a platform user scoped to one tenant.
type User struct {
	Base
	TenantID uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Email    string    `json:"email" db:"email"`
	Name     string    `json:"name" db:"name"`
	Role     string    `json:"role" db:"role"`
	Status   string    `json:"status" db:"status"`
}
