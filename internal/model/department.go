package model

import (
	"github.com/google/uuid"
)

// DefaultSLAHours is the fallback SLA window applied when a department
// has no configured value. Interpreted as wall-clock hours from the
// complaint's creation time, not business hours.
const DefaultSLAHours = 48

// Department represents a tenant's department with its SLA policy.
type Department struct {
	Base
	TenantID uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Name     string    `json:"name" db:"name"`
	SLAHours *int      `json:"sla_hours" db:"sla_hours"`
}
