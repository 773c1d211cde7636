package model

import (
	"github.com/google/uuid"
)

// Complaint status constants
const (
	ComplaintStatusOpen       = "OPEN"
	ComplaintStatusInProgress = "IN_PROGRESS"
	ComplaintStatusOnHold     = "ON_HOLD"
	ComplaintStatusResolved   = "RESOLVED"
	ComplaintStatusClosed     = "CLOSED"
	ComplaintStatusEscalated  = "ESCALATED"
)

// TerminalComplaintStatuses are the statuses from which no SLA-driven
// escalation is possible.
func TerminalComplaintStatuses() []string {
	return []string{
		ComplaintStatusResolved,
		ComplaintStatusClosed,
		ComplaintStatusEscalated,
	}
}

// Complaint priority constants
const (
	ComplaintPriorityLow    = "low"
	ComplaintPriorityMedium = "medium"
	ComplaintPriorityHigh   = "high"
)

// Complaint represents a filed complaint. The escalation engine mutates
// only Status; every other field is owned by the intake workflow.
type Complaint struct {
	Base
	TenantID     uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	Title        string     `json:"title" db:"title"`
	Description  string     `json:"description" db:"description"`
	Status       string     `json:"status" db:"status"`
	Priority     string     `json:"priority" db:"priority"`
	CreatedByID  uuid.UUID  `json:"created_by_id" db:"created_by_id"`
	AssignedToID *uuid.UUID `json:"assigned_to_id" db:"assigned_to_id"`
	DepartmentID *uuid.UUID `json:"department_id" db:"department_id"`

	// SLAHours is the owning department's policy, denormalized onto the
	// row at read time by the breach-candidate query. Nil when the
	// department has no configured window.
	SLAHours *int `json:"sla_hours,omitempty" db:"sla_hours"`
}

// IsTerminal reports whether the complaint's current status excludes it
// from escalation.
func (c *Complaint) IsTerminal() bool {
	for _, s := range TerminalComplaintStatuses() {
		if c.Status == s {
			return true
		}
	}
	return false
}
