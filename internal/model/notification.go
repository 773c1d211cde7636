package model

import (
	"time"

	"github.com/google/uuid"
)

// Escalation notification copy. Fixed per fan-out; the complaint title
// is carried in the message body.
const (
	EscalationNotificationTitle = "Complaint escalated"
)

// Notification is an in-app notification row. Creation is idempotent
// against exact duplicates within one fan-out.
type Notification struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	TenantID    uuid.UUID `json:"tenant_id" db:"tenant_id"`
	ComplaintID uuid.UUID `json:"complaint_id" db:"complaint_id"`
	Title       string    `json:"title" db:"title"`
	Message     string    `json:"message" db:"message"`
	Read        bool      `json:"read" db:"read"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
