package model

import (
	"time"

	"github.com/google/uuid"
)

// ComplaintStatusHistory is an append-only ledger entry recording one
// status transition. Rows are never updated or deleted.
type ComplaintStatusHistory struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ComplaintID uuid.UUID `json:"complaint_id" db:"complaint_id"`
	OldStatus   string    `json:"old_status" db:"old_status"`
	NewStatus   string    `json:"new_status" db:"new_status"`
	ChangedByID uuid.UUID `json:"changed_by_id" db:"changed_by_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
