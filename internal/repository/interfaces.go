package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/complaintdesk/complaint-api/internal/model"
)

// All repository interfaces in one file
type (
	// ComplaintRepository handles complaint reads and the escalation
	// transition.
	ComplaintRepository interface {
		// FindBreachCandidates returns at most batchSize non-deleted
		// complaints that have a department and are not in an excluded
		// status, oldest first, with the department's SLA window
		// denormalized onto each row. An empty page is not an error.
		FindBreachCandidates(ctx context.Context, batchSize int, excludedStatuses []string) ([]*model.Complaint, error)

		// Escalate transitions one complaint to ESCALATED and appends
		// exactly one status-history row, atomically. It fails without
		// mutation when the complaint's status no longer equals
		// priorStatus.
		Escalate(ctx context.Context, complaintID uuid.UUID, priorStatus string, actingUserID uuid.UUID) error
	}

	// UserRepository resolves escalation actors and recipients.
	UserRepository interface {
		// FindActiveAdmins returns the active admin and super-admin
		// users for each requested tenant, ordered by id ascending.
		// Tenants absent from the result have no active admins.
		FindActiveAdmins(ctx context.Context, tenantIDs []uuid.UUID) (map[uuid.UUID][]*model.User, error)
	}

	// NotificationRepository persists in-app notifications.
	NotificationRepository interface {
		// CreateMany inserts the given notifications in one statement,
		// skipping exact duplicates instead of failing the batch.
		// Returns the number of rows written.
		CreateMany(ctx context.Context, notifications []*model.Notification) (int64, error)
	}
)
