package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	apperrors "github.com/complaintdesk/complaint-api/pkg/errors"

	"github.com/complaintdesk/complaint-api/internal/model"
	"github.com/complaintdesk/complaint-api/internal/repository"
)

type complaintRepository struct {
	BaseRepository
}

func NewComplaintRepository(base BaseRepository) repository.ComplaintRepository {
	return &complaintRepository{base}
}

func (r *complaintRepository) FindBreachCandidates(ctx context.Context, batchSize int, excludedStatuses []string) ([]*model.Complaint, error) {
	// Departments may be soft-deleted after assignment; the left join
	// keeps such complaints eligible with a nil SLA window, which the
	// caller resolves to the default.
	query := `
		SELECT
			c.id, c.created_at, c.updated_at, c.deleted_at,
			c.tenant_id, c.title, c.description, c.status, c.priority,
			c.created_by_id, c.assigned_to_id, c.department_id,
			d.sla_hours AS sla_hours
		FROM complaints c
		LEFT JOIN departments d
			ON d.id = c.department_id AND d.deleted_at IS NULL
		WHERE c.deleted_at IS NULL
			AND c.department_id IS NOT NULL
			AND c.status <> ALL($1)
		ORDER BY c.created_at ASC
		LIMIT $2
	`

	complaints := []*model.Complaint{}
	if err := r.db.SelectContext(ctx, &complaints, query, pq.Array(excludedStatuses), batchSize); err != nil {
		return nil, fmt.Errorf("failed to query breach candidates: %w", err)
	}

	return complaints, nil
}

func (r *complaintRepository) Escalate(ctx context.Context, complaintID uuid.UUID, priorStatus string, actingUserID uuid.UUID) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		now := time.Now().UTC()

		// The status guard makes the transition a no-op if anything
		// else changed the complaint since it was read.
		result, err := tx.ExecContext(ctx, `
			UPDATE complaints
			SET status = $1, updated_at = $2
			WHERE id = $3 AND status = $4 AND deleted_at IS NULL
		`, model.ComplaintStatusEscalated, now, complaintID, priorStatus)
		if err != nil {
			return fmt.Errorf("failed to update complaint status: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return apperrors.NewConflict(
				fmt.Sprintf("complaint %s no longer in status %s", complaintID, priorStatus), nil)
		}

		entry := &model.ComplaintStatusHistory{
			ID:          uuid.New(),
			ComplaintID: complaintID,
			OldStatus:   priorStatus,
			NewStatus:   model.ComplaintStatusEscalated,
			ChangedByID: actingUserID,
			CreatedAt:   now,
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO complaint_status_history (
				id, complaint_id, old_status, new_status, changed_by_id, created_at
			) VALUES ($1, $2, $3, $4, $5, $6)
		`, entry.ID, entry.ComplaintID, entry.OldStatus, entry.NewStatus, entry.ChangedByID, entry.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert status history: %w", err)
		}

		return nil
	})
}
