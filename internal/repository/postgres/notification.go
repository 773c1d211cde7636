package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/complaintdesk/complaint-api/internal/model"
	"github.com/complaintdesk/complaint-api/internal/repository"
)

type notificationRepository struct {
	BaseRepository
}

func NewNotificationRepository(base BaseRepository) repository.NotificationRepository {
	return &notificationRepository{base}
}

func (r *notificationRepository) CreateMany(ctx context.Context, notifications []*model.Notification) (int64, error) {
	if len(notifications) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()

	var sb strings.Builder
	sb.WriteString(`
		INSERT INTO notifications (
			id, user_id, tenant_id, complaint_id, title, message, read, created_at
		) VALUES `)

	args := make([]interface{}, 0, len(notifications)*8)
	for i, n := range notifications {
		if n.ID == uuid.Nil {
			n.ID = uuid.New()
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = now
		}

		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 8
		sb.WriteString(fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8))
		args = append(args,
			n.ID, n.UserID, n.TenantID, n.ComplaintID, n.Title, n.Message, n.Read, n.CreatedAt)
	}

	// Duplicate rows within one fan-out are skipped, not failed.
	sb.WriteString(" ON CONFLICT DO NOTHING")

	result, err := r.db.ExecContext(ctx, sb.String(), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert notifications: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}
