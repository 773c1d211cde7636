package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/complaintdesk/complaint-api/internal/model"
	"github.com/complaintdesk/complaint-api/internal/repository"
)

type userRepository struct {
	BaseRepository
}

func NewUserRepository(base BaseRepository) repository.UserRepository {
	return &userRepository{base}
}

func (r *userRepository) FindActiveAdmins(ctx context.Context, tenantIDs []uuid.UUID) (map[uuid.UUID][]*model.User, error) {
	admins := make(map[uuid.UUID][]*model.User, len(tenantIDs))
	if len(tenantIDs) == 0 {
		return admins, nil
	}

	ids := make([]string, len(tenantIDs))
	for i, id := range tenantIDs {
		ids[i] = id.String()
	}

	// Ordering by id keeps "first admin" deterministic across ticks.
	query := `
		SELECT id, created_at, updated_at, deleted_at, tenant_id, email, name, role, status
		FROM users
		WHERE deleted_at IS NULL
			AND status = $1
			AND role IN ($2, $3)
			AND tenant_id = ANY($4::uuid[])
		ORDER BY tenant_id, id ASC
	`

	users := []*model.User{}
	err := r.db.SelectContext(ctx, &users, query,
		model.UserStatusActive, model.RoleAdmin, model.RoleSuperAdmin, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query active admins: %w", err)
	}

	for _, u := range users {
		admins[u.TenantID] = append(admins[u.TenantID], u)
	}

	return admins, nil
}
