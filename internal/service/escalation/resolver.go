package escalation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/complaintdesk/complaint-api/internal/model"
	"github.com/complaintdesk/complaint-api/internal/repository"
)

// AdminResolver returns the active admin and super-admin users per
// tenant. Results are cached briefly; admin membership changes far less
// often than the tick cadence.
type AdminResolver struct {
	repo  repository.UserRepository
	cache *cache.Cache
}

func NewAdminResolver(repo repository.UserRepository, ttl time.Duration) *AdminResolver {
	return &AdminResolver{
		repo:  repo,
		cache: cache.New(ttl, 2*ttl),
	}
}

// Resolve maps each requested tenant to its active admins, ordered by
// user id ascending. Tenants with no active admins map to an empty
// list. An empty input returns an empty map without a round trip.
func (r *AdminResolver) Resolve(ctx context.Context, tenantIDs []uuid.UUID) (map[uuid.UUID][]*model.User, error) {
	result := make(map[uuid.UUID][]*model.User, len(tenantIDs))
	if len(tenantIDs) == 0 {
		return result, nil
	}

	var misses []uuid.UUID
	for _, id := range tenantIDs {
		if cached, ok := r.cache.Get(id.String()); ok {
			result[id] = cached.([]*model.User)
			continue
		}
		misses = append(misses, id)
	}

	if len(misses) == 0 {
		return result, nil
	}

	fetched, err := r.repo.FindActiveAdmins(ctx, misses)
	if err != nil {
		return nil, err
	}

	for _, id := range misses {
		admins := fetched[id]
		if admins == nil {
			admins = []*model.User{}
		}
		// Empty lists are cached too, so tenants without admins do not
		// trigger a query every tick.
		r.cache.SetDefault(id.String(), admins)
		result[id] = admins
	}

	return result, nil
}
