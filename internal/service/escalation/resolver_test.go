package escalation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/complaintdesk/complaint-api/internal/model"
)

func TestResolveEmptyInputSkipsQuery(t *testing.T) {
	users := &fakeUserRepo{}
	resolver := NewAdminResolver(users, time.Minute)

	result, err := resolver.Resolve(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, result)
	assert.Zero(t, users.calls())
}

func TestResolveCachesPerTenant(t *testing.T) {
	tenantID := uuid.New()
	admin := adminUser(tenantID)
	users := &fakeUserRepo{admins: map[uuid.UUID][]*model.User{
		tenantID: {admin},
	}}
	resolver := NewAdminResolver(users, time.Minute)

	first, err := resolver.Resolve(context.Background(), []uuid.UUID{tenantID})
	require.NoError(t, err)
	second, err := resolver.Resolve(context.Background(), []uuid.UUID{tenantID})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, users.calls(), "second resolve must hit the cache")
}

func TestResolveTenantWithoutAdmins(t *testing.T) {
	tenantID := uuid.New()
	users := &fakeUserRepo{}
	resolver := NewAdminResolver(users, time.Minute)

	result, err := resolver.Resolve(context.Background(), []uuid.UUID{tenantID})
	require.NoError(t, err)
	require.Contains(t, result, tenantID)
	assert.Empty(t, result[tenantID])

	// Absence is cached too.
	_, err = resolver.Resolve(context.Background(), []uuid.UUID{tenantID})
	require.NoError(t, err)
	assert.Equal(t, 1, users.calls())
}

func TestResolveOnlyRequestedTenants(t *testing.T) {
	tenantA := uuid.New()
	tenantB := uuid.New()
	users := &fakeUserRepo{admins: map[uuid.UUID][]*model.User{
		tenantA: {adminUser(tenantA)},
		tenantB: {adminUser(tenantB)},
	}}
	resolver := NewAdminResolver(users, time.Minute)

	result, err := resolver.Resolve(context.Background(), []uuid.UUID{tenantA})
	require.NoError(t, err)
	assert.Contains(t, result, tenantA)
	assert.NotContains(t, result, tenantB)
}
