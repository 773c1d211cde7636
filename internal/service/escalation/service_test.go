package escalation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/complaintdesk/complaint-api/internal/model"
	"github.com/complaintdesk/complaint-api/pkg/metrics"
)

func newTestService(complaints *fakeComplaintRepo, users *fakeUserRepo, notifications *fakeNotificationRepo, broker *fakeBroker) *Service {
	lg := testLogger()
	m := metrics.NewTestMetrics()
	resolver := NewAdminResolver(users, time.Minute)
	notifier := NewNotifier(notifications, broker, nil, lg, m)
	return NewService(complaints, resolver, notifier, lg, m, 100)
}

func breachedComplaint(tenantID, filerID uuid.UUID) *model.Complaint {
	deptID := uuid.New()
	c := &model.Complaint{
		TenantID:     tenantID,
		Title:        "test complaint",
		Status:       model.ComplaintStatusOpen,
		CreatedByID:  filerID,
		DepartmentID: &deptID,
	}
	c.ID = uuid.New()
	c.CreatedAt = time.Now().UTC().Add(-72 * time.Hour)
	return c
}

func adminUser(tenantID uuid.UUID) *model.User {
	u := &model.User{
		TenantID: tenantID,
		Email:    "admin@example.com",
		Role:     model.RoleAdmin,
		Status:   model.UserStatusActive,
	}
	u.ID = uuid.New()
	return u
}

func TestRunTickEmptyPage(t *testing.T) {
	complaints := &fakeComplaintRepo{}
	users := &fakeUserRepo{}
	notifications := &fakeNotificationRepo{}

	svc := newTestService(complaints, users, notifications, &fakeBroker{})
	report, err := svc.RunTick(context.Background())

	require.NoError(t, err)
	assert.Equal(t, TickReport{}, report)
	assert.True(t, report.Empty())

	// Nothing matched, so the store must not be touched further.
	assert.Zero(t, users.calls())
	assert.Empty(t, notifications.all())
}

func TestRunTickWithinWindowNotEscalated(t *testing.T) {
	tenantID := uuid.New()
	fresh := breachedComplaint(tenantID, uuid.New())
	fresh.CreatedAt = time.Now().UTC().Add(-time.Hour)

	complaints := &fakeComplaintRepo{candidates: []*model.Complaint{fresh}}
	users := &fakeUserRepo{}

	svc := newTestService(complaints, users, &fakeNotificationRepo{}, &fakeBroker{})
	report, err := svc.RunTick(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Scanned)
	assert.Zero(t, report.Escalated)
	assert.Zero(t, users.calls())
	assert.Empty(t, complaints.calls())
}

func TestRunTickPartialFailure(t *testing.T) {
	tenantID := uuid.New()
	admin := adminUser(tenantID)

	good1 := breachedComplaint(tenantID, uuid.New())
	bad := breachedComplaint(tenantID, uuid.New())
	good2 := breachedComplaint(tenantID, uuid.New())

	complaints := &fakeComplaintRepo{
		candidates: []*model.Complaint{good1, bad, good2},
		failIDs:    map[uuid.UUID]bool{bad.ID: true},
	}
	users := &fakeUserRepo{admins: map[uuid.UUID][]*model.User{
		tenantID: {admin},
	}}

	svc := newTestService(complaints, users, &fakeNotificationRepo{}, &fakeBroker{})
	report, err := svc.RunTick(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, 2, report.Escalated)
	assert.Equal(t, 1, report.Errors)

	// The failing item must not have aborted the rest of the batch.
	calls := complaints.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, good1.ID, calls[0].complaintID)
	assert.Equal(t, good2.ID, calls[1].complaintID)
}

func TestRunTickRecordsPriorStatusAndActor(t *testing.T) {
	tenantID := uuid.New()
	first := adminUser(tenantID)
	second := adminUser(tenantID)

	complaint := breachedComplaint(tenantID, uuid.New())
	complaint.Status = model.ComplaintStatusInProgress

	complaints := &fakeComplaintRepo{candidates: []*model.Complaint{complaint}}
	users := &fakeUserRepo{admins: map[uuid.UUID][]*model.User{
		tenantID: {first, second},
	}}

	svc := newTestService(complaints, users, &fakeNotificationRepo{}, &fakeBroker{})
	report, err := svc.RunTick(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Escalated)

	calls := complaints.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, model.ComplaintStatusInProgress, calls[0].priorStatus)
	assert.Equal(t, first.ID, calls[0].actorID)
}

func TestRunTickFallsBackToFilerAsActor(t *testing.T) {
	tenantID := uuid.New()
	filerID := uuid.New()
	complaint := breachedComplaint(tenantID, filerID)

	complaints := &fakeComplaintRepo{candidates: []*model.Complaint{complaint}}
	users := &fakeUserRepo{}

	svc := newTestService(complaints, users, &fakeNotificationRepo{}, &fakeBroker{})
	report, err := svc.RunTick(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Escalated)

	calls := complaints.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, filerID, calls[0].actorID)
}

func TestRunTickSkipsWithoutActor(t *testing.T) {
	tenantID := uuid.New()
	complaint := breachedComplaint(tenantID, uuid.Nil)

	complaints := &fakeComplaintRepo{candidates: []*model.Complaint{complaint}}
	users := &fakeUserRepo{}
	notifications := &fakeNotificationRepo{}

	svc := newTestService(complaints, users, notifications, &fakeBroker{})
	report, err := svc.RunTick(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Zero(t, report.Escalated)
	assert.Zero(t, report.Errors)
	assert.Empty(t, complaints.calls())
	assert.Empty(t, notifications.all())
}

func TestRunTickCandidateQueryFailure(t *testing.T) {
	complaints := &fakeComplaintRepo{candidatesErr: errStore}
	users := &fakeUserRepo{}

	svc := newTestService(complaints, users, &fakeNotificationRepo{}, &fakeBroker{})
	report, err := svc.RunTick(context.Background())

	require.Error(t, err)
	assert.True(t, report.Empty())
	assert.Zero(t, users.calls())
}

func TestRunTickAdminQueryFailure(t *testing.T) {
	tenantID := uuid.New()
	complaint := breachedComplaint(tenantID, uuid.New())

	complaints := &fakeComplaintRepo{candidates: []*model.Complaint{complaint}}
	users := &fakeUserRepo{err: errStore}

	svc := newTestService(complaints, users, &fakeNotificationRepo{}, &fakeBroker{})
	report, err := svc.RunTick(context.Background())

	require.Error(t, err)
	assert.Equal(t, 1, report.Scanned)
	assert.Zero(t, report.Escalated)
	assert.Empty(t, complaints.calls())
}

func TestRunTickTenantIsolation(t *testing.T) {
	tenantA := uuid.New()
	tenantB := uuid.New()
	adminA := adminUser(tenantA)
	adminB := adminUser(tenantB)

	complaintA := breachedComplaint(tenantA, uuid.New())
	complaintB := breachedComplaint(tenantB, uuid.New())

	complaints := &fakeComplaintRepo{candidates: []*model.Complaint{complaintA, complaintB}}
	users := &fakeUserRepo{admins: map[uuid.UUID][]*model.User{
		tenantA: {adminA},
		tenantB: {adminB},
	}}
	notifications := &fakeNotificationRepo{}

	svc := newTestService(complaints, users, notifications, &fakeBroker{})
	report, err := svc.RunTick(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, report.Escalated)

	batches := notifications.all()
	require.Len(t, batches, 2)
	for _, batch := range batches {
		require.NotEmpty(t, batch)
		tenantID := batch[0].TenantID
		for _, n := range batch {
			assert.Equal(t, tenantID, n.TenantID)
			if tenantID == tenantA {
				assert.NotEqual(t, adminB.ID, n.UserID, "tenant A must never be notified with tenant B users")
			} else {
				assert.NotEqual(t, adminA.ID, n.UserID, "tenant B must never be notified with tenant A users")
			}
		}
	}
}

func TestRunTickNotificationFailureDoesNotAffectEscalation(t *testing.T) {
	tenantID := uuid.New()
	complaint := breachedComplaint(tenantID, uuid.New())

	complaints := &fakeComplaintRepo{candidates: []*model.Complaint{complaint}}
	users := &fakeUserRepo{admins: map[uuid.UUID][]*model.User{
		tenantID: {adminUser(tenantID)},
	}}
	notifications := &fakeNotificationRepo{err: errStore}

	svc := newTestService(complaints, users, notifications, &fakeBroker{})
	report, err := svc.RunTick(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Escalated)
	assert.Zero(t, report.Errors, "notification failures are never tick errors")
}
