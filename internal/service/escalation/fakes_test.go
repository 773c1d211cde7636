package escalation

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/complaintdesk/complaint-api/internal/model"
	"github.com/complaintdesk/complaint-api/pkg/logger"
	"github.com/complaintdesk/complaint-api/pkg/messaging"
)

var errStore = errors.New("store rejected write")

type escalateCall struct {
	complaintID uuid.UUID
	priorStatus string
	actorID     uuid.UUID
}

type fakeComplaintRepo struct {
	mu            sync.Mutex
	candidates    []*model.Complaint
	candidatesErr error
	failIDs       map[uuid.UUID]bool
	escalations   []escalateCall
}

func (f *fakeComplaintRepo) FindBreachCandidates(_ context.Context, batchSize int, _ []string) ([]*model.Complaint, error) {
	if f.candidatesErr != nil {
		return nil, f.candidatesErr
	}
	if len(f.candidates) > batchSize {
		return f.candidates[:batchSize], nil
	}
	return f.candidates, nil
}

func (f *fakeComplaintRepo) Escalate(_ context.Context, complaintID uuid.UUID, priorStatus string, actorID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIDs[complaintID] {
		return errStore
	}
	f.escalations = append(f.escalations, escalateCall{complaintID, priorStatus, actorID})
	return nil
}

func (f *fakeComplaintRepo) calls() []escalateCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]escalateCall(nil), f.escalations...)
}

type fakeUserRepo struct {
	mu     sync.Mutex
	admins map[uuid.UUID][]*model.User
	err    error
	ncalls int
}

func (f *fakeUserRepo) FindActiveAdmins(_ context.Context, tenantIDs []uuid.UUID) (map[uuid.UUID][]*model.User, error) {
	f.mu.Lock()
	f.ncalls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	result := make(map[uuid.UUID][]*model.User)
	for _, id := range tenantIDs {
		if admins, ok := f.admins[id]; ok {
			result[id] = admins
		}
	}
	return result, nil
}

func (f *fakeUserRepo) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ncalls
}

type fakeNotificationRepo struct {
	mu      sync.Mutex
	batches [][]*model.Notification
	err     error
}

func (f *fakeNotificationRepo) CreateMany(_ context.Context, notifications []*model.Notification) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, notifications)
	return int64(len(notifications)), nil
}

func (f *fakeNotificationRepo) all() [][]*model.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]*model.Notification(nil), f.batches...)
}

type publishedMessage struct {
	channel string
	message interface{}
}

type fakeBroker struct {
	mu        sync.Mutex
	published []publishedMessage
	err       error
}

func (f *fakeBroker) Publish(_ context.Context, channel string, message interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, publishedMessage{channel, message})
	return nil
}

func (f *fakeBroker) Subscribe(context.Context, string) (<-chan []byte, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeBroker) Close() error { return nil }

func (f *fakeBroker) all() []publishedMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]publishedMessage(nil), f.published...)
}

var _ messaging.Broker = (*fakeBroker)(nil)

func testLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{
		Level:  logger.ErrorLevel,
		Output: io.Discard,
	})
}
