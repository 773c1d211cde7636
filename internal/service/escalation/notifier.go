package escalation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/complaintdesk/complaint-api/internal/email"
	"github.com/complaintdesk/complaint-api/internal/model"
	"github.com/complaintdesk/complaint-api/internal/repository"
	"github.com/complaintdesk/complaint-api/pkg/logger"
	"github.com/complaintdesk/complaint-api/pkg/messaging"
	"github.com/complaintdesk/complaint-api/pkg/metrics"
)

// EscalationEventChannel is the broker channel escalation events are
// published on.
const EscalationEventChannel = "complaint.events"

// EscalatedEvent is the payload published for each escalation.
type EscalatedEvent struct {
	ComplaintID uuid.UUID `json:"complaint_id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	OldStatus   string    `json:"old_status"`
	NewStatus   string    `json:"new_status"`
	EscalatedAt time.Time `json:"escalated_at"`
}

// Notifier fans an escalation out to in-app notifications, the event
// broker and, optionally, email. Every leg is best-effort: failures are
// logged and counted, never propagated, and never affect the completed
// escalation.
type Notifier struct {
	repo     repository.NotificationRepository
	broker   messaging.Broker
	emailSvc email.Service
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

func NewNotifier(
	repo repository.NotificationRepository,
	broker messaging.Broker,
	emailSvc email.Service,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *Notifier {
	return &Notifier{
		repo:     repo,
		broker:   broker,
		emailSvc: emailSvc,
		logger:   logger,
		metrics:  metrics,
	}
}

// NotifyEscalated dispatches all notification legs for one escalated
// complaint. Recipients are the tenant's admins, the original filer and
// the current assignee, deduplicated; prior status is the status the
// complaint held before the transition.
func (n *Notifier) NotifyEscalated(ctx context.Context, complaint *model.Complaint, priorStatus string, admins []*model.User) {
	n.createNotifications(ctx, complaint, admins)
	n.publishEvent(ctx, complaint, priorStatus)
	n.sendEmails(ctx, complaint, admins)
}

func (n *Notifier) createNotifications(ctx context.Context, complaint *model.Complaint, admins []*model.User) {
	recipients := recipientSet(complaint, admins)
	if len(recipients) == 0 {
		return
	}

	message := fmt.Sprintf("Complaint %q breached its SLA and was escalated.", complaint.Title)

	notifications := make([]*model.Notification, 0, len(recipients))
	for _, userID := range recipients {
		notifications = append(notifications, &model.Notification{
			UserID:      userID,
			TenantID:    complaint.TenantID,
			ComplaintID: complaint.ID,
			Title:       model.EscalationNotificationTitle,
			Message:     message,
		})
	}

	created, err := n.repo.CreateMany(ctx, notifications)
	if err != nil {
		n.metrics.NotificationFailures.Inc()
		n.logger.Error(err, "failed to create escalation notifications",
			"complaint_id", complaint.ID.String())
		return
	}
	n.metrics.NotificationsCreated.Add(float64(created))
}

func (n *Notifier) publishEvent(ctx context.Context, complaint *model.Complaint, priorStatus string) {
	if n.broker == nil {
		return
	}

	event := messaging.Message{
		Type: "complaint.escalated",
		Payload: EscalatedEvent{
			ComplaintID: complaint.ID,
			TenantID:    complaint.TenantID,
			OldStatus:   priorStatus,
			NewStatus:   model.ComplaintStatusEscalated,
			EscalatedAt: time.Now().UTC(),
		},
	}

	if err := n.broker.Publish(ctx, EscalationEventChannel, event); err != nil {
		n.logger.Error(err, "failed to publish escalation event",
			"complaint_id", complaint.ID.String())
	}
}

func (n *Notifier) sendEmails(ctx context.Context, complaint *model.Complaint, admins []*model.User) {
	if n.emailSvc == nil {
		return
	}

	to := make([]string, 0, len(admins))
	for _, admin := range admins {
		if admin.Email != "" {
			to = append(to, admin.Email)
		}
	}
	if len(to) == 0 {
		return
	}

	subject := fmt.Sprintf("[SLA] Complaint escalated: %s", complaint.Title)
	content := fmt.Sprintf(
		"Complaint %s (%q) exceeded its department SLA window and has been escalated.\n\nFiled at: %s\n",
		complaint.ID, complaint.Title, complaint.CreatedAt.Format(time.RFC3339))

	if err := n.emailSvc.SendCustom(ctx, to, subject, content); err != nil {
		n.logger.Error(err, "failed to send escalation email",
			"complaint_id", complaint.ID.String())
		return
	}
	n.metrics.EmailsSent.Inc()
}

// recipientSet builds the deduplicated recipient ids: tenant admins,
// the filer and the assignee, in that order, dropping absent identities.
func recipientSet(complaint *model.Complaint, admins []*model.User) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	recipients := make([]uuid.UUID, 0, len(admins)+2)

	add := func(id uuid.UUID) {
		if id == uuid.Nil {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		recipients = append(recipients, id)
	}

	for _, admin := range admins {
		add(admin.ID)
	}
	add(complaint.CreatedByID)
	if complaint.AssignedToID != nil {
		add(*complaint.AssignedToID)
	}

	return recipients
}
