package escalation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/complaintdesk/complaint-api/internal/model"
	"github.com/complaintdesk/complaint-api/internal/repository"
	apperrors "github.com/complaintdesk/complaint-api/pkg/errors"
	"github.com/complaintdesk/complaint-api/pkg/logger"
	"github.com/complaintdesk/complaint-api/pkg/metrics"
)

// Service runs the scan-evaluate-escalate-notify cycle. One call to
// RunTick is one tick; the scheduler guarantees ticks never overlap.
type Service struct {
	complaints repository.ComplaintRepository
	resolver   *AdminResolver
	notifier   *Notifier
	logger     *logger.Logger
	metrics    *metrics.Metrics
	batchSize  int
	now        func() time.Time
}

func NewService(
	complaints repository.ComplaintRepository,
	resolver *AdminResolver,
	notifier *Notifier,
	logger *logger.Logger,
	metrics *metrics.Metrics,
	batchSize int,
) *Service {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Service{
		complaints: complaints,
		resolver:   resolver,
		notifier:   notifier,
		logger:     logger,
		metrics:    metrics,
		batchSize:  batchSize,
		now:        time.Now,
	}
}

// RunTick executes one full cycle. A failed candidate or admin query
// aborts the tick with a transient error; per-complaint failures are
// isolated and only counted. The returned report is valid either way.
func (s *Service) RunTick(ctx context.Context) (TickReport, error) {
	timer := prometheus.NewTimer(s.metrics.TickDuration)
	defer timer.ObserveDuration()
	s.metrics.TicksTotal.Inc()

	var report TickReport

	candidates, err := s.complaints.FindBreachCandidates(ctx, s.batchSize, model.TerminalComplaintStatuses())
	if err != nil {
		s.metrics.TicksFailed.Inc()
		return report, apperrors.NewTransient("failed to load breach candidates", err)
	}

	report.Scanned = len(candidates)
	s.metrics.ComplaintsScanned.Add(float64(report.Scanned))

	now := s.now().UTC()
	var breached []*model.Complaint
	for _, c := range candidates {
		if c.IsTerminal() {
			continue
		}
		if IsBreached(now, c.CreatedAt, ResolveSLAHours(c.SLAHours)) {
			breached = append(breached, c)
		}
	}

	if len(breached) == 0 {
		s.logger.Debug("tick found no breached complaints", "scanned", report.Scanned)
		return report, nil
	}

	admins, err := s.resolver.Resolve(ctx, distinctTenants(breached))
	if err != nil {
		s.metrics.TicksFailed.Inc()
		return report, apperrors.NewTransient("failed to resolve tenant admins", err)
	}

	var wg sync.WaitGroup
	for _, complaint := range breached {
		tenantAdmins := admins[complaint.TenantID]

		actor, ok := resolveActor(tenantAdmins, complaint)
		if !ok {
			// No admin and no filer: ineligible, not an error.
			report.Skipped++
			s.metrics.ComplaintsSkipped.Inc()
			s.logger.Debug("skipping complaint with no eligible acting user",
				"complaint_id", complaint.ID.String())
			continue
		}

		priorStatus := complaint.Status
		if err := s.complaints.Escalate(ctx, complaint.ID, priorStatus, actor); err != nil {
			report.Errors++
			s.metrics.EscalationErrors.Inc()
			s.logger.Error(err, "failed to escalate complaint",
				"complaint_id", complaint.ID.String(),
				"tenant_id", complaint.TenantID.String())
			continue
		}

		report.Escalated++
		s.metrics.ComplaintsEscalated.Inc()

		// Fan-out is decoupled from the transition: it runs after the
		// transaction committed and its failure never surfaces here.
		wg.Add(1)
		go func(c *model.Complaint, prior string, adminList []*model.User) {
			defer wg.Done()
			s.notifier.NotifyEscalated(ctx, c, prior, adminList)
		}(complaint, priorStatus, tenantAdmins)
	}
	wg.Wait()

	if report.Escalated > 0 || report.Errors > 0 {
		s.logger.Info("tick complete",
			"scanned", report.Scanned,
			"escalated", report.Escalated,
			"skipped", report.Skipped,
			"errors", report.Errors)
	}

	return report, nil
}

// Tick adapts RunTick to the scheduler's signature. A tick-level
// failure self-heals on the next recurrence, so it is only logged.
func (s *Service) Tick(ctx context.Context) {
	if _, err := s.RunTick(ctx); err != nil {
		s.logger.Error(err, "tick aborted")
	}
}

// resolveActor picks the acting user for the history entry: the first
// active admin (lists are ordered by id, so the choice is
// deterministic), falling back to the original filer.
func resolveActor(admins []*model.User, complaint *model.Complaint) (uuid.UUID, bool) {
	if len(admins) > 0 {
		return admins[0].ID, true
	}
	if complaint.CreatedByID != uuid.Nil {
		return complaint.CreatedByID, true
	}
	return uuid.Nil, false
}

func distinctTenants(complaints []*model.Complaint) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(complaints))
	tenants := make([]uuid.UUID, 0, len(complaints))
	for _, c := range complaints {
		if _, ok := seen[c.TenantID]; ok {
			continue
		}
		seen[c.TenantID] = struct{}{}
		tenants = append(tenants, c.TenantID)
	}
	return tenants
}
