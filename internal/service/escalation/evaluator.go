package escalation

import (
	"time"

	"github.com/complaintdesk/complaint-api/internal/model"
)

// IsBreached reports whether a complaint created at createdAt has
// exceeded an SLA window of slaHours as of now. The boundary is
// inclusive: exactly slaHours elapsed counts as a breach. Pure and safe
// for concurrent use.
func IsBreached(now, createdAt time.Time, slaHours int) bool {
	return now.Sub(createdAt) >= time.Duration(slaHours)*time.Hour
}

// ResolveSLAHours returns the configured window, or the department
// default when none is set. Callers resolve the default; IsBreached
// always receives a positive window.
func ResolveSLAHours(slaHours *int) int {
	if slaHours == nil || *slaHours <= 0 {
		return model.DefaultSLAHours
	}
	return *slaHours
}
