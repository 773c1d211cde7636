package escalation

// TickReport aggregates the counts produced by one monitor tick.
type TickReport struct {
	Scanned   int `json:"scanned"`
	Escalated int `json:"escalated"`
	Skipped   int `json:"skipped"`
	Errors    int `json:"errors"`
}

// Empty reports whether the tick did nothing worth surfacing.
func (r TickReport) Empty() bool {
	return r.Scanned == 0 && r.Escalated == 0 && r.Skipped == 0 && r.Errors == 0
}
