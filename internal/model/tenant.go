package model

// Tenant is the partition boundary. Every query, actor lookup and
// notification fan-out is scoped to a tenant; cross-tenant visibility
// is forbidden.
type Tenant struct {
	Base
	Name   string `json:"name" db:"name"`
	Status string `json:"status" db:"status"`
}
