package domain

import "context"

// PlanRepository reads subscription plans
type PlanRepository interface {
	// ExistsActive reports whether an active plan with the id exists
	ExistsActive(ctx context.Context, planID int64) (bool, error)
}
