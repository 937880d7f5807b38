package domain

import "context"

// ServicePort defines the service contract for runs
type ServicePort interface {
	List(ctx context.Context, in ListInput) ([]Run, error)
	Get(ctx context.Context, runID string) (RunDetail, error)
}
