package domain

import (
	"context"
	"errors"
)

type Service interface {
	// Compute aggregates amount-weighted risk across all outstanding
	// invoices of the tenant's own customers. An empty portfolio yields
	// a zeroed, stable result.
	Compute(ctx context.Context) (RiskScore, error)
	// TakeSnapshot records the current score into the append-only weekly
	// series used for week-over-week comparison.
	TakeSnapshot(ctx context.Context) (Snapshot, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
)
