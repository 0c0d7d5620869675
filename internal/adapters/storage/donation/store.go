package donation

import (
	"context"

	domain "lifeline/internal/domain/donation"
)

// Store persists the append-only Donation ledger. There is no update or
// delete: totals are always derived by summing entries.
type Store interface {
	Append(ctx context.Context, value domain.Donation) error
	List(ctx context.Context, filter ListFilter) ([]domain.Donation, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Donation, error)
	SumByCampaign(ctx context.Context, campaign string) (int, error)
	SumAll(ctx context.Context) (int, error)
	Count(ctx context.Context) (int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit    int
	Offset   int
	Campaign string
}
