package alert

import (
	"context"
	"time"

	domain "lifeline/internal/domain/alert"
)

// Store persists the append-only Alert log.
type Store interface {
	Append(ctx context.Context, value domain.Alert) error
	GetLatest(ctx context.Context) (domain.Alert, error)
	ListSince(ctx context.Context, since time.Time, limit int) ([]domain.Alert, error)
	List(ctx context.Context, limit, offset int) ([]domain.Alert, error)
	Count(ctx context.Context) (int, error)
}

// SubscriptionStore persists alert Subscription state.
type SubscriptionStore interface {
	GetByEmail(ctx context.Context, email string) (domain.Subscription, error)
	Save(ctx context.Context, s domain.Subscription) error
	ListAll(ctx context.Context) ([]domain.Subscription, error)
	IncrementUnreadAll(ctx context.Context) error
	ResetUnread(ctx context.Context, email string) error
}
