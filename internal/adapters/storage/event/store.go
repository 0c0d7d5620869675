package event

import (
	"context"

	domain "lifeline/internal/domain/event"
)

// Store persists Event state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Event, error)
	Save(ctx context.Context, value domain.Event) error
	ListByDateRange(ctx context.Context, from, to string) ([]domain.Event, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Event, error)
	Count(ctx context.Context) (int, error)
	SaveWithRegistration(ctx context.Context, e domain.Event, r domain.Registration) error
}

// RegistrationStore persists event Registration state.
type RegistrationStore interface {
	ListByEvent(ctx context.Context, eventID string) ([]domain.Registration, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Registration, error)
	CountAll(ctx context.Context) (int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit  int
	Offset int
	Type   string // "", "all" or a concrete event type
}
