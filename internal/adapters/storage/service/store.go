package service

import (
	"context"

	domain "lifeline/internal/domain/service"
)

// Store persists Service directory state. The directory is written only by
// the seed path; everything else is reads.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Service, error)
	Save(ctx context.Context, value domain.Service) error
	List(ctx context.Context) ([]domain.Service, error)
	Count(ctx context.Context) (int, error)
}
