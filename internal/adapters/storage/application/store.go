package application

import (
	"context"

	domain "lifeline/internal/domain/volunteer"
)

// Store persists volunteer Application state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Application, error)
	GetByEmail(ctx context.Context, email string) (domain.Application, error)
	Save(ctx context.Context, value domain.Application) error
	List(ctx context.Context, filter ListFilter) ([]domain.Application, error)
	Count(ctx context.Context) (int, error)
}

// ShiftStore persists dashboard Shift state.
type ShiftStore interface {
	GetShift(ctx context.Context, id string) (domain.Shift, error)
	SaveShift(ctx context.Context, s domain.Shift) error
	ListShiftsByEmail(ctx context.Context, email string) ([]domain.Shift, error)
}

// TrainingStore persists training progress state.
type TrainingStore interface {
	SaveCourse(ctx context.Context, c domain.TrainingCourse) error
	ListCoursesByEmail(ctx context.Context, email string) ([]domain.TrainingCourse, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit  int
	Offset int
	Status string
}
