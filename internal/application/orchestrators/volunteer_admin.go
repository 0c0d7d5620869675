package orchestrators

import (
	"context"
	"log/slog"

	"lifeline/internal/domain/volunteer"
)

// ApplicationStoreForReview defines the store interface needed by
// application review.
type ApplicationStoreForReview interface {
	GetByID(ctx context.Context, id string) (volunteer.Application, error)
	Save(ctx context.Context, a volunteer.Application) error
}

// ReviewApplicationInput carries an admin review decision.
type ReviewApplicationInput struct {
	ApplicationID string
	Status        string // approved or rejected
	ReviewedBy    string
}

// ReviewApplicationDeps holds dependencies for ReviewApplication.
type ReviewApplicationDeps struct {
	ApplicationStore ApplicationStoreForReview
}

// ExecuteReviewApplication records an admin decision on an application.
// PRE: ApplicationID identifies an existing application
// POST: Application status is updated
func ExecuteReviewApplication(ctx context.Context, input ReviewApplicationInput, deps ReviewApplicationDeps) (volunteer.Application, error) {
	app, err := deps.ApplicationStore.GetByID(ctx, input.ApplicationID)
	if err != nil {
		return volunteer.Application{}, err
	}
	if err := app.SetStatus(input.Status); err != nil {
		return volunteer.Application{}, err
	}
	if err := deps.ApplicationStore.Save(ctx, app); err != nil {
		return volunteer.Application{}, err
	}
	slog.Info("volunteer_event", "event", "application_reviewed",
		"application_id", app.ID, "status", app.Status, "reviewed_by", input.ReviewedBy)
	return app, nil
}

// ShiftStoreForCancel defines the shift store interface needed by
// CancelShift.
type ShiftStoreForCancel interface {
	GetShift(ctx context.Context, id string) (volunteer.Shift, error)
	SaveShift(ctx context.Context, s volunteer.Shift) error
}

// CancelShiftInput carries a shift cancellation request.
type CancelShiftInput struct {
	ShiftID string
	Email   string // requesting volunteer; must own the shift
}

// CancelShiftDeps holds dependencies for CancelShift.
type CancelShiftDeps struct {
	ShiftStore ShiftStoreForCancel
}

// ExecuteCancelShift cancels one of the volunteer's own shifts.
// PRE: ShiftID identifies an existing shift owned by Email
// POST: Shift status is cancelled
func ExecuteCancelShift(ctx context.Context, input CancelShiftInput, deps CancelShiftDeps) error {
	if input.ShiftID == "" {
		return volunteer.ErrMissingShiftRef
	}
	shift, err := deps.ShiftStore.GetShift(ctx, input.ShiftID)
	if err != nil {
		return err
	}
	if shift.Email != input.Email {
		return volunteer.ErrShiftNotOwned
	}
	if err := shift.Cancel(); err != nil {
		return err
	}
	if err := deps.ShiftStore.SaveShift(ctx, shift); err != nil {
		return err
	}
	slog.Info("volunteer_event", "event", "shift_cancelled", "shift_id", shift.ID, "email", shift.Email)
	return nil
}
