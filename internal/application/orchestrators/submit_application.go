package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"lifeline/internal/domain/user"
	"lifeline/internal/domain/volunteer"
)

// ApplicationStoreForSubmit defines the store interface needed by
// SubmitApplication.
type ApplicationStoreForSubmit interface {
	GetByEmail(ctx context.Context, email string) (volunteer.Application, error)
	Save(ctx context.Context, a volunteer.Application) error
}

// ShiftStoreForSubmit defines the shift store interface needed by
// SubmitApplication.
type ShiftStoreForSubmit interface {
	SaveShift(ctx context.Context, s volunteer.Shift) error
	ListShiftsByEmail(ctx context.Context, email string) ([]volunteer.Shift, error)
}

// TrainingStoreForSubmit defines the training store interface needed by
// SubmitApplication.
type TrainingStoreForSubmit interface {
	SaveCourse(ctx context.Context, c volunteer.TrainingCourse) error
	ListCoursesByEmail(ctx context.Context, email string) ([]volunteer.TrainingCourse, error)
}

// SubmitApplicationInput carries the three form sections.
type SubmitApplicationInput struct {
	Personal     volunteer.Personal
	Skills       volunteer.Skills
	Availability volunteer.Availability
}

// SubmitApplicationDeps holds dependencies for SubmitApplication.
type SubmitApplicationDeps struct {
	ApplicationStore ApplicationStoreForSubmit
	ShiftStore       ShiftStoreForSubmit
	TrainingStore    TrainingStoreForSubmit
	UserStore        UserStoreForLogin
	GenerateID       func() string
	Now              func() time.Time
}

// SubmitApplicationResult carries the stored application and whether it
// replaced an earlier submission.
type SubmitApplicationResult struct {
	Application volunteer.Application
	Resubmitted bool
}

// sampleShiftNames and sampleShiftTimes seed the first three dashboard
// shifts for a new volunteer.
var sampleShiftNames = []string{"Blood Donation Drive", "Disaster Preparedness Training", "Community Health Fair"}
var sampleShiftTimes = []string{"9:00 AM", "1:00 PM", "10:00 AM"}

// sampleTrainings is the fixed four-course progress list every volunteer
// dashboard starts with.
var sampleTrainings = []volunteer.TrainingCourse{
	{Name: "First Aid & CPR", Completed: true, CompletedOn: "2024-03-15"},
	{Name: "Disaster Response", Completed: true, CompletedOn: "2024-03-20"},
	{Name: "Blood Service Training", Completed: false},
	{Name: "Community Health", Completed: false},
}

// ExecuteSubmitApplication validates and stores a volunteer application.
// One application exists per email: resubmitting replaces the stored record,
// including a freshly generated reference code. A chapter is assigned from
// the address, a roster user with role volunteer is created if the email is
// new, and the dashboard sample data (shifts, training progress) is seeded
// exactly once.
// PRE: input sections are as typed by the applicant
// POST: Exactly one application exists for the email; nothing written on
// validation failure
func ExecuteSubmitApplication(ctx context.Context, input SubmitApplicationInput, deps SubmitApplicationDeps) (SubmitApplicationResult, error) {
	now := deps.Now()
	app := volunteer.Application{
		ID:              deps.GenerateID(),
		Personal:        input.Personal,
		Skills:          input.Skills,
		Availability:    input.Availability,
		ReferenceCode:   referenceCode("VOL", deps.GenerateID()),
		Status:          volunteer.StatusPending,
		AssignedChapter: volunteer.AssignChapter(input.Personal.Address),
		SubmittedAt:     now,
	}
	if err := app.Validate(); err != nil {
		return SubmitApplicationResult{}, err
	}

	_, lookupErr := deps.ApplicationStore.GetByEmail(ctx, app.Personal.Email)
	resubmitted := lookupErr == nil

	if err := deps.ApplicationStore.Save(ctx, app); err != nil {
		return SubmitApplicationResult{}, err
	}

	if _, err := deps.UserStore.GetByEmail(ctx, app.Personal.Email); err != nil {
		u := user.User{
			ID:       deps.GenerateID(),
			Name:     app.Personal.Name,
			Email:    app.Personal.Email,
			Role:     user.RoleVolunteer,
			JoinDate: now,
		}
		if err := deps.UserStore.Save(ctx, u); err != nil {
			return SubmitApplicationResult{}, err
		}
	}

	if err := seedVolunteerDashboard(ctx, app, deps, now); err != nil {
		return SubmitApplicationResult{}, err
	}

	slog.Info("volunteer_event", "event", "application_submitted",
		"email", app.Personal.Email, "chapter", app.AssignedChapter, "resubmitted", resubmitted)

	return SubmitApplicationResult{Application: app, Resubmitted: resubmitted}, nil
}

// seedVolunteerDashboard persists the sample shifts and training list the
// first time a volunteer appears. Later submissions leave the dashboard
// untouched.
func seedVolunteerDashboard(ctx context.Context, app volunteer.Application, deps SubmitApplicationDeps, now time.Time) error {
	shifts, err := deps.ShiftStore.ListShiftsByEmail(ctx, app.Personal.Email)
	if err != nil {
		return err
	}
	if len(shifts) == 0 {
		for i := 1; i <= 3; i++ {
			shift := volunteer.Shift{
				ID:       deps.GenerateID(),
				Email:    app.Personal.Email,
				Role:     sampleShiftNames[i%3],
				Date:     now.AddDate(0, 0, i*3).Format("2006-01-02"),
				Time:     sampleShiftTimes[i%3],
				Location: app.AssignedChapter,
				Status:   volunteer.ShiftScheduled,
			}
			if err := deps.ShiftStore.SaveShift(ctx, shift); err != nil {
				return err
			}
		}
	}

	courses, err := deps.TrainingStore.ListCoursesByEmail(ctx, app.Personal.Email)
	if err != nil {
		return err
	}
	if len(courses) == 0 {
		for _, tpl := range sampleTrainings {
			course := tpl
			course.ID = deps.GenerateID()
			course.Email = app.Personal.Email
			if err := deps.TrainingStore.SaveCourse(ctx, course); err != nil {
				return err
			}
		}
	}
	return nil
}

// referenceCode builds a user-visible code like "VOL-3F2A9C1D" from an
// entity id.
func referenceCode(prefix, id string) string {
	compact := strings.ReplaceAll(id, "-", "")
	if len(compact) > 8 {
		compact = compact[:8]
	}
	return fmt.Sprintf("%s-%s", prefix, strings.ToUpper(compact))
}
