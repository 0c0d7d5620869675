package projections

import (
	"context"
	"sort"
	"time"

	"lifeline/internal/domain/volunteer"
)

// MaxUpcomingShifts caps the dashboard's shift list.
const MaxUpcomingShifts = 3

// ApplicationStoreForDashboard defines the application store interface
// needed by the volunteer dashboard projection.
type ApplicationStoreForDashboard interface {
	GetByEmail(ctx context.Context, email string) (volunteer.Application, error)
}

// ShiftStoreForDashboard lists a volunteer's shifts.
type ShiftStoreForDashboard interface {
	ListShiftsByEmail(ctx context.Context, email string) ([]volunteer.Shift, error)
}

// TrainingStoreForDashboard lists a volunteer's training progress.
type TrainingStoreForDashboard interface {
	ListCoursesByEmail(ctx context.Context, email string) ([]volunteer.TrainingCourse, error)
}

// GetVolunteerDashboardQuery identifies the volunteer and the current day.
type GetVolunteerDashboardQuery struct {
	Email string
	Now   time.Time
}

// GetVolunteerDashboardDeps holds dependencies for the dashboard projection.
type GetVolunteerDashboardDeps struct {
	ApplicationStore ApplicationStoreForDashboard
	ShiftStore       ShiftStoreForDashboard
	TrainingStore    TrainingStoreForDashboard
}

// GetVolunteerDashboardResult carries the dashboard view.
type GetVolunteerDashboardResult struct {
	Application    volunteer.Application
	HasApplication bool
	UpcomingShifts []volunteer.Shift
	Trainings      []volunteer.TrainingCourse
	CompletedCount int
}

// QueryGetVolunteerDashboard assembles a volunteer's dashboard: their
// application status, the next few scheduled shifts, and training progress.
// Cancelled and past shifts never appear.
func QueryGetVolunteerDashboard(ctx context.Context, query GetVolunteerDashboardQuery, deps GetVolunteerDashboardDeps) (GetVolunteerDashboardResult, error) {
	var result GetVolunteerDashboardResult

	app, err := deps.ApplicationStore.GetByEmail(ctx, query.Email)
	if err == nil {
		result.Application = app
		result.HasApplication = true
	}

	shifts, err := deps.ShiftStore.ListShiftsByEmail(ctx, query.Email)
	if err != nil {
		return GetVolunteerDashboardResult{}, err
	}
	today := query.Now.Format("2006-01-02")
	upcoming := make([]volunteer.Shift, 0, len(shifts))
	for _, sh := range shifts {
		if sh.Status != volunteer.ShiftScheduled || sh.Date < today {
			continue
		}
		upcoming = append(upcoming, sh)
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].Date < upcoming[j].Date
	})
	if len(upcoming) > MaxUpcomingShifts {
		upcoming = upcoming[:MaxUpcomingShifts]
	}
	result.UpcomingShifts = upcoming

	courses, err := deps.TrainingStore.ListCoursesByEmail(ctx, query.Email)
	if err != nil {
		return GetVolunteerDashboardResult{}, err
	}
	result.Trainings = courses
	for _, c := range courses {
		if c.Completed {
			result.CompletedCount++
		}
	}

	return result, nil
}
