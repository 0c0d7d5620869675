package projections

import (
	"context"
	"sort"

	applicationStore "lifeline/internal/adapters/storage/application"
	userStore "lifeline/internal/adapters/storage/user"
	"lifeline/internal/domain/donation"
	"lifeline/internal/domain/user"
	"lifeline/internal/domain/volunteer"
)

// UserStoreForOverview defines the user store interface needed by the admin
// overview.
type UserStoreForOverview interface {
	List(ctx context.Context, filter userStore.ListFilter) ([]user.User, error)
	Count(ctx context.Context) (int, error)
}

// ApplicationStoreForOverview defines the application store interface
// needed by the admin overview.
type ApplicationStoreForOverview interface {
	List(ctx context.Context, filter applicationStore.ListFilter) ([]volunteer.Application, error)
	Count(ctx context.Context) (int, error)
}

// EventStoreForOverview counts events for the admin overview.
type EventStoreForOverview interface {
	Count(ctx context.Context) (int, error)
}

// RegistrationStoreForOverview counts registrations for the admin overview.
type RegistrationStoreForOverview interface {
	CountAll(ctx context.Context) (int, error)
}

// DonationStoreForOverview sums the ledger for the admin overview.
type DonationStoreForOverview interface {
	SumAll(ctx context.Context) (int, error)
	Count(ctx context.Context) (int, error)
}

// AlertStoreForOverview counts alerts for the admin overview.
type AlertStoreForOverview interface {
	Count(ctx context.Context) (int, error)
}

// GetAdminOverviewDeps holds dependencies for the admin overview projection.
type GetAdminOverviewDeps struct {
	UserStore         UserStoreForOverview
	ApplicationStore  ApplicationStoreForOverview
	EventStore        EventStoreForOverview
	RegistrationStore RegistrationStoreForOverview
	DonationStore     DonationStoreForOverview
	AlertStore        AlertStoreForOverview
}

// GetAdminOverviewResult carries the admin dashboard's headline numbers and
// work queue.
type GetAdminOverviewResult struct {
	TotalUsers          int
	TotalApplications   int
	PendingApplications []volunteer.Application
	TotalEvents         int
	TotalRegistrations  int
	TotalRaised         int
	DonationCount       int
	CampaignTargetSum   int
	AlertCount          int
	RecentUsers         []user.User
}

// maxOverviewRows caps the overview's list sections.
const maxOverviewRows = 10

// QueryGetAdminOverview assembles the admin dashboard counts plus the
// pending application queue, oldest submission first so nothing rots at the
// back of the list.
func QueryGetAdminOverview(ctx context.Context, deps GetAdminOverviewDeps) (GetAdminOverviewResult, error) {
	var result GetAdminOverviewResult
	var err error

	if result.TotalUsers, err = deps.UserStore.Count(ctx); err != nil {
		return GetAdminOverviewResult{}, err
	}
	if result.TotalApplications, err = deps.ApplicationStore.Count(ctx); err != nil {
		return GetAdminOverviewResult{}, err
	}
	if result.TotalEvents, err = deps.EventStore.Count(ctx); err != nil {
		return GetAdminOverviewResult{}, err
	}
	if result.TotalRegistrations, err = deps.RegistrationStore.CountAll(ctx); err != nil {
		return GetAdminOverviewResult{}, err
	}
	if result.TotalRaised, err = deps.DonationStore.SumAll(ctx); err != nil {
		return GetAdminOverviewResult{}, err
	}
	if result.DonationCount, err = deps.DonationStore.Count(ctx); err != nil {
		return GetAdminOverviewResult{}, err
	}
	if result.AlertCount, err = deps.AlertStore.Count(ctx); err != nil {
		return GetAdminOverviewResult{}, err
	}
	for _, target := range donation.CampaignTargets {
		result.CampaignTargetSum += target
	}

	pending, err := deps.ApplicationStore.List(ctx, applicationStore.ListFilter{Status: volunteer.StatusPending})
	if err != nil {
		return GetAdminOverviewResult{}, err
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].SubmittedAt.Before(pending[j].SubmittedAt)
	})
	if len(pending) > maxOverviewRows {
		pending = pending[:maxOverviewRows]
	}
	result.PendingApplications = pending

	users, err := deps.UserStore.List(ctx, userStore.ListFilter{Limit: maxOverviewRows})
	if err != nil {
		return GetAdminOverviewResult{}, err
	}
	result.RecentUsers = users

	return result, nil
}
