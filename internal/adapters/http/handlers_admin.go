package web

import (
	"net/http"
	"time"

	"lifeline/internal/adapters/http/middleware"
	userStore "lifeline/internal/adapters/storage/user"
	"lifeline/internal/application/listutil"
	"lifeline/internal/application/orchestrators"
	"lifeline/internal/application/projections"
	"lifeline/internal/domain/user"
)

// userView is the roster row shape returned to admins. Never exposes the
// password hash.
type userView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Verified  bool      `json:"verified"`
	JoinDate  time.Time `json:"join_date"`
	LastLogin time.Time `json:"last_login"`
}

func toUserViews(users []user.User) []userView {
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, userView{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			Role:      u.Role,
			Verified:  u.Verified,
			JoinDate:  u.JoinDate,
			LastLogin: u.LastLogin,
		})
	}
	return views
}

// handleAdminOverview handles GET /api/admin/overview. Admin gated by
// RequireRole at the route.
func handleAdminOverview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	result, err := projections.QueryGetAdminOverview(r.Context(), projections.GetAdminOverviewDeps{
		UserStore:         stores.UserStore,
		ApplicationStore:  stores.ApplicationStore,
		EventStore:        stores.EventStore,
		RegistrationStore: stores.RegistrationStore,
		DonationStore:     stores.DonationStore,
		AlertStore:        stores.AlertStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_users":          result.TotalUsers,
		"total_applications":   result.TotalApplications,
		"pending_applications": result.PendingApplications,
		"total_events":         result.TotalEvents,
		"total_registrations":  result.TotalRegistrations,
		"total_raised":         result.TotalRaised,
		"donation_count":       result.DonationCount,
		"campaign_target_sum":  result.CampaignTargetSum,
		"alert_count":          result.AlertCount,
		"recent_users":         toUserViews(result.RecentUsers),
	})
}

// handleAdminUsers handles GET /api/admin/users (paginated roster, optional
// role filter) and POST (delete a non-admin user).
func handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		pp := listutil.ParsePageParams(r.URL.Query())
		total, err := stores.UserStore.Count(r.Context())
		if err != nil {
			internalError(w, err)
			return
		}
		info := listutil.NewPageInfo(pp.Page, pp.PerPage, total)
		users, err := stores.UserStore.List(r.Context(), userStore.ListFilter{
			Limit:  info.PerPage,
			Offset: info.Offset(),
			Role:   r.URL.Query().Get("role"),
		})
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"users":       toUserViews(users),
			"page":        info.Page,
			"per_page":    info.PerPage,
			"total":       info.Total,
			"total_pages": info.TotalPages,
		})

	case http.MethodPost:
		sess, _ := middleware.GetSessionFromContext(r.Context())
		var input struct {
			UserID string `json:"user_id"`
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		if err := orchestrators.ExecuteAdminDeleteUser(r.Context(), orchestrators.AdminDeleteUserInput{
			UserID:    input.UserID,
			DeletedBy: sess.Email,
		}, orchestrators.AdminDeleteUserDeps{UserStore: stores.UserStore}); err != nil {
			domainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleAdminPerf handles GET /api/admin/perf: request and query timing
// percentiles from the in-memory ring buffer. Snapshot sorts, so this is
// only called on dashboard load.
func handleAdminPerf(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if perfCollector == nil {
		http.Error(w, "perf collection disabled", http.StatusNotFound)
		return
	}

	snap := perfCollector.Snapshot(timeNow().Add(-time.Hour), 10)
	writeJSON(w, http.StatusOK, snap)
}
