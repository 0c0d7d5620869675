package web

import (
	"net/http"

	"lifeline/internal/adapters/http/middleware"
	applicationStore "lifeline/internal/adapters/storage/application"
	"lifeline/internal/application/listutil"
	"lifeline/internal/application/orchestrators"
	"lifeline/internal/application/projections"
	"lifeline/internal/domain/volunteer"
)

// handleVolunteerApply handles POST /api/volunteer/apply.
func handleVolunteerApply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var input struct {
		Name           string   `json:"name"`
		Birthdate      string   `json:"birthdate"`
		Email          string   `json:"email"`
		Phone          string   `json:"phone"`
		Address        string   `json:"address"`
		Skills         []string `json:"skills"`
		Interests      []string `json:"interests"`
		Days           []string `json:"days"`
		PreferredTime  string   `json:"preferred_time"`
		EmergencyName  string   `json:"emergency_name"`
		EmergencyPhone string   `json:"emergency_phone"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	result, err := orchestrators.ExecuteSubmitApplication(r.Context(), orchestrators.SubmitApplicationInput{
		Personal: volunteer.Personal{
			Name:      input.Name,
			Birthdate: input.Birthdate,
			Email:     input.Email,
			Phone:     input.Phone,
			Address:   input.Address,
		},
		Skills: volunteer.Skills{
			Selected:  input.Skills,
			Interests: input.Interests,
		},
		Availability: volunteer.Availability{
			Days:           input.Days,
			PreferredTime:  input.PreferredTime,
			EmergencyName:  input.EmergencyName,
			EmergencyPhone: input.EmergencyPhone,
		},
	}, orchestrators.SubmitApplicationDeps{
		ApplicationStore: stores.ApplicationStore,
		ShiftStore:       stores.ShiftStore,
		TrainingStore:    stores.TrainingStore,
		UserStore:        stores.UserStore,
		GenerateID:       generateID,
		Now:              timeNow,
	})
	if err != nil {
		domainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"reference_code":   result.Application.ReferenceCode,
		"assigned_chapter": result.Application.AssignedChapter,
		"status":           result.Application.Status,
		"resubmitted":      result.Resubmitted,
	})
}

// handleVolunteerDashboard handles GET /api/volunteer/dashboard for the
// signed-in volunteer.
func handleVolunteerDashboard(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	result, err := projections.QueryGetVolunteerDashboard(r.Context(), projections.GetVolunteerDashboardQuery{
		Email: sess.Email,
		Now:   timeNow(),
	}, projections.GetVolunteerDashboardDeps{
		ApplicationStore: stores.ApplicationStore,
		ShiftStore:       stores.ShiftStore,
		TrainingStore:    stores.TrainingStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	view := map[string]any{
		"has_application": result.HasApplication,
		"upcoming_shifts": result.UpcomingShifts,
		"trainings":       result.Trainings,
		"completed_count": result.CompletedCount,
	}
	if result.HasApplication {
		view["application"] = map[string]any{
			"reference_code":   result.Application.ReferenceCode,
			"status":           result.Application.Status,
			"assigned_chapter": result.Application.AssignedChapter,
			"submitted_at":     result.Application.SubmittedAt,
		}
	}
	writeJSON(w, http.StatusOK, view)
}

// handleShiftCancel handles POST /api/volunteer/shifts/cancel.
func handleShiftCancel(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var input struct {
		ShiftID string `json:"shift_id"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if err := orchestrators.ExecuteCancelShift(r.Context(), orchestrators.CancelShiftInput{
		ShiftID: input.ShiftID,
		Email:   sess.Email,
	}, orchestrators.CancelShiftDeps{ShiftStore: stores.ShiftStore}); err != nil {
		domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAdminApplications handles GET /api/admin/applications (list, with
// optional status filter) and POST (review decision).
func handleAdminApplications(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		apps, err := stores.ApplicationStore.List(r.Context(), applicationStore.ListFilter{
			Status: r.URL.Query().Get("status"),
		})
		if err != nil {
			internalError(w, err)
			return
		}
		pp := listutil.ParsePageParams(r.URL.Query())
		info := listutil.NewPageInfo(pp.Page, pp.PerPage, len(apps))
		start, end := info.Offset(), info.EndRow()
		if start > len(apps) {
			start = len(apps)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"applications": apps[start:end],
			"page":         info.Page,
			"per_page":     info.PerPage,
			"total":        info.Total,
			"total_pages":  info.TotalPages,
		})

	case http.MethodPost:
		sess, _ := middleware.GetSessionFromContext(r.Context())
		var input struct {
			ApplicationID string `json:"application_id"`
			Status        string `json:"status"`
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		app, err := orchestrators.ExecuteReviewApplication(r.Context(), orchestrators.ReviewApplicationInput{
			ApplicationID: input.ApplicationID,
			Status:        input.Status,
			ReviewedBy:    sess.Email,
		}, orchestrators.ReviewApplicationDeps{ApplicationStore: stores.ApplicationStore})
		if err != nil {
			domainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"application_id": app.ID,
			"status":         app.Status,
		})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
