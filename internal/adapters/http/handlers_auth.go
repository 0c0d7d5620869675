package web

import (
	"net/http"

	"lifeline/internal/adapters/http/middleware"
	"lifeline/internal/application/orchestrators"
	userDomain "lifeline/internal/domain/user"
)

// handleLogin handles POST /api/auth/login.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Email:    input.Email,
		Password: input.Password,
	}, loginDeps())
	if err != nil {
		domainError(w, err)
		return
	}

	token, err := sessions.Create(result.UserID, result.Name, result.Email, result.Role)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)

	writeJSON(w, http.StatusOK, map[string]string{
		"user_id": result.UserID,
		"name":    result.Name,
		"email":   result.Email,
		"role":    result.Role,
	})
}

// handleRegister handles POST /api/auth/register.
func handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var input struct {
		Name            string `json:"name"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	u, err := orchestrators.ExecuteRegister(r.Context(), orchestrators.RegisterInput{
		Name:            input.Name,
		Email:           input.Email,
		Password:        input.Password,
		ConfirmPassword: input.ConfirmPassword,
	}, registerDeps())
	if err != nil {
		domainError(w, err)
		return
	}

	// Registration signs the new account in, same as login.
	token, err := sessions.Create(u.ID, u.Name, u.Email, u.Role)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)

	writeJSON(w, http.StatusCreated, map[string]string{
		"user_id": u.ID,
		"name":    u.Name,
		"email":   u.Email,
		"role":    u.Role,
	})
}

// handleLogout handles POST /api/auth/logout.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if cookie, err := r.Cookie("lifeline_session"); err == nil {
		sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// handleMe handles GET /api/auth/me. The admin allow-list is re-checked on
// every call so a stale stored role can never hide an admin.
func handleMe(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	role, err := orchestrators.ExecuteEnsureAdminRole(r.Context(), sess.Email, orchestrators.EnsureAdminRoleDeps{
		UserStore:   stores.UserStore,
		AdminEmails: adminEmails,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"user_id": sess.UserID,
		"name":    sess.Name,
		"email":   sess.Email,
		"role":    role,
	})
}

// handleProfile handles PUT /api/auth/profile (rename only, email is
// immutable) and DELETE /api/auth/profile (account deletion with explicit
// confirmation).
func handleProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodPut:
		var input struct {
			Name string `json:"name"`
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		u, err := orchestrators.ExecuteUpdateProfile(r.Context(), orchestrators.UpdateProfileInput{
			UserID: sess.UserID,
			Name:   input.Name,
		}, registerDeps())
		if err != nil {
			domainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"name": u.Name, "email": u.Email})

	case http.MethodDelete:
		var input struct {
			Confirm bool `json:"confirm"`
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		if err := orchestrators.ExecuteDeleteAccount(r.Context(), orchestrators.DeleteAccountInput{
			UserID:  sess.UserID,
			Confirm: input.Confirm,
		}, registerDeps()); err != nil {
			domainError(w, err)
			return
		}
		if cookie, err := r.Cookie("lifeline_session"); err == nil {
			sessions.Delete(cookie.Value)
		}
		middleware.ClearSessionCookie(w)
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleSettings handles GET and PUT for /api/auth/settings.
func handleSettings(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s, err := stores.UserStore.GetSettings(r.Context(), sess.UserID)
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, settingsView(s))

	case http.MethodPut:
		var input struct {
			EmailNotifications bool   `json:"email_notifications"`
			ProfileVisible     bool   `json:"profile_visible"`
			Theme              string `json:"theme"`
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		s, err := orchestrators.ExecuteUpdateSettings(r.Context(), orchestrators.UpdateSettingsInput{
			UserID:             sess.UserID,
			EmailNotifications: input.EmailNotifications,
			ProfileVisible:     input.ProfileVisible,
			Theme:              input.Theme,
		}, orchestrators.UpdateSettingsDeps{SettingsStore: stores.UserStore, Now: timeNow})
		if err != nil {
			domainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, settingsView(s))

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleExport handles GET /api/auth/export: a JSON dump of everything
// stored under the signed-in user's email.
func handleExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()

	export := map[string]any{
		"email": sess.Email,
		"name":  sess.Name,
		"role":  sess.Role,
	}

	if u, err := stores.UserStore.GetByEmail(ctx, sess.Email); err == nil {
		export["joined"] = u.JoinDate
		export["last_login"] = u.LastLogin
	}
	if app, err := stores.ApplicationStore.GetByEmail(ctx, sess.Email); err == nil {
		export["volunteer_application"] = app
	}
	if shifts, err := stores.ShiftStore.ListShiftsByEmail(ctx, sess.Email); err == nil && len(shifts) > 0 {
		export["shifts"] = shifts
	}
	if courses, err := stores.TrainingStore.ListCoursesByEmail(ctx, sess.Email); err == nil && len(courses) > 0 {
		export["trainings"] = courses
	}
	if regs, err := stores.RegistrationStore.ListByEmail(ctx, sess.Email); err == nil && len(regs) > 0 {
		export["event_registrations"] = regs
	}
	if donations, err := stores.DonationStore.ListByEmail(ctx, sess.Email); err == nil && len(donations) > 0 {
		export["donations"] = donations
	}

	w.Header().Set("Content-Disposition", "attachment; filename=lifeline-export.json")
	writeJSON(w, http.StatusOK, export)
}

func settingsView(s userDomain.Settings) map[string]any {
	return map[string]any{
		"email_notifications": s.EmailNotifications,
		"profile_visible":     s.ProfileVisible,
		"theme":               s.Theme,
	}
}

// registerDeps bundles the account maintenance dependencies.
func registerDeps() orchestrators.RegisterDeps {
	return orchestrators.RegisterDeps{
		UserStore:  stores.UserStore,
		GenerateID: generateID,
		Now:        timeNow,
	}
}
