package web

import (
	"net/http"

	"lifeline/internal/adapters/http/middleware"
	"lifeline/internal/application/orchestrators"
	"lifeline/internal/application/projections"
)

// handleRecentAlerts handles GET /api/alerts/recent. Public; when the caller
// is signed in their subscription state rides along. Alert messages are
// authored in markdown and rendered server-side.
func handleRecentAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	query := projections.GetRecentAlertsQuery{Now: timeNow()}
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		query.Email = sess.Email
	}

	result, err := projections.QueryGetRecentAlerts(r.Context(), query, projections.GetRecentAlertsDeps{
		AlertStore:        stores.AlertStore,
		SubscriptionStore: stores.SubscriptionStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	type alertView struct {
		ID           string   `json:"id"`
		Type         string   `json:"type"`
		Title        string   `json:"title"`
		Message      string   `json:"message"`
		MessageHTML  string   `json:"message_html"`
		Priority     string   `json:"priority"`
		Instructions []string `json:"instructions"`
		CreatedAt    string   `json:"created_at"`
	}
	views := make([]alertView, 0, len(result.Alerts))
	for _, a := range result.Alerts {
		views = append(views, alertView{
			ID:           a.ID,
			Type:         a.Type,
			Title:        a.Title,
			Message:      a.Message,
			MessageHTML:  renderMarkdown(a.Message),
			Priority:     a.Priority,
			Instructions: a.Instructions,
			CreatedAt:    a.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"alerts":       views,
		"unread_count": result.UnreadCount,
		"subscribed":   result.Subscribed,
	})
}

// handleAlertSubscribe handles POST /api/alerts/subscribe.
func handleAlertSubscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var input struct {
		Email  string `json:"email"`
		Region string `json:"region"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	sub, err := orchestrators.ExecuteSubscribeAlerts(r.Context(), orchestrators.SubscribeAlertsInput{
		Email:  input.Email,
		Region: input.Region,
	}, subscribeDeps())
	if err != nil {
		domainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"email":        sub.Email,
		"region":       sub.Region,
		"unread_count": sub.UnreadCount,
	})
}

// handleAlertsRead handles POST /api/alerts/read for the signed-in subscriber.
func handleAlertsRead(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := orchestrators.ExecuteMarkAlertsRead(r.Context(), sess.Email, subscribeDeps()); err != nil {
		domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAdminBroadcast handles POST /api/admin/alerts. Admin gated by
// RequireRole at the route.
func handleAdminBroadcast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var input struct {
		Type         string   `json:"type"`
		Title        string   `json:"title"`
		Message      string   `json:"message"`
		Priority     string   `json:"priority"`
		Instructions []string `json:"instructions"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	a, err := orchestrators.ExecuteBroadcastAlert(r.Context(), orchestrators.BroadcastAlertInput{
		Type:         input.Type,
		Title:        input.Title,
		Message:      input.Message,
		Priority:     input.Priority,
		Instructions: input.Instructions,
	}, orchestrators.BroadcastAlertDeps{
		AlertStore:        stores.AlertStore,
		SubscriptionStore: stores.SubscriptionStore,
		EmailSender:       emailSender,
		EmailFrom:         emailFromAddress,
		GenerateID:        generateID,
		Now:               timeNow,
	})
	if err != nil {
		domainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": a.ID, "priority": a.Priority})
}

func subscribeDeps() orchestrators.SubscribeAlertsDeps {
	return orchestrators.SubscribeAlertsDeps{
		SubscriptionStore: stores.SubscriptionStore,
		GenerateID:        generateID,
		Now:               timeNow,
	}
}
