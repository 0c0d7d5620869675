package web

import (
	"net/http"

	"lifeline/internal/adapters/http/middleware"
)

// registerRoutes wires the JSON API. Public routes serve the landing pages;
// authed routes require a session; admin routes additionally require the
// admin role.
func registerRoutes(mux *http.ServeMux) {
	authed := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireAuth(h)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireRole("admin")(h)
	}

	// Auth
	mux.HandleFunc("/api/auth/login", handleLogin)
	mux.HandleFunc("/api/auth/register", handleRegister)
	mux.HandleFunc("/api/auth/logout", handleLogout)
	mux.Handle("/api/auth/me", authed(handleMe))
	mux.Handle("/api/auth/profile", authed(handleProfile))
	mux.Handle("/api/auth/settings", authed(handleSettings))
	mux.Handle("/api/auth/export", authed(handleExport))

	// Volunteer pipeline
	mux.HandleFunc("/api/volunteer/apply", handleVolunteerApply)
	mux.Handle("/api/volunteer/dashboard", authed(handleVolunteerDashboard))
	mux.Handle("/api/volunteer/shifts/cancel", authed(handleShiftCancel))

	// Events
	mux.HandleFunc("/api/events", handleEvents)
	mux.HandleFunc("/api/events/register", handleEventRegister)

	// Service directory
	mux.HandleFunc("/api/services", handleServices)

	// Donations
	mux.HandleFunc("/api/donations", handleDonate)
	mux.HandleFunc("/api/donations/progress", handleDonationProgress)
	mux.Handle("/api/donations/mine", authed(handleMyDonations))

	// Alerts
	mux.HandleFunc("/api/alerts/recent", handleRecentAlerts)
	mux.HandleFunc("/api/alerts/subscribe", handleAlertSubscribe)
	mux.Handle("/api/alerts/read", authed(handleAlertsRead))

	// Admin
	mux.Handle("/api/admin/overview", admin(handleAdminOverview))
	mux.Handle("/api/admin/users", admin(handleAdminUsers))
	mux.Handle("/api/admin/perf", admin(handleAdminPerf))
	mux.Handle("/api/admin/applications", admin(handleAdminApplications))
	mux.Handle("/api/admin/events", admin(handleAdminEvents))
	mux.Handle("/api/admin/alerts", admin(handleAdminBroadcast))
}
