package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"lifeline/internal/application/orchestrators"
	"lifeline/internal/domain/event"
	"lifeline/internal/domain/user"
	"lifeline/internal/domain/volunteer"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// renderMarkdown converts markdown to HTML, falling back to the raw text on
// parse failure.
func renderMarkdown(md string) string {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return md
	}
	return buf.String()
}

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// conflictErrors are domain failures that map to 409: the request was valid
// but lost to existing state.
var conflictErrors = []error{
	event.ErrEventFull,
	user.ErrDuplicateEmail,
}

// notFoundErrors map to 404.
var notFoundErrors = []error{
	event.ErrEventNotFound,
	volunteer.ErrShiftNotFound,
	orchestrators.ErrUserNotFound,
}

// forbiddenErrors map to 403.
var forbiddenErrors = []error{
	volunteer.ErrShiftNotOwned,
	orchestrators.ErrCannotDeleteAdmin,
}

// domainError maps a domain failure onto the API error model: 409 for
// conflicts, 404 for missing records, 403 for ownership, 400 for everything
// else. The error text is the user-facing message.
func domainError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			status = http.StatusConflict
		}
	}
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			status = http.StatusNotFound
		}
	}
	for _, target := range forbiddenErrors {
		if errors.Is(err, target) {
			status = http.StatusForbidden
		}
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// loginDeps bundles the login orchestrator's dependencies from the globals.
func loginDeps() orchestrators.LoginDeps {
	return orchestrators.LoginDeps{
		UserStore:   stores.UserStore,
		AdminEmails: adminEmails,
		GenerateID:  generateID,
		Now:         timeNow,
	}
}
