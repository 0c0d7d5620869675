package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"lifeline/internal/domain/user"
)

// UserStoreForLogin defines the store interface needed by Login.
type UserStoreForLogin interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Save(ctx context.Context, u user.User) error
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult carries the signed-in user for session creation.
type LoginResult struct {
	UserID string
	Name   string
	Email  string
	Role   string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	UserStore   UserStoreForLogin
	AdminEmails []string
	GenerateID  func() string
	Now         func() time.Time
}

var (
	ErrInvalidLoginEmail = errors.New("please enter a valid email address")
	ErrMissingPassword   = errors.New("please enter your password")
)

// ExecuteLogin signs a user in. Any syntactically valid email with a
// non-empty password is accepted: there is no credential check, matching the
// site's open-door roster model. A roster entry is created on first login
// with the email's local part as the display name. Emails on the admin
// allow-list always get the admin role, and the forced role is persisted.
// PRE: input fields are as typed by the user
// POST: Roster has an entry for the email with LastLogin updated
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	if !user.IsValidEmail(input.Email) {
		return LoginResult{}, ErrInvalidLoginEmail
	}
	if input.Password == "" {
		return LoginResult{}, ErrMissingPassword
	}

	now := deps.Now()
	u, err := deps.UserStore.GetByEmail(ctx, input.Email)
	if err != nil {
		u = user.User{
			ID:       deps.GenerateID(),
			Name:     user.LocalPart(input.Email),
			Email:    input.Email,
			Role:     user.RoleUser,
			JoinDate: now,
		}
		slog.Info("auth_event", "event", "roster_created", "email", input.Email)
	}

	if isAdminEmail(input.Email, deps.AdminEmails) {
		u.Role = user.RoleAdmin
	}
	u.LastLogin = now

	if err := deps.UserStore.Save(ctx, u); err != nil {
		return LoginResult{}, err
	}

	slog.Info("auth_event", "event", "login_success", "email", u.Email, "role", u.Role)

	return LoginResult{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
	}, nil
}

// EnsureAdminRoleDeps holds dependencies for EnsureAdminRole.
type EnsureAdminRoleDeps struct {
	UserStore   UserStoreForLogin
	AdminEmails []string
}

// ExecuteEnsureAdminRole re-checks the admin allow-list for an existing
// roster entry. Runs on every session hydration so a stored role can never
// mask an allow-listed admin.
// PRE: email belongs to a roster entry
// POST: Role is admin and persisted if the email is allow-listed
func ExecuteEnsureAdminRole(ctx context.Context, email string, deps EnsureAdminRoleDeps) (string, error) {
	u, err := deps.UserStore.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if !isAdminEmail(email, deps.AdminEmails) || u.Role == user.RoleAdmin {
		return u.Role, nil
	}
	u.Role = user.RoleAdmin
	if err := deps.UserStore.Save(ctx, u); err != nil {
		return "", err
	}
	slog.Info("auth_event", "event", "admin_role_restored", "email", email)
	return u.Role, nil
}

// isAdminEmail matches case-insensitively: the allow-list is configured by
// hand and logins arrive as typed.
func isAdminEmail(email string, adminEmails []string) bool {
	for _, a := range adminEmails {
		if strings.EqualFold(a, email) {
			return true
		}
	}
	return false
}
