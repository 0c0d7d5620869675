package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"lifeline/internal/domain/user"
)

// ErrDeleteNotConfirmed is returned when deletion is requested without the
// explicit confirmation flag.
var ErrDeleteNotConfirmed = errors.New("account deletion requires confirmation")

// UserStoreForRegister defines the store interface needed by account
// registration and maintenance.
type UserStoreForRegister interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Save(ctx context.Context, u user.User) error
	Delete(ctx context.Context, id string) error
}

// RegisterInput carries input for account registration.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// RegisterDeps holds dependencies for Register.
type RegisterDeps struct {
	UserStore  UserStoreForRegister
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteRegister creates a new roster entry. Validation order matches the
// signup form: name, email, password length, password confirmation,
// duplicate email. Nothing is written on failure.
// PRE: input fields are as typed by the user
// POST: New unverified user with role "user" exists, or roster is unchanged
func ExecuteRegister(ctx context.Context, input RegisterInput, deps RegisterDeps) (user.User, error) {
	if len(strings.TrimSpace(input.Name)) < user.MinNameLength {
		return user.User{}, user.ErrNameTooShort
	}
	if !user.IsValidEmail(input.Email) {
		return user.User{}, user.ErrInvalidEmail
	}
	if len(input.Password) < user.MinPasswordLen {
		return user.User{}, user.ErrPasswordTooShort
	}
	if input.Password != input.ConfirmPassword {
		return user.User{}, user.ErrPasswordMismatch
	}
	if _, err := deps.UserStore.GetByEmail(ctx, input.Email); err == nil {
		return user.User{}, user.ErrDuplicateEmail
	}

	u := user.User{
		ID:       deps.GenerateID(),
		Name:     strings.TrimSpace(input.Name),
		Email:    input.Email,
		Role:     user.RoleUser,
		Verified: false,
		JoinDate: deps.Now(),
	}
	if err := u.SetPassword(input.Password); err != nil {
		return user.User{}, err
	}
	if err := deps.UserStore.Save(ctx, u); err != nil {
		return user.User{}, err
	}

	slog.Info("auth_event", "event", "registered", "email", u.Email)
	return u, nil
}

// UpdateProfileInput carries input for a profile update.
type UpdateProfileInput struct {
	UserID string
	Name   string
}

// ExecuteUpdateProfile renames a user. Email is immutable; an unchanged name
// is a no-op.
// PRE: UserID identifies an existing user
// POST: User's name is updated, nothing else changes
func ExecuteUpdateProfile(ctx context.Context, input UpdateProfileInput, deps RegisterDeps) (user.User, error) {
	u, err := deps.UserStore.GetByID(ctx, input.UserID)
	if err != nil {
		return user.User{}, err
	}
	name := strings.TrimSpace(input.Name)
	if len(name) < user.MinNameLength {
		return user.User{}, user.ErrNameTooShort
	}
	if name == u.Name {
		return u, nil
	}
	u.Name = name
	if err := deps.UserStore.Save(ctx, u); err != nil {
		return user.User{}, err
	}
	slog.Info("auth_event", "event", "profile_updated", "email", u.Email)
	return u, nil
}

// DeleteAccountInput carries input for account deletion.
type DeleteAccountInput struct {
	UserID  string
	Confirm bool
}

// ExecuteDeleteAccount removes a user from the roster. The caller must set
// Confirm; the HTTP layer maps this to an explicit confirmation step.
// PRE: UserID identifies an existing user, Confirm is true
// POST: User row and settings are gone
func ExecuteDeleteAccount(ctx context.Context, input DeleteAccountInput, deps RegisterDeps) error {
	if !input.Confirm {
		return ErrDeleteNotConfirmed
	}
	u, err := deps.UserStore.GetByID(ctx, input.UserID)
	if err != nil {
		return err
	}
	if err := deps.UserStore.Delete(ctx, u.ID); err != nil {
		return err
	}
	slog.Info("auth_event", "event", "account_deleted", "email", u.Email)
	return nil
}
