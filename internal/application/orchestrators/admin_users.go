package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"lifeline/internal/domain/user"
)

// Admin user management errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrCannotDeleteAdmin = errors.New("admin accounts cannot be deleted")
)

// UserStoreForAdmin defines the store interface needed for admin user
// management.
type UserStoreForAdmin interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	Delete(ctx context.Context, id string) error
}

// AdminDeleteUserInput carries input for an admin-initiated user deletion.
type AdminDeleteUserInput struct {
	UserID    string
	DeletedBy string // admin email, for the audit log line
}

// AdminDeleteUserDeps holds dependencies for AdminDeleteUser.
type AdminDeleteUserDeps struct {
	UserStore UserStoreForAdmin
}

// ExecuteAdminDeleteUser removes a roster entry on behalf of an admin.
// Admin accounts are protected: demote first, then delete.
// PRE: caller is role-gated at the HTTP layer
// POST: user row is removed, or roster is unchanged
func ExecuteAdminDeleteUser(ctx context.Context, input AdminDeleteUserInput, deps AdminDeleteUserDeps) error {
	u, err := deps.UserStore.GetByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	if u.Role == user.RoleAdmin {
		return ErrCannotDeleteAdmin
	}
	if err := deps.UserStore.Delete(ctx, u.ID); err != nil {
		return err
	}
	slog.Info("auth_event",
		"event", "user_deleted_by_admin",
		"user_id", u.ID,
		"deleted_by", input.DeletedBy)
	return nil
}
