package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"lifeline/internal/domain/user"
)

// SettingsStoreForUpdate defines the store interface needed by settings
// updates.
type SettingsStoreForUpdate interface {
	GetSettings(ctx context.Context, userID string) (user.Settings, error)
	SaveSettings(ctx context.Context, s user.Settings) error
}

// UpdateSettingsInput carries the full preference set. The form always
// submits every field, so this is a whole-record replace.
type UpdateSettingsInput struct {
	UserID             string
	EmailNotifications bool
	ProfileVisible     bool
	Theme              string
}

// UpdateSettingsDeps holds dependencies for UpdateSettings.
type UpdateSettingsDeps struct {
	SettingsStore SettingsStoreForUpdate
	Now           func() time.Time
}

// ExecuteUpdateSettings replaces a user's preference record.
// PRE: UserID identifies an existing user
// POST: Settings are persisted, or unchanged on validation failure
func ExecuteUpdateSettings(ctx context.Context, input UpdateSettingsInput, deps UpdateSettingsDeps) (user.Settings, error) {
	s := user.Settings{
		UserID:             input.UserID,
		EmailNotifications: input.EmailNotifications,
		ProfileVisible:     input.ProfileVisible,
		Theme:              input.Theme,
		UpdatedAt:          deps.Now(),
	}
	if err := s.Validate(); err != nil {
		return user.Settings{}, err
	}
	if err := deps.SettingsStore.SaveSettings(ctx, s); err != nil {
		return user.Settings{}, err
	}
	slog.Info("auth_event", "event", "settings_updated", "user_id", input.UserID)
	return s, nil
}
