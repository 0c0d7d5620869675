package user

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"lifeline/internal/adapters/storage"
	domain "lifeline/internal/domain/user"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new user store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const userColumns = "id, name, email, password_hash, role, verified, join_date, last_login"

// GetByID retrieves a User by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.User, error) {
	query := "SELECT " + userColumns + " FROM user WHERE id = ?"
	row := s.db.QueryRowContext(ctx, query, id)

	entity, err := scanUser(row.Scan)
	if err == sql.ErrNoRows {
		return domain.User{}, fmt.Errorf("user not found: %w", err)
	}
	return entity, err
}

// GetByEmail retrieves a User by email.
// PRE: email is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	query := "SELECT " + userColumns + " FROM user WHERE email = ?"
	row := s.db.QueryRowContext(ctx, query, email)

	entity, err := scanUser(row.Scan)
	if err == sql.ErrNoRows {
		return domain.User{}, fmt.Errorf("user not found: %w", err)
	}
	return entity, err
}

// Save persists a User to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.User) error {
	fields := []string{"id", "name", "email", "password_hash", "role", "verified", "join_date", "last_login"}
	placeholders := []string{"?", "?", "?", "?", "?", "?", "?", "?"}
	updates := []string{
		"name=excluded.name",
		"email=excluded.email",
		"password_hash=excluded.password_hash",
		"role=excluded.role",
		"verified=excluded.verified",
		"last_login=excluded.last_login",
	}

	query := fmt.Sprintf(
		"INSERT INTO user (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		strings.Join(fields, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)

	var lastLogin interface{}
	if !entity.LastLogin.IsZero() {
		lastLogin = entity.LastLogin.Format(time.RFC3339Nano)
	}

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Name,
		entity.Email,
		entity.PasswordHash,
		entity.Role,
		boolToInt(entity.Verified),
		entity.JoinDate.Format(time.RFC3339Nano),
		lastLogin,
	)
	return err
}

// Delete removes a User and its settings from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM user_settings WHERE user_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM user WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// List retrieves Users based on the filter.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.User, error) {
	var queryBuilder strings.Builder
	var args []interface{}

	queryBuilder.WriteString("SELECT " + userColumns + " FROM user")

	if filter.Role != "" {
		queryBuilder.WriteString(" WHERE role = ?")
		args = append(args, filter.Role)
	}

	queryBuilder.WriteString(" ORDER BY join_date DESC")
	if filter.Limit > 0 {
		queryBuilder.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, filter.Limit, filter.Offset)
	} else if filter.Offset > 0 {
		// SQLite requires a LIMIT clause before OFFSET; -1 means unbounded.
		queryBuilder.WriteString(" LIMIT -1 OFFSET ?")
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.User
	for rows.Next() {
		entity, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, nil
}

// Count returns the total number of users.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM user").Scan(&count)
	return count, err
}

// GetSettings retrieves the preference record for a user.
// PRE: userID is non-empty
// POST: Returns stored settings, or defaults if none saved yet
func (s *SQLiteStore) GetSettings(ctx context.Context, userID string) (domain.Settings, error) {
	query := "SELECT user_id, email_notifications, profile_visible, theme, updated_at FROM user_settings WHERE user_id = ?"
	row := s.db.QueryRowContext(ctx, query, userID)

	var entity domain.Settings
	var notif, visible int
	var updatedAt string
	err := row.Scan(&entity.UserID, &notif, &visible, &entity.Theme, &updatedAt)
	if err == sql.ErrNoRows {
		return domain.DefaultSettings(userID, time.Now()), nil
	}
	if err != nil {
		return domain.Settings{}, err
	}
	entity.EmailNotifications = notif != 0
	entity.ProfileVisible = visible != 0
	entity.UpdatedAt, _ = parseTime(updatedAt)
	return entity, nil
}

// SaveSettings persists a user's preference record.
// PRE: s has been validated
// POST: Settings are persisted (insert or update)
func (s *SQLiteStore) SaveSettings(ctx context.Context, entity domain.Settings) error {
	query := `INSERT INTO user_settings (user_id, email_notifications, profile_visible, theme, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			email_notifications=excluded.email_notifications,
			profile_visible=excluded.profile_visible,
			theme=excluded.theme,
			updated_at=excluded.updated_at`
	_, err := s.db.ExecContext(ctx, query,
		entity.UserID,
		boolToInt(entity.EmailNotifications),
		boolToInt(entity.ProfileVisible),
		entity.Theme,
		entity.UpdatedAt.Format(time.RFC3339Nano),
	)
	return err
}

// scanUser extracts a User from a row scanner function.
func scanUser(scan func(dest ...interface{}) error) (domain.User, error) {
	var entity domain.User
	var verified int
	var joinDate string
	var lastLogin sql.NullString
	err := scan(
		&entity.ID,
		&entity.Name,
		&entity.Email,
		&entity.PasswordHash,
		&entity.Role,
		&verified,
		&joinDate,
		&lastLogin,
	)
	if err != nil {
		return domain.User{}, err
	}
	entity.Verified = verified != 0
	entity.JoinDate, _ = parseTime(joinDate)
	if lastLogin.Valid && lastLogin.String != "" {
		entity.LastLogin, _ = parseTime(lastLogin.String)
	}
	return entity, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		t, err := time.Parse(f, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time: %s", s)
}
