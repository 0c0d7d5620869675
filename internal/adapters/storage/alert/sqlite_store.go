package alert

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"lifeline/internal/adapters/storage"
	domain "lifeline/internal/domain/alert"
)

const listSep = "|"

// SQLiteStore implements Store and SubscriptionStore using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new alert log store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const alertColumns = "id, type, title, message, priority, instructions, created_at"

// Append adds one Alert to the log.
// PRE: entity has been validated
// POST: Entity is inserted; existing rows are never touched
func (s *SQLiteStore) Append(ctx context.Context, entity domain.Alert) error {
	query := "INSERT INTO alert (" + alertColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?)"
	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Type,
		entity.Title,
		entity.Message,
		entity.Priority,
		strings.Join(entity.Instructions, listSep),
		entity.CreatedAt.Format(time.RFC3339Nano),
	)
	return err
}

// GetLatest retrieves the most recently created alert.
// POST: Returns the newest alert, or sql.ErrNoRows if the log is empty
func (s *SQLiteStore) GetLatest(ctx context.Context) (domain.Alert, error) {
	query := "SELECT " + alertColumns + " FROM alert ORDER BY created_at DESC LIMIT 1"
	row := s.db.QueryRowContext(ctx, query)
	return scanAlert(row.Scan)
}

// ListSince retrieves alerts created at or after the cutoff, newest first.
// PRE: limit > 0
// POST: Returns at most limit alerts
func (s *SQLiteStore) ListSince(ctx context.Context, since time.Time, limit int) ([]domain.Alert, error) {
	query := "SELECT " + alertColumns + " FROM alert WHERE created_at >= ? ORDER BY created_at DESC LIMIT ?"
	rows, err := s.db.QueryContext(ctx, query, since.Format(time.RFC3339Nano), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAlerts(rows)
}

// List retrieves alerts newest first with pagination.
// PRE: limit > 0, offset >= 0
// POST: Returns matching alerts
func (s *SQLiteStore) List(ctx context.Context, limit, offset int) ([]domain.Alert, error) {
	query := "SELECT " + alertColumns + " FROM alert ORDER BY created_at DESC LIMIT ? OFFSET ?"
	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAlerts(rows)
}

// Count returns the total number of alerts.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM alert").Scan(&count)
	return count, err
}

// GetByEmail retrieves a Subscription by email.
// PRE: email is non-empty
// POST: Returns the entity or sql.ErrNoRows if not subscribed
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Subscription, error) {
	query := "SELECT id, email, region, unread_count, subscribed_at FROM alert_subscription WHERE email = ?"
	row := s.db.QueryRowContext(ctx, query, email)

	var entity domain.Subscription
	var subscribedAt string
	err := row.Scan(&entity.ID, &entity.Email, &entity.Region, &entity.UnreadCount, &subscribedAt)
	if err != nil {
		return domain.Subscription{}, err
	}
	entity.SubscribedAt, _ = parseTime(subscribedAt)
	return entity, nil
}

// Save persists a Subscription. Email is unique: saving an already
// subscribed email is a no-op, the stored row stays exactly as it was.
// PRE: entity has been validated
// POST: Exactly one subscription exists for the email
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Subscription) error {
	query := `INSERT INTO alert_subscription (id, email, region, unread_count, subscribed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(email) DO NOTHING`
	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Email,
		entity.Region,
		entity.UnreadCount,
		entity.SubscribedAt.Format(time.RFC3339Nano),
	)
	return err
}

// ListAll retrieves every subscription.
// POST: Returns all subscriptions in subscription order
func (s *SQLiteStore) ListAll(ctx context.Context) ([]domain.Subscription, error) {
	query := "SELECT id, email, region, unread_count, subscribed_at FROM alert_subscription ORDER BY subscribed_at ASC"
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Subscription
	for rows.Next() {
		var entity domain.Subscription
		var subscribedAt string
		if err := rows.Scan(&entity.ID, &entity.Email, &entity.Region, &entity.UnreadCount, &subscribedAt); err != nil {
			return nil, err
		}
		entity.SubscribedAt, _ = parseTime(subscribedAt)
		results = append(results, entity)
	}
	return results, rows.Err()
}

// IncrementUnreadAll bumps the unread counter for every subscriber.
// POST: Every subscription's unread_count is one higher
func (s *SQLiteStore) IncrementUnreadAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "UPDATE alert_subscription SET unread_count = unread_count + 1")
	return err
}

// ResetUnread clears the unread counter for one subscriber.
// PRE: email is non-empty
// POST: The subscription's unread_count is 0
func (s *SQLiteStore) ResetUnread(ctx context.Context, email string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE alert_subscription SET unread_count = 0 WHERE email = ?", email)
	return err
}

func collectAlerts(rows *sql.Rows) ([]domain.Alert, error) {
	var results []domain.Alert
	for rows.Next() {
		entity, err := scanAlert(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// scanAlert extracts an Alert from a row scanner function.
func scanAlert(scan func(dest ...interface{}) error) (domain.Alert, error) {
	var entity domain.Alert
	var instructions sql.NullString
	var createdAt string
	err := scan(
		&entity.ID,
		&entity.Type,
		&entity.Title,
		&entity.Message,
		&entity.Priority,
		&instructions,
		&createdAt,
	)
	if err != nil {
		return domain.Alert{}, err
	}
	if instructions.String != "" {
		entity.Instructions = strings.Split(instructions.String, listSep)
	}
	entity.CreatedAt, _ = parseTime(createdAt)
	return entity, nil
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
