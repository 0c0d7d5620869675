package donation

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"lifeline/internal/adapters/storage"
	domain "lifeline/internal/domain/donation"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new donation ledger store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Append adds one Donation to the ledger.
// PRE: entity has been validated
// POST: Entity is inserted; existing rows are never touched
func (s *SQLiteStore) Append(ctx context.Context, entity domain.Donation) error {
	query := `INSERT INTO donation (id, amount, campaign, name, email, reference_code, date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Amount,
		entity.Campaign,
		entity.Name,
		entity.Email,
		entity.ReferenceCode,
		entity.Date.Format(time.RFC3339Nano),
	)
	return err
}

// List retrieves ledger entries, newest first.
// PRE: filter has valid parameters
// POST: Returns matching entries
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Donation, error) {
	var queryBuilder strings.Builder
	var args []interface{}

	queryBuilder.WriteString("SELECT id, amount, campaign, name, email, reference_code, date FROM donation")

	if filter.Campaign != "" {
		queryBuilder.WriteString(" WHERE campaign = ?")
		args = append(args, filter.Campaign)
	}

	queryBuilder.WriteString(" ORDER BY date DESC")
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
	return collectDonations(rows)
}

// ListByEmail retrieves all donations made by one email, newest first.
// PRE: email is non-empty
// POST: Returns matching entries
func (s *SQLiteStore) ListByEmail(ctx context.Context, email string) ([]domain.Donation, error) {
	query := "SELECT id, amount, campaign, name, email, reference_code, date FROM donation WHERE email = ? ORDER BY date DESC"
	rows, err := s.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDonations(rows)
}

// SumByCampaign returns the campaign total, computed from the ledger.
// PRE: campaign is a valid campaign value
// POST: Returns the sum of all matching amounts
func (s *SQLiteStore) SumByCampaign(ctx context.Context, campaign string) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx, "SELECT COALESCE(SUM(amount), 0) FROM donation WHERE campaign = ?", campaign).Scan(&total)
	return total, err
}

// SumAll returns the grand total across all campaigns.
// POST: Returns the sum of all ledger amounts
func (s *SQLiteStore) SumAll(ctx context.Context) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx, "SELECT COALESCE(SUM(amount), 0) FROM donation").Scan(&total)
	return total, err
}

// Count returns the total number of ledger entries.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM donation").Scan(&count)
	return count, err
}

func collectDonations(rows *sql.Rows) ([]domain.Donation, error) {
	var results []domain.Donation
	for rows.Next() {
		var entity domain.Donation
		var date string
		if err := rows.Scan(&entity.ID, &entity.Amount, &entity.Campaign, &entity.Name, &entity.Email, &entity.ReferenceCode, &date); err != nil {
			return nil, err
		}
		entity.Date, _ = parseTime(date)
		results = append(results, entity)
	}
	return results, rows.Err()
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
