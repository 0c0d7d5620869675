package event

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"lifeline/internal/adapters/storage"
	domain "lifeline/internal/domain/event"
)

const listSep = "|"

// SQLiteStore implements Store and RegistrationStore using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new event store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const eventColumns = "id, title, type, date, time, location, description, max_participants, registered_participants, contact_person, contact_email, requirements, status, created_by, created_at"

// GetByID retrieves an Event by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Event, error) {
	query := "SELECT " + eventColumns + " FROM event WHERE id = ?"
	row := s.db.QueryRowContext(ctx, query, id)

	entity, err := scanEvent(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return entity, err
}

// Save persists an Event to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Event) error {
	_, err := s.db.ExecContext(ctx, upsertEventQuery(), upsertEventArgs(entity)...)
	return err
}

// SaveWithRegistration persists an updated Event together with a new
// Registration in one transaction.
// PRE: e.RegisteredParticipants already includes the new registrant
// POST: Both rows are persisted, or neither
func (s *SQLiteStore) SaveWithRegistration(ctx context.Context, e domain.Event, r domain.Registration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, upsertEventQuery(), upsertEventArgs(e)...); err != nil {
		return err
	}

	regQuery := `INSERT INTO event_registration (id, event_id, name, email, phone, additional_info, reference_code, registered_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, regQuery,
		r.ID, r.EventID, r.Name, r.Email, r.Phone, r.AdditionalInfo, r.ReferenceCode,
		r.RegisteredAt.Format(time.RFC3339Nano),
	); err != nil {
		return err
	}

	return tx.Commit()
}

// ListByDateRange retrieves events with date in [from, to], ascending.
// Times are 12-hour display strings and do not order lexicographically, so
// ordering within a day is left to the caller.
// PRE: from and to are YYYY-MM-DD strings
// POST: Returns matching events ordered by date
func (s *SQLiteStore) ListByDateRange(ctx context.Context, from, to string) ([]domain.Event, error) {
	query := "SELECT " + eventColumns + " FROM event WHERE date >= ? AND date <= ? ORDER BY date ASC"
	rows, err := s.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

// List retrieves Events based on the filter, soonest first.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Event, error) {
	var queryBuilder strings.Builder
	var args []interface{}

	queryBuilder.WriteString("SELECT " + eventColumns + " FROM event")

	if filter.Type != "" && filter.Type != "all" {
		queryBuilder.WriteString(" WHERE type = ?")
		args = append(args, filter.Type)
	}

	queryBuilder.WriteString(" ORDER BY date ASC")
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
	return collectEvents(rows)
}

// Count returns the total number of events.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM event").Scan(&count)
	return count, err
}

// ListByEvent retrieves registrations for one event, oldest first.
// PRE: eventID is non-empty
// POST: Returns matching registrations
func (s *SQLiteStore) ListByEvent(ctx context.Context, eventID string) ([]domain.Registration, error) {
	query := "SELECT id, event_id, name, email, phone, additional_info, reference_code, registered_at FROM event_registration WHERE event_id = ? ORDER BY registered_at ASC"
	rows, err := s.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRegistrations(rows)
}

// ListByEmail retrieves all registrations made by one email, newest first.
// PRE: email is non-empty
// POST: Returns matching registrations
func (s *SQLiteStore) ListByEmail(ctx context.Context, email string) ([]domain.Registration, error) {
	query := "SELECT id, event_id, name, email, phone, additional_info, reference_code, registered_at FROM event_registration WHERE email = ? ORDER BY registered_at DESC"
	rows, err := s.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRegistrations(rows)
}

// CountAll returns the total number of registrations across all events.
func (s *SQLiteStore) CountAll(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM event_registration").Scan(&count)
	return count, err
}

func upsertEventQuery() string {
	fields := []string{
		"id", "title", "type", "date", "time", "location", "description",
		"max_participants", "registered_participants",
		"contact_person", "contact_email", "requirements", "status",
		"created_by", "created_at",
	}
	placeholders := make([]string, len(fields))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	updates := []string{
		"title=excluded.title",
		"type=excluded.type",
		"date=excluded.date",
		"time=excluded.time",
		"location=excluded.location",
		"description=excluded.description",
		"max_participants=excluded.max_participants",
		"registered_participants=excluded.registered_participants",
		"contact_person=excluded.contact_person",
		"contact_email=excluded.contact_email",
		"requirements=excluded.requirements",
		"status=excluded.status",
	}
	return fmt.Sprintf(
		"INSERT INTO event (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		strings.Join(fields, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)
}

func upsertEventArgs(e domain.Event) []interface{} {
	return []interface{}{
		e.ID,
		e.Title,
		e.Type,
		e.Date,
		e.Time,
		e.Location,
		e.Description,
		e.MaxParticipants,
		e.RegisteredParticipants,
		e.ContactPerson,
		e.ContactEmail,
		strings.Join(e.Requirements, listSep),
		e.Status,
		e.CreatedBy,
		e.CreatedAt.Format(time.RFC3339Nano),
	}
}

func collectEvents(rows *sql.Rows) ([]domain.Event, error) {
	var results []domain.Event
	for rows.Next() {
		entity, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func collectRegistrations(rows *sql.Rows) ([]domain.Registration, error) {
	var results []domain.Registration
	for rows.Next() {
		var entity domain.Registration
		var info sql.NullString
		var registeredAt string
		if err := rows.Scan(&entity.ID, &entity.EventID, &entity.Name, &entity.Email, &entity.Phone, &info, &entity.ReferenceCode, &registeredAt); err != nil {
			return nil, err
		}
		entity.AdditionalInfo = info.String
		entity.RegisteredAt, _ = parseTime(registeredAt)
		results = append(results, entity)
	}
	return results, rows.Err()
}

// scanEvent extracts an Event from a row scanner function.
func scanEvent(scan func(dest ...interface{}) error) (domain.Event, error) {
	var entity domain.Event
	var eventTime, location, description, contactPerson, contactEmail, requirements, createdBy sql.NullString
	var createdAt string
	err := scan(
		&entity.ID,
		&entity.Title,
		&entity.Type,
		&entity.Date,
		&eventTime,
		&location,
		&description,
		&entity.MaxParticipants,
		&entity.RegisteredParticipants,
		&contactPerson,
		&contactEmail,
		&requirements,
		&entity.Status,
		&createdBy,
		&createdAt,
	)
	if err != nil {
		return domain.Event{}, err
	}
	entity.Time = eventTime.String
	entity.Location = location.String
	entity.Description = description.String
	entity.ContactPerson = contactPerson.String
	entity.ContactEmail = contactEmail.String
	if requirements.String != "" {
		entity.Requirements = strings.Split(requirements.String, listSep)
	}
	entity.CreatedBy = createdBy.String
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
