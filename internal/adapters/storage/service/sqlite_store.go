package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"lifeline/internal/adapters/storage"
	domain "lifeline/internal/domain/service"
)

const listSep = "|"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new service directory store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const serviceColumns = "id, title, category, description, details, icon, requirements, locations, contact, phone, hours, urgency"

// GetByID retrieves a Service by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Service, error) {
	query := "SELECT " + serviceColumns + " FROM service WHERE id = ?"
	row := s.db.QueryRowContext(ctx, query, id)

	entity, err := scanService(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Service{}, fmt.Errorf("service not found: %w", err)
	}
	return entity, err
}

// Save persists a Service to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Service) error {
	fields := []string{
		"id", "title", "category", "description", "details", "icon",
		"requirements", "locations", "contact", "phone", "hours", "urgency",
	}
	placeholders := make([]string, len(fields))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	updates := []string{
		"title=excluded.title",
		"category=excluded.category",
		"description=excluded.description",
		"details=excluded.details",
		"icon=excluded.icon",
		"requirements=excluded.requirements",
		"locations=excluded.locations",
		"contact=excluded.contact",
		"phone=excluded.phone",
		"hours=excluded.hours",
		"urgency=excluded.urgency",
	}

	query := fmt.Sprintf(
		"INSERT INTO service (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		strings.Join(fields, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Title,
		entity.Category,
		entity.Description,
		entity.Details,
		entity.Icon,
		strings.Join(entity.Requirements, listSep),
		strings.Join(entity.Locations, listSep),
		entity.Contact,
		entity.Phone,
		entity.Hours,
		entity.Urgency,
	)
	return err
}

// List retrieves the full service directory in insertion order.
// POST: Returns all services
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Service, error) {
	query := "SELECT " + serviceColumns + " FROM service ORDER BY rowid"
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Service
	for rows.Next() {
		entity, err := scanService(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Count returns the total number of services.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM service").Scan(&count)
	return count, err
}

// scanService extracts a Service from a row scanner function.
func scanService(scan func(dest ...interface{}) error) (domain.Service, error) {
	var entity domain.Service
	var description, details, icon, requirements, locations, contact, phone, hours sql.NullString
	err := scan(
		&entity.ID,
		&entity.Title,
		&entity.Category,
		&description,
		&details,
		&icon,
		&requirements,
		&locations,
		&contact,
		&phone,
		&hours,
		&entity.Urgency,
	)
	if err != nil {
		return domain.Service{}, err
	}
	entity.Description = description.String
	entity.Details = details.String
	entity.Icon = icon.String
	if requirements.String != "" {
		entity.Requirements = strings.Split(requirements.String, listSep)
	}
	if locations.String != "" {
		entity.Locations = strings.Split(locations.String, listSep)
	}
	entity.Contact = contact.String
	entity.Phone = phone.String
	entity.Hours = hours.String
	return entity, nil
}
