package application

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"lifeline/internal/adapters/storage"
	domain "lifeline/internal/domain/volunteer"
)

// listSep separates list values stored in a single TEXT column.
const listSep = "|"

// SQLiteStore implements Store, ShiftStore and TrainingStore using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new volunteer application store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const appColumns = "id, name, birthdate, email, phone, address, skills, interests, availability_days, preferred_time, emergency_name, emergency_phone, reference_code, status, assigned_chapter, submitted_at"

// GetByID retrieves an Application by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Application, error) {
	query := "SELECT " + appColumns + " FROM volunteer_application WHERE id = ?"
	row := s.db.QueryRowContext(ctx, query, id)

	entity, err := scanApplication(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Application{}, fmt.Errorf("application not found: %w", err)
	}
	return entity, err
}

// GetByEmail retrieves an Application by applicant email.
// PRE: email is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Application, error) {
	query := "SELECT " + appColumns + " FROM volunteer_application WHERE email = ?"
	row := s.db.QueryRowContext(ctx, query, email)

	entity, err := scanApplication(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Application{}, fmt.Errorf("application not found: %w", err)
	}
	return entity, err
}

// Save persists an Application. Email is unique: resubmitting with the same
// email replaces the stored record in full, id and reference code included,
// so the row always matches the submission the caller holds.
// PRE: entity has been validated
// POST: Exactly one application exists for the email, keyed by entity.ID
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Application) error {
	fields := []string{
		"id", "name", "birthdate", "email", "phone", "address",
		"skills", "interests", "availability_days", "preferred_time",
		"emergency_name", "emergency_phone",
		"reference_code", "status", "assigned_chapter", "submitted_at",
	}
	placeholders := make([]string, len(fields))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	updates := []string{
		"id=excluded.id",
		"name=excluded.name",
		"birthdate=excluded.birthdate",
		"phone=excluded.phone",
		"address=excluded.address",
		"skills=excluded.skills",
		"interests=excluded.interests",
		"availability_days=excluded.availability_days",
		"preferred_time=excluded.preferred_time",
		"emergency_name=excluded.emergency_name",
		"emergency_phone=excluded.emergency_phone",
		"reference_code=excluded.reference_code",
		"status=excluded.status",
		"assigned_chapter=excluded.assigned_chapter",
		"submitted_at=excluded.submitted_at",
	}

	query := fmt.Sprintf(
		"INSERT INTO volunteer_application (%s) VALUES (%s) ON CONFLICT(email) DO UPDATE SET %s",
		strings.Join(fields, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Personal.Name,
		entity.Personal.Birthdate,
		entity.Personal.Email,
		entity.Personal.Phone,
		entity.Personal.Address,
		joinList(entity.Skills.Selected),
		joinList(entity.Skills.Interests),
		joinList(entity.Availability.Days),
		entity.Availability.PreferredTime,
		entity.Availability.EmergencyName,
		entity.Availability.EmergencyPhone,
		entity.ReferenceCode,
		entity.Status,
		entity.AssignedChapter,
		entity.SubmittedAt.Format(time.RFC3339Nano),
	)
	return err
}

// List retrieves Applications based on the filter, newest first.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Application, error) {
	var queryBuilder strings.Builder
	var args []interface{}

	queryBuilder.WriteString("SELECT " + appColumns + " FROM volunteer_application")

	if filter.Status != "" {
		queryBuilder.WriteString(" WHERE status = ?")
		args = append(args, filter.Status)
	}

	queryBuilder.WriteString(" ORDER BY submitted_at DESC")
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

	var results []domain.Application
	for rows.Next() {
		entity, err := scanApplication(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, nil
}

// Count returns the total number of applications.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM volunteer_application").Scan(&count)
	return count, err
}

// GetShift retrieves a Shift by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetShift(ctx context.Context, id string) (domain.Shift, error) {
	query := "SELECT id, email, role, date, time, location, status FROM volunteer_shift WHERE id = ?"
	row := s.db.QueryRowContext(ctx, query, id)

	var entity domain.Shift
	err := row.Scan(&entity.ID, &entity.Email, &entity.Role, &entity.Date, &entity.Time, &entity.Location, &entity.Status)
	if err == sql.ErrNoRows {
		return domain.Shift{}, domain.ErrShiftNotFound
	}
	return entity, err
}

// SaveShift persists a Shift (insert or update).
// PRE: shift fields are populated
// POST: Shift is persisted
func (s *SQLiteStore) SaveShift(ctx context.Context, entity domain.Shift) error {
	query := `INSERT INTO volunteer_shift (id, email, role, date, time, location, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			role=excluded.role,
			date=excluded.date,
			time=excluded.time,
			location=excluded.location,
			status=excluded.status`
	_, err := s.db.ExecContext(ctx, query,
		entity.ID, entity.Email, entity.Role, entity.Date, entity.Time, entity.Location, entity.Status,
	)
	return err
}

// ListShiftsByEmail retrieves all shifts for a volunteer, soonest first.
// PRE: email is non-empty
// POST: Returns shifts ordered by date ascending
func (s *SQLiteStore) ListShiftsByEmail(ctx context.Context, email string) ([]domain.Shift, error) {
	query := "SELECT id, email, role, date, time, location, status FROM volunteer_shift WHERE email = ? ORDER BY date ASC"
	rows, err := s.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Shift
	for rows.Next() {
		var entity domain.Shift
		if err := rows.Scan(&entity.ID, &entity.Email, &entity.Role, &entity.Date, &entity.Time, &entity.Location, &entity.Status); err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, nil
}

// SaveCourse persists a TrainingCourse (insert or update).
// PRE: course fields are populated
// POST: Course is persisted
func (s *SQLiteStore) SaveCourse(ctx context.Context, entity domain.TrainingCourse) error {
	query := `INSERT INTO training_course (id, email, name, completed, completed_on)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name,
			completed=excluded.completed,
			completed_on=excluded.completed_on`
	completed := 0
	if entity.Completed {
		completed = 1
	}
	_, err := s.db.ExecContext(ctx, query, entity.ID, entity.Email, entity.Name, completed, entity.CompletedOn)
	return err
}

// ListCoursesByEmail retrieves training progress for a volunteer.
// PRE: email is non-empty
// POST: Returns courses in insertion order
func (s *SQLiteStore) ListCoursesByEmail(ctx context.Context, email string) ([]domain.TrainingCourse, error) {
	query := "SELECT id, email, name, completed, completed_on FROM training_course WHERE email = ? ORDER BY rowid"
	rows, err := s.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.TrainingCourse
	for rows.Next() {
		var entity domain.TrainingCourse
		var completed int
		var completedOn sql.NullString
		if err := rows.Scan(&entity.ID, &entity.Email, &entity.Name, &completed, &completedOn); err != nil {
			return nil, err
		}
		entity.Completed = completed != 0
		entity.CompletedOn = completedOn.String
		results = append(results, entity)
	}
	return results, nil
}

// scanApplication extracts an Application from a row scanner function.
func scanApplication(scan func(dest ...interface{}) error) (domain.Application, error) {
	var entity domain.Application
	var birthdate, address, skills, interests, days, prefTime, emName, emPhone sql.NullString
	var submittedAt string
	err := scan(
		&entity.ID,
		&entity.Personal.Name,
		&birthdate,
		&entity.Personal.Email,
		&entity.Personal.Phone,
		&address,
		&skills,
		&interests,
		&days,
		&prefTime,
		&emName,
		&emPhone,
		&entity.ReferenceCode,
		&entity.Status,
		&entity.AssignedChapter,
		&submittedAt,
	)
	if err != nil {
		return domain.Application{}, err
	}
	entity.Personal.Birthdate = birthdate.String
	entity.Personal.Address = address.String
	entity.Skills.Selected = splitList(skills.String)
	entity.Skills.Interests = splitList(interests.String)
	entity.Availability.Days = splitList(days.String)
	entity.Availability.PreferredTime = prefTime.String
	entity.Availability.EmergencyName = emName.String
	entity.Availability.EmergencyPhone = emPhone.String
	entity.SubmittedAt, _ = parseTime(submittedAt)
	return entity, nil
}

func joinList(items []string) string {
	return strings.Join(items, listSep)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, listSep)
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
