package event

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Event type constants
const (
	TypeBlood      = "blood"
	TypeTraining   = "training"
	TypeFundraiser = "fundraiser"
	TypeCommunity  = "community"
)

// ValidTypes contains all valid event type values.
var ValidTypes = []string{TypeBlood, TypeTraining, TypeFundraiser, TypeCommunity}

// Event status constants
const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
)

// Max length constants for user-editable fields.
const (
	MaxTitleLength       = 120
	MaxDescriptionLength = 2000
	MaxLocationLength    = 200
)

var digitsOnly = regexp.MustCompile(`^\d{11}$`)

// Domain errors
var (
	ErrEmptyTitle         = errors.New("title cannot be empty")
	ErrInvalidType        = errors.New("type must be one of: blood, training, fundraiser, community")
	ErrInvalidDate        = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidCapacity    = errors.New("maximum participants must be greater than zero")
	ErrEventFull          = errors.New("this event is already full")
	ErrRegistrantName     = errors.New("please enter your full name (at least 3 characters)")
	ErrRegistrantEmail    = errors.New("please enter a valid email address")
	ErrRegistrantPhone    = errors.New("please enter an 11-digit contact number")
	ErrEventNotFound      = errors.New("event not found")
	ErrEventNotActive     = errors.New("registration is closed for this event")
	ErrRegistrationClosed = errors.New("this event date has passed")
)

// Event is a scheduled activity open for public registration.
type Event struct {
	ID                     string
	Title                  string
	Type                   string
	Date                   string // YYYY-MM-DD
	Time                   string
	Location               string
	Description            string
	MaxParticipants        int
	RegisteredParticipants int
	ContactPerson          string
	ContactEmail           string
	Requirements           []string
	Status                 string
	CreatedBy              string
	CreatedAt              time.Time
}

// Registration records one attendee signup for an event.
type Registration struct {
	ID             string
	EventID        string
	Name           string
	Email          string
	Phone          string
	AdditionalInfo string
	ReferenceCode  string // user-visible "REG-..." code
	RegisteredAt   time.Time
}

// TypeRequirements is the default requirements checklist per event type,
// applied when an event is created without an explicit list.
var TypeRequirements = map[string][]string{
	TypeBlood:      {"Age 16-65", "Minimum weight 50kg", "Good health condition"},
	TypeTraining:   {"Registration required", "Comfortable clothing", "Notebook and pen"},
	TypeFundraiser: {"Registration fee may apply", "Fundraising goal participation"},
	TypeCommunity:  {"Volunteer spirit", "Comfortable shoes", "Willingness to help"},
}

// Validate checks if the Event has valid data.
// PRE: Event struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if len(e.Title) > MaxTitleLength {
		return errors.New("title cannot exceed 120 characters")
	}
	if !isValidType(e.Type) {
		return ErrInvalidType
	}
	if _, err := time.Parse("2006-01-02", e.Date); err != nil {
		return ErrInvalidDate
	}
	if e.MaxParticipants <= 0 {
		return ErrInvalidCapacity
	}
	if len(e.Description) > MaxDescriptionLength {
		return errors.New("description cannot exceed 2000 characters")
	}
	if len(e.Location) > MaxLocationLength {
		return errors.New("location cannot exceed 200 characters")
	}
	return nil
}

// IsFull returns true when the event has reached capacity.
// INVARIANT: Event fields are not mutated
func (e *Event) IsFull() bool {
	return e.RegisteredParticipants >= e.MaxParticipants
}

// SpotsLeft returns the number of open registration slots.
// INVARIANT: Event fields are not mutated
func (e *Event) SpotsLeft() int {
	left := e.MaxParticipants - e.RegisteredParticipants
	if left < 0 {
		return 0
	}
	return left
}

// AddRegistrant increments the registered count by one.
// PRE: Event is not full
// POST: RegisteredParticipants is incremented by exactly 1
func (e *Event) AddRegistrant() error {
	if e.IsFull() {
		return ErrEventFull
	}
	e.RegisteredParticipants++
	return nil
}

// Validate checks registrant contact details.
// PRE: Registration struct is populated
// POST: Returns nil if valid, a display-ready error otherwise
func (r *Registration) Validate() error {
	if len(strings.TrimSpace(r.Name)) < 3 {
		return ErrRegistrantName
	}
	if !strings.Contains(r.Email, "@") {
		return ErrRegistrantEmail
	}
	if !digitsOnly.MatchString(r.Phone) {
		return ErrRegistrantPhone
	}
	return nil
}

func isValidType(t string) bool {
	for _, v := range ValidTypes {
		if v == t {
			return true
		}
	}
	return false
}
