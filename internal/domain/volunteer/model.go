package volunteer

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Application status constants
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ValidStatuses contains all valid application status values.
var ValidStatuses = []string{StatusPending, StatusApproved, StatusRejected}

// MinSkills is the minimum number of skill areas an applicant must select.
const MinSkills = 2

var (
	// namePattern accepts letters and spaces only, 3 to 50 characters.
	namePattern = regexp.MustCompile(`^[A-Za-z\s]{3,50}$`)
	// phonePattern accepts Philippine mobile numbers in local (09...) or
	// international (+639...) form, 11 and 13 characters respectively.
	phonePattern = regexp.MustCompile(`^(09|\+639)\d{9}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Domain errors, phrased for direct display to the applicant.
var (
	ErrInvalidName     = errors.New("please enter a valid name (3-50 characters, letters only)")
	ErrInvalidEmail    = errors.New("please enter a valid email address")
	ErrInvalidPhone    = errors.New("please enter a valid Philippine mobile number")
	ErrTooFewSkills    = errors.New("please select at least 2 skill areas")
	ErrInvalidStatus   = errors.New("status must be one of: pending, approved, rejected")
	ErrShiftNotFound   = errors.New("shift not found")
	ErrShiftNotOwned   = errors.New("shift does not belong to this volunteer")
	ErrShiftNotOpen    = errors.New("shift can no longer be cancelled")
	ErrMissingShiftRef = errors.New("shift id is required")
)

// Personal holds the identity section of an application.
type Personal struct {
	Name      string
	Birthdate string // YYYY-MM-DD
	Email     string
	Phone     string
	Address   string
}

// Skills holds the capability section of an application.
type Skills struct {
	Selected  []string // skill areas, at least MinSkills
	Interests []string // free-form interest tags
}

// Availability holds scheduling preferences and emergency contacts.
type Availability struct {
	Days           []string
	PreferredTime  string
	EmergencyName  string
	EmergencyPhone string
}

// Application is a volunteer application submitted through the site.
// One application exists per email; resubmitting replaces the whole record.
type Application struct {
	ID              string
	Personal        Personal
	Skills          Skills
	Availability    Availability
	ReferenceCode   string // user-visible "VOL-..." code, regenerated per submission
	Status          string
	AssignedChapter string
	SubmittedAt     time.Time
}

// Shift is a scheduled volunteer duty slot shown on the dashboard.
type Shift struct {
	ID       string
	Email    string // owning volunteer's email
	Role     string
	Date     string // YYYY-MM-DD
	Time     string
	Location string
	Status   string // scheduled, cancelled
}

// Shift status constants
const (
	ShiftScheduled = "scheduled"
	ShiftCancelled = "cancelled"
)

// TrainingCourse is one entry in a volunteer's training progress list.
type TrainingCourse struct {
	ID          string
	Email       string
	Name        string
	Completed   bool
	CompletedOn string // YYYY-MM-DD, empty while pending
}

// chapterRules maps an address keyword to the chapter that covers it.
// Order matters: the first matching keyword wins.
var chapterRules = []struct {
	keyword string
	chapter string
}{
	{"manila", "Manila Chapter"},
	{"quezon", "Quezon City Chapter"},
	{"makati", "Makati Chapter"},
	{"cebu", "Cebu Chapter"},
	{"davao", "Davao Chapter"},
}

// DefaultChapter is assigned when no keyword matches the address.
const DefaultChapter = "National Headquarters"

// AssignChapter picks the chapter for an address by keyword match.
// INVARIANT: Matching is case-insensitive substring search, first rule wins
func AssignChapter(address string) string {
	lower := strings.ToLower(address)
	for _, rule := range chapterRules {
		if strings.Contains(lower, rule.keyword) {
			return rule.chapter
		}
	}
	return DefaultChapter
}

// Validate checks the Application sections in submission order and returns
// the first failure.
// PRE: Application struct is populated
// POST: Returns nil if valid, a display-ready error otherwise
func (a *Application) Validate() error {
	if !namePattern.MatchString(a.Personal.Name) {
		return ErrInvalidName
	}
	if !emailPattern.MatchString(a.Personal.Email) {
		return ErrInvalidEmail
	}
	if !phonePattern.MatchString(a.Personal.Phone) {
		return ErrInvalidPhone
	}
	if len(a.Skills.Selected) < MinSkills {
		return ErrTooFewSkills
	}
	if !isValidStatus(a.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// SetStatus transitions the application to a new review status.
// PRE: status is a valid status value
// POST: Status is updated
func (a *Application) SetStatus(status string) error {
	if !isValidStatus(status) {
		return ErrInvalidStatus
	}
	a.Status = status
	return nil
}

// Cancel marks a shift as cancelled.
// PRE: Shift is in scheduled status
// POST: Status is cancelled
func (s *Shift) Cancel() error {
	if s.Status != ShiftScheduled {
		return ErrShiftNotOpen
	}
	s.Status = ShiftCancelled
	return nil
}

func isValidStatus(status string) bool {
	for _, s := range ValidStatuses {
		if s == status {
			return true
		}
	}
	return false
}
