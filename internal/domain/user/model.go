package user

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Max length constants for user-editable fields.
const (
	MaxEmailLength = 254
	MaxNameLength  = 100
	MinNameLength  = 3
	MinPasswordLen = 6
)

// Role constants
const (
	RoleAdmin     = "admin"
	RoleVolunteer = "volunteer"
	RoleUser      = "user"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleAdmin, RoleVolunteer, RoleUser}

// emailPattern matches an email as one non-space run, an @, a domain part and
// a dot-separated suffix. Deliberately loose; deliverability is not checked.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Domain errors
var (
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrInvalidEmail     = errors.New("please enter a valid email address")
	ErrInvalidRole      = errors.New("role must be one of: admin, volunteer, user")
	ErrNameTooShort     = errors.New("name must be at least 3 characters")
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrDuplicateEmail   = errors.New("an account with this email already exists")
)

// User holds state for a registered site user.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Verified     bool
	JoinDate     time.Time
	LastLogin    time.Time
}

// Settings holds per-user preference flags.
type Settings struct {
	UserID             string
	EmailNotifications bool
	ProfileVisible     bool
	Theme              string // light, dark
	UpdatedAt          time.Time
}

// IsValidEmail reports whether the address has the accepted shape.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// LocalPart returns the part of an email before the '@'.
// Used as the display name for users who sign in without registering.
func LocalPart(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}

// Validate checks if the User has valid data.
// PRE: User struct is populated
// POST: Returns nil if valid, error otherwise
func (u *User) Validate() error {
	if strings.TrimSpace(u.Email) == "" {
		return ErrEmptyEmail
	}
	if len(u.Email) > MaxEmailLength {
		return errors.New("email cannot exceed 254 characters")
	}
	if !IsValidEmail(u.Email) {
		return ErrInvalidEmail
	}
	if len(strings.TrimSpace(u.Name)) < MinNameLength {
		return ErrNameTooShort
	}
	if len(u.Name) > MaxNameLength {
		return errors.New("name cannot exceed 100 characters")
	}
	if !isValidRole(u.Role) {
		return ErrInvalidRole
	}
	return nil
}

// SetPassword hashes and stores a password using bcrypt with cost 12.
// PRE: plaintext is non-empty and >= 6 characters
// POST: PasswordHash is set to bcrypt hash
func (u *User) SetPassword(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	if len(plaintext) < MinPasswordLen {
		return ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), 12)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// IsAdmin returns true if the user has admin role.
// INVARIANT: User fields are not mutated
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DefaultSettings returns the preference set a new user starts with.
func DefaultSettings(userID string, now time.Time) Settings {
	return Settings{
		UserID:             userID,
		EmailNotifications: true,
		ProfileVisible:     true,
		Theme:              "light",
		UpdatedAt:          now,
	}
}

// Validate checks the Settings record.
// PRE: Settings struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Settings) Validate() error {
	if s.UserID == "" {
		return errors.New("settings must belong to a user")
	}
	if s.Theme != "light" && s.Theme != "dark" {
		return errors.New("theme must be light or dark")
	}
	return nil
}

func isValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
