package alert

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Priority constants
const (
	PriorityInfo     = "info"
	PriorityWarning  = "warning"
	PriorityCritical = "critical"
)

// ValidPriorities contains all valid priority values.
var ValidPriorities = []string{PriorityInfo, PriorityWarning, PriorityCritical}

// RecentWindowDays is how far back an alert still counts as recent.
const RecentWindowDays = 7

// MaxRecent caps the number of alerts shown in the recent feed.
const MaxRecent = 5

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Domain errors
var (
	ErrEmptyType       = errors.New("alert type cannot be empty")
	ErrEmptyTitle      = errors.New("alert title cannot be empty")
	ErrEmptyMessage    = errors.New("alert message cannot be empty")
	ErrInvalidPriority = errors.New("priority must be one of: info, warning, critical")
	ErrInvalidEmail    = errors.New("please enter a valid email address")
	ErrEmptyRegion     = errors.New("please select your region")
)

// Alert is one entry in the append-only emergency alert log.
type Alert struct {
	ID           string
	Type         string // typhoon, flood, earthquake, advisory, ...
	Title        string
	Message      string // markdown, rendered for display
	Priority     string
	Instructions []string
	CreatedAt    time.Time
}

// Subscription records one email subscribed to alert broadcasts.
// Emails are unique; re-subscribing is a no-op.
type Subscription struct {
	ID           string
	Email        string
	Region       string
	UnreadCount  int
	SubscribedAt time.Time
}

// Validate checks if the Alert has valid data.
// PRE: Alert struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Alert) Validate() error {
	if strings.TrimSpace(a.Type) == "" {
		return ErrEmptyType
	}
	if strings.TrimSpace(a.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(a.Message) == "" {
		return ErrEmptyMessage
	}
	if !isValidPriority(a.Priority) {
		return ErrInvalidPriority
	}
	return nil
}

// IsRecent reports whether the alert falls within the recent window.
// INVARIANT: Alert fields are not mutated
func (a *Alert) IsRecent(now time.Time) bool {
	return now.Sub(a.CreatedAt) <= RecentWindowDays*24*time.Hour
}

// Validate checks if the Subscription has valid data.
// PRE: Subscription struct is populated
// POST: Returns nil if valid, a display-ready error otherwise
func (s *Subscription) Validate() error {
	if !emailPattern.MatchString(s.Email) {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(s.Region) == "" {
		return ErrEmptyRegion
	}
	return nil
}

func isValidPriority(p string) bool {
	for _, v := range ValidPriorities {
		if v == p {
			return true
		}
	}
	return false
}
