package service

import (
	"errors"
	"strings"
)

// Category constants
const (
	CategoryMedical   = "medical"
	CategoryDisaster  = "disaster"
	CategoryTraining  = "training"
	CategoryCommunity = "community"
)

// ValidCategories contains all valid category values.
var ValidCategories = []string{CategoryMedical, CategoryDisaster, CategoryTraining, CategoryCommunity}

// Urgency constants
const (
	UrgencyLow      = "low"
	UrgencyMedium   = "medium"
	UrgencyHigh     = "high"
	UrgencyCritical = "critical"
)

// ValidUrgencies contains all valid urgency values.
var ValidUrgencies = []string{UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical}

// Domain errors
var (
	ErrEmptyTitle      = errors.New("title cannot be empty")
	ErrInvalidCategory = errors.New("category must be one of: medical, disaster, training, community")
	ErrInvalidUrgency  = errors.New("urgency must be one of: low, medium, high, critical")
)

// Service is one entry in the public service directory. The directory is
// seeded at startup and read-only afterwards.
type Service struct {
	ID           string
	Title        string
	Category     string
	Description  string
	Details      string // markdown, rendered for the detail view
	Icon         string
	Requirements []string
	Locations    []string
	Contact      string
	Phone        string
	Hours        string
	Urgency      string
}

// Validate checks if the Service has valid data.
// PRE: Service struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Service) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return ErrEmptyTitle
	}
	if !isValidCategory(s.Category) {
		return ErrInvalidCategory
	}
	if !isValidUrgency(s.Urgency) {
		return ErrInvalidUrgency
	}
	return nil
}

// Matches reports whether the service matches a category filter and a
// free-text query. Category "all" or "" matches every category; the query
// is a case-insensitive substring search over title and description.
// INVARIANT: Service fields are not mutated
func (s *Service) Matches(category, query string) bool {
	if category != "" && category != "all" && s.Category != category {
		return false
	}
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(s.Title), q) ||
		strings.Contains(strings.ToLower(s.Description), q)
}

func isValidCategory(c string) bool {
	for _, v := range ValidCategories {
		if v == c {
			return true
		}
	}
	return false
}

func isValidUrgency(u string) bool {
	for _, v := range ValidUrgencies {
		if v == u {
			return true
		}
	}
	return false
}
