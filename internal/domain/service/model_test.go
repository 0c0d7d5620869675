package service

import "testing"

// TestService_Validate tests Service validation rules.
func TestService_Validate(t *testing.T) {
	valid := Service{
		ID:       "s1",
		Title:    "Blood Donation",
		Category: CategoryMedical,
		Urgency:  UrgencyCritical,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid service, got: %v", err)
	}

	tests := []struct {
		name    string
		modify  func(s *Service)
		wantErr error
	}{
		{"empty title", func(s *Service) { s.Title = "  " }, ErrEmptyTitle},
		{"invalid category", func(s *Service) { s.Category = "legal" }, ErrInvalidCategory},
		{"invalid urgency", func(s *Service) { s.Urgency = "urgent" }, ErrInvalidUrgency},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := valid
			tc.modify(&s)
			if err := s.Validate(); err != tc.wantErr {
				t.Fatalf("expected %v, got: %v", tc.wantErr, err)
			}
		})
	}
}

// TestService_Matches tests category and free-text filtering.
func TestService_Matches(t *testing.T) {
	s := Service{
		Title:       "First Aid Training",
		Category:    CategoryTraining,
		Description: "Basic life support and CPR certification courses",
	}

	tests := []struct {
		name     string
		category string
		query    string
		want     bool
	}{
		{"no filter", "", "", true},
		{"all category", "all", "", true},
		{"matching category", CategoryTraining, "", true},
		{"wrong category", CategoryMedical, "", false},
		{"title match", "all", "first aid", true},
		{"description match", "all", "cpr", true},
		{"case insensitive", "all", "TRAINING", true},
		{"no match", "all", "ambulance", false},
		{"category and query both", CategoryTraining, "cpr", true},
		{"category wrong despite query", CategoryMedical, "cpr", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.Matches(tc.category, tc.query); got != tc.want {
				t.Fatalf("Matches(%q, %q) = %v, want %v", tc.category, tc.query, got, tc.want)
			}
		})
	}
}
