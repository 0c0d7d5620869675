package alert

import (
	"testing"
	"time"
)

// TestAlert_Validate tests Alert validation rules.
func TestAlert_Validate(t *testing.T) {
	valid := Alert{
		ID:       "a1",
		Type:     "typhoon",
		Title:    "Typhoon Signal No. 2",
		Message:  "Heavy rains expected over Metro Manila",
		Priority: PriorityWarning,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid alert, got: %v", err)
	}

	tests := []struct {
		name    string
		modify  func(a *Alert)
		wantErr error
	}{
		{"empty type", func(a *Alert) { a.Type = "" }, ErrEmptyType},
		{"empty title", func(a *Alert) { a.Title = " " }, ErrEmptyTitle},
		{"empty message", func(a *Alert) { a.Message = "" }, ErrEmptyMessage},
		{"bad priority", func(a *Alert) { a.Priority = "severe" }, ErrInvalidPriority},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := valid
			tc.modify(&a)
			if err := a.Validate(); err != tc.wantErr {
				t.Fatalf("expected %v, got: %v", tc.wantErr, err)
			}
		})
	}
}

// TestAlert_IsRecent tests the recent window boundary.
func TestAlert_IsRecent(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	fresh := Alert{CreatedAt: now.Add(-2 * time.Hour)}
	if !fresh.IsRecent(now) {
		t.Fatal("two-hour-old alert should be recent")
	}

	edge := Alert{CreatedAt: now.AddDate(0, 0, -RecentWindowDays)}
	if !edge.IsRecent(now) {
		t.Fatal("alert exactly at the window edge should be recent")
	}

	stale := Alert{CreatedAt: now.AddDate(0, 0, -RecentWindowDays).Add(-time.Minute)}
	if stale.IsRecent(now) {
		t.Fatal("alert past the window should not be recent")
	}
}

// TestSubscription_Validate tests subscription input rules.
func TestSubscription_Validate(t *testing.T) {
	valid := Subscription{ID: "s1", Email: "ana@example.com", Region: "NCR"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid subscription, got: %v", err)
	}

	bad := valid
	bad.Email = "not-an-email"
	if err := bad.Validate(); err != ErrInvalidEmail {
		t.Fatalf("expected ErrInvalidEmail, got: %v", err)
	}

	bad = valid
	bad.Region = "  "
	if err := bad.Validate(); err != ErrEmptyRegion {
		t.Fatalf("expected ErrEmptyRegion, got: %v", err)
	}
}
