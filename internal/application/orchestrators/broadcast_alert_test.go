package orchestrators

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"lifeline/internal/domain/alert"
)

// --- in-memory test doubles ---

type memAlertStore struct {
	alerts []alert.Alert
}

func (s *memAlertStore) Append(_ context.Context, a alert.Alert) error {
	s.alerts = append(s.alerts, a)
	return nil
}

func (s *memAlertStore) GetLatest(_ context.Context) (alert.Alert, error) {
	if len(s.alerts) == 0 {
		return alert.Alert{}, sql.ErrNoRows
	}
	latest := s.alerts[0]
	for _, a := range s.alerts[1:] {
		if a.CreatedAt.After(latest.CreatedAt) {
			latest = a
		}
	}
	return latest, nil
}

type memSubscriptionStore struct {
	subs map[string]alert.Subscription // keyed by email
}

func newMemSubscriptionStore() *memSubscriptionStore {
	return &memSubscriptionStore{subs: make(map[string]alert.Subscription)}
}

func (s *memSubscriptionStore) GetByEmail(_ context.Context, email string) (alert.Subscription, error) {
	sub, ok := s.subs[email]
	if !ok {
		return alert.Subscription{}, sql.ErrNoRows
	}
	return sub, nil
}

func (s *memSubscriptionStore) Save(_ context.Context, sub alert.Subscription) error {
	// Mirrors the SQLite store: a second save for the same email is a no-op.
	if _, ok := s.subs[sub.Email]; ok {
		return nil
	}
	s.subs[sub.Email] = sub
	return nil
}

func (s *memSubscriptionStore) ListAll(_ context.Context) ([]alert.Subscription, error) {
	var out []alert.Subscription
	for _, sub := range s.subs {
		out = append(out, sub)
	}
	return out, nil
}

func (s *memSubscriptionStore) IncrementUnreadAll(_ context.Context) error {
	for email, sub := range s.subs {
		sub.UnreadCount++
		s.subs[email] = sub
	}
	return nil
}

func (s *memSubscriptionStore) ResetUnread(_ context.Context, email string) error {
	sub, ok := s.subs[email]
	if !ok {
		return sql.ErrNoRows
	}
	sub.UnreadCount = 0
	s.subs[email] = sub
	return nil
}

// --- tests ---

// TestBroadcastAlert_AppendsAndNotifies verifies the log entry, the unread
// bump, and the fan-out email per subscriber.
func TestBroadcastAlert_AppendsAndNotifies(t *testing.T) {
	alerts := &memAlertStore{}
	subs := newMemSubscriptionStore()
	subs.subs["a@example.com"] = alert.Subscription{ID: "s-1", Email: "a@example.com", Region: "ncr"}
	subs.subs["b@example.com"] = alert.Subscription{ID: "s-2", Email: "b@example.com", Region: "cebu", UnreadCount: 2}
	sender := &recordingSender{}
	deps := BroadcastAlertDeps{
		AlertStore:        alerts,
		SubscriptionStore: subs,
		EmailSender:       sender,
		EmailFrom:         "Lifeline Philippines <alerts@lifeline.ph>",
		GenerateID:        newSeqID(),
		Now:               testClock,
	}

	a, err := ExecuteBroadcastAlert(context.Background(), BroadcastAlertInput{
		Type:     "typhoon",
		Title:    "Typhoon Signal No. 3",
		Message:  "Typhoon expected to make landfall tonight. Secure loose objects.",
		Priority: alert.PriorityCritical,
	}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(alerts.alerts) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(alerts.alerts))
	}
	if !a.CreatedAt.Equal(testClock()) {
		t.Errorf("expected CreatedAt %v, got %v", testClock(), a.CreatedAt)
	}
	if subs.subs["a@example.com"].UnreadCount != 1 {
		t.Errorf("expected unread 1, got %d", subs.subs["a@example.com"].UnreadCount)
	}
	if subs.subs["b@example.com"].UnreadCount != 3 {
		t.Errorf("expected unread 3, got %d", subs.subs["b@example.com"].UnreadCount)
	}
	if len(sender.sent) != 2 {
		t.Errorf("expected 2 emails, got %d", len(sender.sent))
	}
}

// TestBroadcastAlert_RejectsInvalid verifies validation keeps the log clean.
func TestBroadcastAlert_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		input   BroadcastAlertInput
		wantErr error
	}{
		{"empty title", BroadcastAlertInput{Type: "flood", Message: "m", Priority: alert.PriorityInfo}, alert.ErrEmptyTitle},
		{"empty message", BroadcastAlertInput{Type: "flood", Title: "t", Priority: alert.PriorityInfo}, alert.ErrEmptyMessage},
		{"bad priority", BroadcastAlertInput{Type: "flood", Title: "t", Message: "m", Priority: "urgent"}, alert.ErrInvalidPriority},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := &memAlertStore{}
			subs := newMemSubscriptionStore()
			deps := BroadcastAlertDeps{AlertStore: alerts, SubscriptionStore: subs, GenerateID: newSeqID(), Now: testClock}
			_, err := ExecuteBroadcastAlert(context.Background(), tt.input, deps)
			if err != tt.wantErr {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if len(alerts.alerts) != 0 {
				t.Error("log must stay empty on rejection")
			}
		})
	}
}

// TestSubscribeAlerts_DuplicateEmailIsNoop verifies re-subscribing changes
// nothing: the stored region, unread counter and id all survive untouched.
func TestSubscribeAlerts_DuplicateEmailIsNoop(t *testing.T) {
	subs := newMemSubscriptionStore()
	deps := SubscribeAlertsDeps{SubscriptionStore: subs, GenerateID: newSeqID(), Now: testClock}

	first, err := ExecuteSubscribeAlerts(context.Background(), SubscribeAlertsInput{Email: "maria@example.com", Region: "ncr"}, deps)
	if err != nil {
		t.Fatalf("first subscribe: %v", err)
	}
	if first.Region != "ncr" {
		t.Errorf("expected region ncr, got %s", first.Region)
	}

	// Simulate two broadcasts landing before the duplicate submission
	if err := subs.IncrementUnreadAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := subs.IncrementUnreadAll(context.Background()); err != nil {
		t.Fatal(err)
	}

	second, err := ExecuteSubscribeAlerts(context.Background(), SubscribeAlertsInput{Email: "maria@example.com", Region: "cebu"}, deps)
	if err != nil {
		t.Fatalf("second subscribe: %v", err)
	}
	if second.Region != "ncr" {
		t.Errorf("region must stay ncr on a duplicate, got %s", second.Region)
	}
	if second.UnreadCount != 2 {
		t.Errorf("unread count must survive a duplicate, got %d", second.UnreadCount)
	}
	if second.ID != first.ID {
		t.Errorf("subscription id must be stable, got %s then %s", first.ID, second.ID)
	}
	if len(subs.subs) != 1 {
		t.Errorf("expected 1 subscription, got %d", len(subs.subs))
	}
}

// TestSubscribeAlerts_RejectsInvalid covers the two form validations.
func TestSubscribeAlerts_RejectsInvalid(t *testing.T) {
	subs := newMemSubscriptionStore()
	deps := SubscribeAlertsDeps{SubscriptionStore: subs, GenerateID: newSeqID(), Now: testClock}

	if _, err := ExecuteSubscribeAlerts(context.Background(), SubscribeAlertsInput{Email: "nope", Region: "ncr"}, deps); err != alert.ErrInvalidEmail {
		t.Errorf("expected ErrInvalidEmail, got %v", err)
	}
	if _, err := ExecuteSubscribeAlerts(context.Background(), SubscribeAlertsInput{Email: "ok@example.com", Region: " "}, deps); err != alert.ErrEmptyRegion {
		t.Errorf("expected ErrEmptyRegion, got %v", err)
	}
	if len(subs.subs) != 0 {
		t.Error("nothing should be stored on rejection")
	}
}

// TestMarkAlertsRead_ResetsCounter verifies opening the alerts page clears
// the unread badge.
func TestMarkAlertsRead_ResetsCounter(t *testing.T) {
	subs := newMemSubscriptionStore()
	subs.subs["maria@example.com"] = alert.Subscription{ID: "s-1", Email: "maria@example.com", Region: "ncr", UnreadCount: 4}
	deps := SubscribeAlertsDeps{SubscriptionStore: subs, GenerateID: newSeqID(), Now: testClock}

	if err := ExecuteMarkAlertsRead(context.Background(), "maria@example.com", deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subs.subs["maria@example.com"].UnreadCount != 0 {
		t.Errorf("expected unread 0, got %d", subs.subs["maria@example.com"].UnreadCount)
	}

	if err := ExecuteMarkAlertsRead(context.Background(), "unknown@example.com", deps); err == nil {
		t.Error("expected error for unknown subscriber")
	}
}

// --- simulator tests ---

// TestAlertSimulator_FiresWhenQuiet verifies a stale log gets a canned
// alert and subscribers see the unread bump.
func TestAlertSimulator_FiresWhenQuiet(t *testing.T) {
	alerts := &memAlertStore{}
	alerts.alerts = append(alerts.alerts, alert.Alert{
		ID:        "old-1",
		Type:      "weather",
		Title:     "Old advisory",
		Message:   "m",
		Priority:  alert.PriorityInfo,
		CreatedAt: testClock().Add(-3 * time.Hour),
	})
	subs := newMemSubscriptionStore()
	subs.subs["a@example.com"] = alert.Subscription{ID: "s-1", Email: "a@example.com", Region: "ncr"}

	sim := NewAlertSimulator(alerts, subs, newSeqID(), testClock)
	sim.pick = func(int) int { return 1 }

	fired, err := sim.Tick(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fired {
		t.Fatal("expected simulator to fire on a quiet log")
	}
	if len(alerts.alerts) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(alerts.alerts))
	}

	got := alerts.alerts[1]
	if got.Title != "Urgent Blood Need" {
		t.Errorf("expected canned blood alert, got %s", got.Title)
	}
	if got.Priority != alert.PriorityCritical {
		t.Errorf("expected critical priority, got %s", got.Priority)
	}
	if subs.subs["a@example.com"].UnreadCount != 1 {
		t.Errorf("expected unread 1, got %d", subs.subs["a@example.com"].UnreadCount)
	}
}

// TestAlertSimulator_QuietWindowHolds verifies a fresh alert suppresses the
// simulator.
func TestAlertSimulator_QuietWindowHolds(t *testing.T) {
	alerts := &memAlertStore{}
	alerts.alerts = append(alerts.alerts, alert.Alert{
		ID:        "fresh-1",
		Type:      "weather",
		Title:     "Fresh advisory",
		Message:   "m",
		Priority:  alert.PriorityInfo,
		CreatedAt: testClock().Add(-30 * time.Minute),
	})
	subs := newMemSubscriptionStore()

	sim := NewAlertSimulator(alerts, subs, newSeqID(), testClock)
	fired, err := sim.Tick(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fired {
		t.Error("simulator must not fire inside the quiet window")
	}
	if len(alerts.alerts) != 1 {
		t.Errorf("expected log unchanged, got %d entries", len(alerts.alerts))
	}
}

// TestAlertSimulator_EmptyLogFires verifies the first boot of a dev
// instance gets an alert immediately.
func TestAlertSimulator_EmptyLogFires(t *testing.T) {
	alerts := &memAlertStore{}
	subs := newMemSubscriptionStore()

	sim := NewAlertSimulator(alerts, subs, newSeqID(), testClock)
	fired, err := sim.Tick(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fired {
		t.Error("expected simulator to fire on an empty log")
	}
	if len(alerts.alerts) != 1 {
		t.Errorf("expected 1 entry, got %d", len(alerts.alerts))
	}
}
