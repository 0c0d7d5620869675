package projections

import (
	"context"
	"database/sql"
	"sort"
	"testing"
	"time"

	"lifeline/internal/domain/alert"
)

// mockAlertFeedStore implements AlertStoreForFeed for testing.
type mockAlertFeedStore struct {
	alerts []alert.Alert
}

func (m *mockAlertFeedStore) ListSince(_ context.Context, since time.Time, limit int) ([]alert.Alert, error) {
	var out []alert.Alert
	for _, a := range m.alerts {
		if !a.CreatedAt.Before(since) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// mockSubscriptionFeedStore implements SubscriptionStoreForFeed for testing.
type mockSubscriptionFeedStore struct {
	subs map[string]alert.Subscription
}

func (m *mockSubscriptionFeedStore) GetByEmail(_ context.Context, email string) (alert.Subscription, error) {
	sub, ok := m.subs[email]
	if !ok {
		return alert.Subscription{}, sql.ErrNoRows
	}
	return sub, nil
}

// TestQueryGetRecentAlerts_WindowAndCap verifies the seven-day window and
// the five-alert cap, newest first.
func TestQueryGetRecentAlerts_WindowAndCap(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	store := &mockAlertFeedStore{}
	for i := 0; i < 8; i++ {
		store.alerts = append(store.alerts, alert.Alert{
			ID:        alertID(i),
			Type:      "weather",
			Title:     "Advisory",
			Message:   "m",
			Priority:  alert.PriorityInfo,
			CreatedAt: now.Add(-time.Duration(i) * 24 * time.Hour),
		})
	}
	// One stale alert well outside the window
	store.alerts = append(store.alerts, alert.Alert{
		ID: "stale", CreatedAt: now.AddDate(0, 0, -30),
	})

	deps := GetRecentAlertsDeps{AlertStore: store}
	result, err := QueryGetRecentAlerts(context.Background(), GetRecentAlertsQuery{Now: now}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Alerts) != alert.MaxRecent {
		t.Fatalf("expected %d alerts, got %d", alert.MaxRecent, len(result.Alerts))
	}
	if result.Alerts[0].ID != "a-0" {
		t.Errorf("expected newest alert first, got %s", result.Alerts[0].ID)
	}
	for _, a := range result.Alerts {
		if a.ID == "stale" {
			t.Error("stale alert leaked into the feed")
		}
	}
}

// TestQueryGetRecentAlerts_SubscriberState verifies the unread badge rides
// along for a known subscriber and stays zero for strangers.
func TestQueryGetRecentAlerts_SubscriberState(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	store := &mockAlertFeedStore{}
	subs := &mockSubscriptionFeedStore{subs: map[string]alert.Subscription{
		"maria@example.com": {ID: "s-1", Email: "maria@example.com", Region: "ncr", UnreadCount: 3},
	}}
	deps := GetRecentAlertsDeps{AlertStore: store, SubscriptionStore: subs}

	result, err := QueryGetRecentAlerts(context.Background(), GetRecentAlertsQuery{Email: "maria@example.com", Now: now}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Subscribed || result.UnreadCount != 3 {
		t.Errorf("expected subscribed with 3 unread, got %v/%d", result.Subscribed, result.UnreadCount)
	}

	anon, err := QueryGetRecentAlerts(context.Background(), GetRecentAlertsQuery{Email: "nobody@example.com", Now: now}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if anon.Subscribed || anon.UnreadCount != 0 {
		t.Errorf("expected anonymous state, got %v/%d", anon.Subscribed, anon.UnreadCount)
	}
}

func alertID(i int) string {
	return "a-" + string(rune('0'+i))
}
