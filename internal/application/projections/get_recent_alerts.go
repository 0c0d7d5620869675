package projections

import (
	"context"
	"time"

	"lifeline/internal/domain/alert"
)

// AlertStoreForFeed defines the alert log interface needed by the recent
// alerts projection.
type AlertStoreForFeed interface {
	ListSince(ctx context.Context, since time.Time, limit int) ([]alert.Alert, error)
}

// SubscriptionStoreForFeed reads one subscriber's unread state.
type SubscriptionStoreForFeed interface {
	GetByEmail(ctx context.Context, email string) (alert.Subscription, error)
}

// GetRecentAlertsQuery carries the feed request. Email is optional; when
// present the subscriber's unread count rides along.
type GetRecentAlertsQuery struct {
	Email string
	Now   time.Time
}

// GetRecentAlertsDeps holds dependencies for the recent alerts projection.
type GetRecentAlertsDeps struct {
	AlertStore        AlertStoreForFeed
	SubscriptionStore SubscriptionStoreForFeed
}

// GetRecentAlertsResult carries the feed, newest first.
type GetRecentAlertsResult struct {
	Alerts      []alert.Alert
	UnreadCount int
	Subscribed  bool
}

// QueryGetRecentAlerts returns alerts from the last seven days, capped at
// five, newest first. Older alerts stay in the log but never reach the feed.
func QueryGetRecentAlerts(ctx context.Context, query GetRecentAlertsQuery, deps GetRecentAlertsDeps) (GetRecentAlertsResult, error) {
	since := query.Now.AddDate(0, 0, -alert.RecentWindowDays)
	alerts, err := deps.AlertStore.ListSince(ctx, since, alert.MaxRecent)
	if err != nil {
		return GetRecentAlertsResult{}, err
	}

	result := GetRecentAlertsResult{Alerts: alerts}
	if query.Email != "" && deps.SubscriptionStore != nil {
		if sub, err := deps.SubscriptionStore.GetByEmail(ctx, query.Email); err == nil {
			result.UnreadCount = sub.UnreadCount
			result.Subscribed = true
		}
	}
	return result, nil
}
