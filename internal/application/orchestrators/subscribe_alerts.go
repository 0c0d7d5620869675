package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"lifeline/internal/domain/alert"
)

// SubscriptionStoreForSubscribe defines the subscription interface needed
// by SubscribeAlerts.
type SubscriptionStoreForSubscribe interface {
	GetByEmail(ctx context.Context, email string) (alert.Subscription, error)
	Save(ctx context.Context, s alert.Subscription) error
	ResetUnread(ctx context.Context, email string) error
}

// SubscribeAlertsInput carries the subscription form fields.
type SubscribeAlertsInput struct {
	Email  string
	Region string
}

// SubscribeAlertsDeps holds dependencies for SubscribeAlerts.
type SubscribeAlertsDeps struct {
	SubscriptionStore SubscriptionStoreForSubscribe
	GenerateID        func() string
	Now               func() time.Time
}

// ExecuteSubscribeAlerts registers an email for alert broadcasts. One
// subscription exists per email: subscribing an already-subscribed email is
// a no-op and returns the stored subscription untouched, region included.
// PRE: input fields are as typed by the subscriber
// POST: Exactly one subscription exists for the email
func ExecuteSubscribeAlerts(ctx context.Context, input SubscribeAlertsInput, deps SubscribeAlertsDeps) (alert.Subscription, error) {
	sub := alert.Subscription{
		ID:           deps.GenerateID(),
		Email:        input.Email,
		Region:       input.Region,
		SubscribedAt: deps.Now(),
	}
	if err := sub.Validate(); err != nil {
		return alert.Subscription{}, err
	}

	if existing, err := deps.SubscriptionStore.GetByEmail(ctx, sub.Email); err == nil {
		slog.Info("alert_event", "event", "subscribe_duplicate", "email", existing.Email)
		return existing, nil
	}

	if err := deps.SubscriptionStore.Save(ctx, sub); err != nil {
		return alert.Subscription{}, err
	}

	slog.Info("alert_event", "event", "subscribed", "email", sub.Email, "region", sub.Region)
	return sub, nil
}

// ExecuteMarkAlertsRead clears a subscriber's unread counter, typically when
// they open the alerts page.
// PRE: email identifies an existing subscription
// POST: UnreadCount is zero
func ExecuteMarkAlertsRead(ctx context.Context, email string, deps SubscribeAlertsDeps) error {
	if _, err := deps.SubscriptionStore.GetByEmail(ctx, email); err != nil {
		return err
	}
	return deps.SubscriptionStore.ResetUnread(ctx, email)
}
