package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lifeline/internal/adapters/email"
	"lifeline/internal/domain/alert"
)

// AlertStoreForBroadcast defines the alert log interface needed by
// BroadcastAlert.
type AlertStoreForBroadcast interface {
	Append(ctx context.Context, a alert.Alert) error
}

// SubscriptionStoreForBroadcast defines the subscription interface needed
// by BroadcastAlert.
type SubscriptionStoreForBroadcast interface {
	ListAll(ctx context.Context) ([]alert.Subscription, error)
	IncrementUnreadAll(ctx context.Context) error
}

// BroadcastAlertInput carries the alert composer fields.
type BroadcastAlertInput struct {
	Type         string
	Title        string
	Message      string
	Priority     string
	Instructions []string
}

// BroadcastAlertDeps holds dependencies for BroadcastAlert.
type BroadcastAlertDeps struct {
	AlertStore        AlertStoreForBroadcast
	SubscriptionStore SubscriptionStoreForBroadcast
	EmailSender       email.Sender
	EmailFrom         string
	GenerateID        func() string
	Now               func() time.Time
}

// ExecuteBroadcastAlert appends an alert to the log, bumps every
// subscriber's unread count, and fans the alert out by email. The log is
// append-only; alerts are never edited or deleted after broadcast.
// PRE: input fields are as typed by the admin
// POST: One new log entry and every subscription's unread count incremented,
// or the log is unchanged
func ExecuteBroadcastAlert(ctx context.Context, input BroadcastAlertInput, deps BroadcastAlertDeps) (alert.Alert, error) {
	a := alert.Alert{
		ID:           deps.GenerateID(),
		Type:         input.Type,
		Title:        input.Title,
		Message:      input.Message,
		Priority:     input.Priority,
		Instructions: input.Instructions,
		CreatedAt:    deps.Now(),
	}
	if err := a.Validate(); err != nil {
		return alert.Alert{}, err
	}

	if err := deps.AlertStore.Append(ctx, a); err != nil {
		return alert.Alert{}, err
	}
	if err := deps.SubscriptionStore.IncrementUnreadAll(ctx); err != nil {
		return alert.Alert{}, err
	}

	slog.Info("alert_event", "event", "alert_broadcast",
		"alert_id", a.ID, "type", a.Type, "priority", a.Priority)

	notifySubscribers(ctx, deps, a)
	return a, nil
}

// notifySubscribers emails every subscriber. A failed send is logged and the
// fan-out continues; the alert is already in the log either way.
func notifySubscribers(ctx context.Context, deps BroadcastAlertDeps, a alert.Alert) {
	if deps.EmailSender == nil {
		return
	}
	subs, err := deps.SubscriptionStore.ListAll(ctx)
	if err != nil {
		slog.Error("alert_event", "event", "subscriber_list_failed", "alert_id", a.ID, "error", err)
		return
	}

	var reqs []email.SendRequest
	for _, sub := range subs {
		html := fmt.Sprintf(
			"<p><strong>%s</strong></p><p>%s</p><p>Stay safe,<br>Lifeline Philippines</p>",
			a.Title, a.Message,
		)
		reqs = append(reqs, email.SendRequest{
			To:      []string{sub.Email},
			From:    deps.EmailFrom,
			Subject: fmt.Sprintf("[%s] %s", a.Priority, a.Title),
			HTML:    html,
		})
	}
	if len(reqs) == 0 {
		return
	}

	if _, err := deps.EmailSender.SendBatch(ctx, reqs); err != nil {
		slog.Error("alert_event", "event", "alert_emails_failed", "alert_id", a.ID, "error", err)
		return
	}
	slog.Info("alert_event", "event", "alert_emails_sent", "alert_id", a.ID, "count", len(reqs))
}
