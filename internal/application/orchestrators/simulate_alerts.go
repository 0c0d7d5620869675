package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"lifeline/internal/domain/alert"
)

// AlertStoreForSimulator defines the alert log interface needed by the
// simulator.
type AlertStoreForSimulator interface {
	Append(ctx context.Context, a alert.Alert) error
	GetLatest(ctx context.Context) (alert.Alert, error)
}

// SubscriptionStoreForSimulator bumps unread counters when a simulated
// alert fires.
type SubscriptionStoreForSimulator interface {
	IncrementUnreadAll(ctx context.Context) error
}

// simulatorQuietWindow is how long the log must be quiet before a canned
// alert fires.
const simulatorQuietWindow = 2 * time.Hour

// cannedAlerts rotate through the simulator. Picked at random each firing.
var cannedAlerts = []alert.Alert{
	{
		Type:     "weather",
		Title:    "Heavy Rainfall Advisory",
		Message:  "Moderate to heavy rains expected in Metro Manila within the next 3 hours.",
		Priority: alert.PriorityWarning,
	},
	{
		Type:     "blood",
		Title:    "Urgent Blood Need",
		Message:  "Type O- blood supply critically low. Donors urgently needed.",
		Priority: alert.PriorityCritical,
	},
	{
		Type:     "disaster",
		Title:    "Earthquake Preparedness",
		Message:  "Remember: Drop, Cover, and Hold On during earthquakes.",
		Priority: alert.PriorityInfo,
	},
}

// AlertSimulator keeps a development instance's alert feed alive by
// appending a canned alert whenever the log has been quiet for a while.
// Not started in production.
type AlertSimulator struct {
	alertStore        AlertStoreForSimulator
	subscriptionStore SubscriptionStoreForSimulator
	generateID        func() string
	now               func() time.Time
	pick              func(n int) int
}

// NewAlertSimulator creates a simulator wired to the given stores.
func NewAlertSimulator(alertStore AlertStoreForSimulator, subscriptionStore SubscriptionStoreForSimulator, generateID func() string, now func() time.Time) *AlertSimulator {
	return &AlertSimulator{
		alertStore:        alertStore,
		subscriptionStore: subscriptionStore,
		generateID:        generateID,
		now:               now,
		pick:              rand.Intn,
	}
}

// Tick fires one canned alert if the newest log entry is older than the
// quiet window. An empty log also fires. Returns true when an alert was
// appended.
// POST: At most one alert appended per call
func (s *AlertSimulator) Tick(ctx context.Context) (bool, error) {
	latest, err := s.alertStore.GetLatest(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}
	if err == nil && s.now().Sub(latest.CreatedAt) < simulatorQuietWindow {
		return false, nil
	}

	a := cannedAlerts[s.pick(len(cannedAlerts))]
	a.ID = s.generateID()
	a.CreatedAt = s.now()

	if err := s.alertStore.Append(ctx, a); err != nil {
		return false, err
	}
	if err := s.subscriptionStore.IncrementUnreadAll(ctx); err != nil {
		return false, err
	}

	slog.Info("alert_event", "event", "simulated_alert", "alert_id", a.ID, "type", a.Type, "priority", a.Priority)
	return true, nil
}

// StartAlertSimulator runs the simulator in a background goroutine until
// stopCh is closed. After each firing it re-arms with a random delay of two
// to four hours, matching the quiet window so the feed never floods.
// PRE: stopCh is provided to signal shutdown
// POST: Worker runs until stopCh is closed
func StartAlertSimulator(sim *AlertSimulator, stopCh <-chan struct{}) {
	go func() {
		delay := simulatorQuietWindow
		for {
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				if _, err := sim.Tick(ctx); err != nil {
					slog.Error("alert_event", "event", "simulator_tick_failed", "error", err.Error())
				}
				cancel()
				delay = simulatorQuietWindow + time.Duration(rand.Int63n(int64(simulatorQuietWindow)))
			case <-stopCh:
				timer.Stop()
				slog.Info("alert_event", "event", "simulator_stopped")
				return
			}
		}
	}()
}
