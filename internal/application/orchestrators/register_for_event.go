package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lifeline/internal/adapters/email"
	"lifeline/internal/domain/event"
)

// EventStoreForRegistration defines the store interface needed by
// RegisterForEvent.
type EventStoreForRegistration interface {
	GetByID(ctx context.Context, id string) (event.Event, error)
	SaveWithRegistration(ctx context.Context, e event.Event, r event.Registration) error
}

// RegisterForEventInput carries the registration form fields.
type RegisterForEventInput struct {
	EventID        string
	Name           string
	Email          string
	Phone          string
	AdditionalInfo string
}

// RegisterForEventDeps holds dependencies for RegisterForEvent.
type RegisterForEventDeps struct {
	EventStore  EventStoreForRegistration
	EmailSender email.Sender
	EmailFrom   string
	GenerateID  func() string
	Now         func() time.Time
}

// ExecuteRegisterForEvent signs an attendee up for an event. Capacity is
// enforced before anything is written: a full event rejects the registration
// and the stored count never moves. On success the count increments by
// exactly one and both rows persist in a single transaction, then a
// confirmation email goes out through the sender seam.
// PRE: input fields are as typed by the registrant
// POST: Count incremented by one and registration stored, or nothing changed
func ExecuteRegisterForEvent(ctx context.Context, input RegisterForEventInput, deps RegisterForEventDeps) (event.Registration, error) {
	ev, err := deps.EventStore.GetByID(ctx, input.EventID)
	if err != nil {
		return event.Registration{}, err
	}
	if ev.Status != event.StatusActive {
		return event.Registration{}, event.ErrEventNotActive
	}

	reg := event.Registration{
		ID:             deps.GenerateID(),
		EventID:        ev.ID,
		Name:           input.Name,
		Email:          input.Email,
		Phone:          input.Phone,
		AdditionalInfo: input.AdditionalInfo,
		RegisteredAt:   deps.Now(),
	}
	reg.ReferenceCode = referenceCode("REG", reg.ID)
	if err := reg.Validate(); err != nil {
		return event.Registration{}, err
	}

	if err := ev.AddRegistrant(); err != nil {
		slog.Info("event_event", "event", "registration_rejected", "event_id", ev.ID, "reason", "full")
		return event.Registration{}, err
	}

	if err := deps.EventStore.SaveWithRegistration(ctx, ev, reg); err != nil {
		return event.Registration{}, err
	}

	slog.Info("event_event", "event", "registration_accepted",
		"event_id", ev.ID, "reference", reg.ReferenceCode, "registered", ev.RegisteredParticipants, "max", ev.MaxParticipants)

	sendRegistrationConfirmation(ctx, deps, ev, reg)
	return reg, nil
}

// sendRegistrationConfirmation emails the registrant. Delivery failure is
// logged, never surfaced: the registration already committed.
func sendRegistrationConfirmation(ctx context.Context, deps RegisterForEventDeps, ev event.Event, reg event.Registration) {
	if deps.EmailSender == nil {
		return
	}
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>You are registered for <strong>%s</strong> on %s at %s.</p><p>Your reference code is <strong>%s</strong>. Please bring a valid ID.</p><p>Lifeline Philippines</p>",
		reg.Name, ev.Title, ev.Date, ev.Location, reg.ReferenceCode,
	)
	_, err := deps.EmailSender.Send(ctx, email.SendRequest{
		To:      []string{reg.Email},
		From:    deps.EmailFrom,
		Subject: "Registration confirmed: " + ev.Title,
		HTML:    html,
	})
	if err != nil {
		slog.Error("event_event", "event", "confirmation_email_failed", "reference", reg.ReferenceCode, "error", err)
	}
}
