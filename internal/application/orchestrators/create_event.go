package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"lifeline/internal/domain/event"
)

// EventStoreForCreate defines the store interface needed by CreateEvent.
type EventStoreForCreate interface {
	Save(ctx context.Context, e event.Event) error
}

// CreateEventInput carries the admin event form fields.
type CreateEventInput struct {
	Title           string
	Type            string
	Date            string // YYYY-MM-DD
	Time            string
	Location        string
	Description     string
	MaxParticipants int
	ContactPerson   string
	ContactEmail    string
	Requirements    []string
	CreatedBy       string
}

// CreateEventDeps holds dependencies for CreateEvent.
type CreateEventDeps struct {
	EventStore EventStoreForCreate
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteCreateEvent adds a new event to the calendar. The registered count
// starts at zero and an empty requirements list falls back to the defaults
// for the event type.
// PRE: input fields are as typed by the admin
// POST: Event exists with zero registrants, or nothing is written
func ExecuteCreateEvent(ctx context.Context, input CreateEventInput, deps CreateEventDeps) (event.Event, error) {
	requirements := input.Requirements
	if len(requirements) == 0 {
		requirements = event.TypeRequirements[input.Type]
	}

	ev := event.Event{
		ID:              deps.GenerateID(),
		Title:           input.Title,
		Type:            input.Type,
		Date:            input.Date,
		Time:            input.Time,
		Location:        input.Location,
		Description:     input.Description,
		MaxParticipants: input.MaxParticipants,
		ContactPerson:   input.ContactPerson,
		ContactEmail:    input.ContactEmail,
		Requirements:    requirements,
		Status:          event.StatusActive,
		CreatedBy:       input.CreatedBy,
		CreatedAt:       deps.Now(),
	}
	if err := ev.Validate(); err != nil {
		return event.Event{}, err
	}
	if err := deps.EventStore.Save(ctx, ev); err != nil {
		return event.Event{}, err
	}

	slog.Info("event_event", "event", "event_created", "event_id", ev.ID, "type", ev.Type, "date", ev.Date)
	return ev, nil
}
