package projections

import (
	"context"
	"fmt"
	"sort"
	"time"

	"lifeline/internal/domain/event"
)

// EventStoreForCalendar defines the store interface needed by the month
// calendar projection.
type EventStoreForCalendar interface {
	ListByDateRange(ctx context.Context, from, to string) ([]event.Event, error)
}

// GetMonthEventsQuery names the month to display.
type GetMonthEventsQuery struct {
	Year  int
	Month time.Month
	Type  string // "", "all", or one of the event types
}

// GetMonthEventsDeps holds dependencies for the month calendar projection.
type GetMonthEventsDeps struct {
	EventStore EventStoreForCalendar
}

// MonthEventView is one event row on the calendar, with availability
// derived for display.
type MonthEventView struct {
	Event     event.Event
	SpotsLeft int
	Full      bool
}

// GetMonthEventsResult carries the calendar view for one month.
type GetMonthEventsResult struct {
	Events    []MonthEventView
	EventDays map[string]bool // YYYY-MM-DD days that have at least one event
}

// QueryGetMonthEvents returns a month's events sorted by date then time,
// plus the set of days carrying events for the calendar grid's markers.
func QueryGetMonthEvents(ctx context.Context, query GetMonthEventsQuery, deps GetMonthEventsDeps) (GetMonthEventsResult, error) {
	first := time.Date(query.Year, query.Month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	events, err := deps.EventStore.ListByDateRange(ctx, first.Format("2006-01-02"), last.Format("2006-01-02"))
	if err != nil {
		return GetMonthEventsResult{}, err
	}

	result := GetMonthEventsResult{EventDays: make(map[string]bool)}
	for _, ev := range events {
		if query.Type != "" && query.Type != "all" && ev.Type != query.Type {
			continue
		}
		result.Events = append(result.Events, MonthEventView{
			Event:     ev,
			SpotsLeft: ev.SpotsLeft(),
			Full:      ev.IsFull(),
		})
		result.EventDays[ev.Date] = true
	}

	sort.SliceStable(result.Events, func(i, j int) bool {
		a, b := result.Events[i].Event, result.Events[j].Event
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return clockMinutes(a.Time) < clockMinutes(b.Time)
	})

	return result, nil
}

// clockMinutes converts a 12-hour display time like "1:00 PM" to minutes
// since midnight. Display times do not order lexicographically ("1:00 PM"
// sorts before "9:00 AM" as a string). Unparseable values sort last.
func clockMinutes(s string) int {
	t, err := time.Parse("3:04 PM", s)
	if err != nil {
		return 24 * 60
	}
	return t.Hour()*60 + t.Minute()
}

// EventStoreForDetail defines the store interface needed by the event
// detail projection.
type EventStoreForDetail interface {
	GetByID(ctx context.Context, id string) (event.Event, error)
}

// RegistrationStoreForDetail lists an event's registrations for the admin
// detail view.
type RegistrationStoreForDetail interface {
	ListByEvent(ctx context.Context, eventID string) ([]event.Registration, error)
}

// GetEventDetailDeps holds dependencies for the event detail projection.
type GetEventDetailDeps struct {
	EventStore        EventStoreForDetail
	RegistrationStore RegistrationStoreForDetail
}

// EventDetailResult carries one event with its registration roster.
type EventDetailResult struct {
	Event         event.Event
	SpotsLeft     int
	Full          bool
	Capacity      string // display form, e.g. "35/50"
	Registrations []event.Registration
}

// QueryGetEventDetail returns one event plus its registrations, newest
// signup first.
func QueryGetEventDetail(ctx context.Context, eventID string, deps GetEventDetailDeps) (EventDetailResult, error) {
	ev, err := deps.EventStore.GetByID(ctx, eventID)
	if err != nil {
		return EventDetailResult{}, err
	}
	regs, err := deps.RegistrationStore.ListByEvent(ctx, eventID)
	if err != nil {
		return EventDetailResult{}, err
	}

	sort.SliceStable(regs, func(i, j int) bool {
		return regs[i].RegisteredAt.After(regs[j].RegisteredAt)
	})

	return EventDetailResult{
		Event:         ev,
		SpotsLeft:     ev.SpotsLeft(),
		Full:          ev.IsFull(),
		Capacity:      fmt.Sprintf("%d/%d", ev.RegisteredParticipants, ev.MaxParticipants),
		Registrations: regs,
	}, nil
}
