package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"lifeline/internal/domain/event"
)

// EventStoreForSeed defines the store interface needed by SeedEvents.
type EventStoreForSeed interface {
	Save(ctx context.Context, e event.Event) error
	Count(ctx context.Context) (int, error)
}

// SeedEventsDeps holds dependencies for SeedEvents.
type SeedEventsDeps struct {
	EventStore EventStoreForSeed
	GenerateID func() string
	Now        func() time.Time
}

// seedEventTypes cycles the calendar through the four event categories.
var seedEventTypes = []string{event.TypeBlood, event.TypeTraining, event.TypeFundraiser, event.TypeCommunity}

// seedEventCapacities pairs with seedEventTypes by position.
var seedEventCapacities = []int{50, 100, 30, 200}

var seedEventTitles = map[string][]string{
	event.TypeBlood:      {"Blood Donation Drive", "Emergency Blood Collection", "Community Blood Donation"},
	event.TypeTraining:   {"First Aid Training", "Disaster Response Workshop", "CPR Certification"},
	event.TypeFundraiser: {"Charity Gala Dinner", "Fun Run for a Cause", "Online Fundraising Campaign"},
	event.TypeCommunity:  {"Community Health Fair", "Medical Mission", "Youth Volunteer Day"},
}

var seedEventDescriptions = map[string]string{
	event.TypeBlood:      "Join us in saving lives. One donation can save up to three lives. Walk-ins welcome, but registration is encouraged.",
	event.TypeTraining:   "Learn life-saving skills from certified instructors. Certificates will be issued upon completion.",
	event.TypeFundraiser: "Help us raise funds for our humanitarian programs. Every contribution makes a difference.",
	event.TypeCommunity:  "Serving our community with free health services and volunteer opportunities for all ages.",
}

var seedEventTimes = []string{"9:00 AM", "1:00 PM", "10:00 AM", "2:00 PM", "6:00 PM"}

var seedEventLocations = []string{
	"SM Mall of Asia, Pasay City",
	"Lifeline National Headquarters",
	"Quezon City Memorial Circle",
	"Ayala Center Cebu",
	"Davao City Convention Center",
}

// ExecuteSeedEvents populates the calendar with ten upcoming events, one
// every three days starting tomorrow. It is idempotent: once any event
// exists the seed is a no-op, so restarts never duplicate the calendar.
func ExecuteSeedEvents(ctx context.Context, deps SeedEventsDeps) error {
	count, err := deps.EventStore.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := deps.Now()
	var seeded int
	for i := 0; i < 10; i++ {
		eventType := seedEventTypes[i%len(seedEventTypes)]
		titles := seedEventTitles[eventType]

		ev := event.Event{
			ID:              deps.GenerateID(),
			Title:           titles[(i/len(seedEventTypes))%len(titles)],
			Type:            eventType,
			Date:            now.AddDate(0, 0, (i+1)*3).Format("2006-01-02"),
			Time:            seedEventTimes[i%len(seedEventTimes)],
			Location:        seedEventLocations[i%len(seedEventLocations)],
			Description:     seedEventDescriptions[eventType],
			MaxParticipants: seedEventCapacities[i%len(seedEventCapacities)],
			ContactPerson:   "Lifeline Coordinator",
			ContactEmail:    "events@lifeline.ph",
			Requirements:    event.TypeRequirements[eventType],
			Status:          event.StatusActive,
			CreatedBy:       "system",
			CreatedAt:       now,
		}
		if err := ev.Validate(); err != nil {
			continue
		}
		if err := deps.EventStore.Save(ctx, ev); err != nil {
			return err
		}
		seeded++
	}

	if seeded > 0 {
		slog.Info("seed_event", "event", "events_seeded", "count", seeded)
	}
	return nil
}
