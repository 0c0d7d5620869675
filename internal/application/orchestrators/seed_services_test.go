package orchestrators

import (
	"context"
	"testing"

	"lifeline/internal/domain/service"
)

type memServiceStore struct {
	services []service.Service
}

func (s *memServiceStore) Save(_ context.Context, svc service.Service) error {
	s.services = append(s.services, svc)
	return nil
}

func (s *memServiceStore) Count(_ context.Context) (int, error) {
	return len(s.services), nil
}

// TestSeedServices_LoadsCatalogOnce verifies the six-program catalog loads
// on an empty directory and never duplicates.
func TestSeedServices_LoadsCatalogOnce(t *testing.T) {
	store := &memServiceStore{}
	deps := SeedServicesDeps{ServiceStore: store, GenerateID: newSeqID()}

	if err := ExecuteSeedServices(context.Background(), deps); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if len(store.services) != 6 {
		t.Fatalf("expected 6 services, got %d", len(store.services))
	}

	titles := map[string]bool{}
	for _, svc := range store.services {
		titles[svc.Title] = true
		if svc.ID == "" {
			t.Errorf("service %s missing id", svc.Title)
		}
		if err := svc.Validate(); err != nil {
			t.Errorf("service %s invalid: %v", svc.Title, err)
		}
	}
	for _, want := range []string{
		"Blood Donation Services",
		"Disaster Response",
		"First Aid Training",
		"Community Health Programs",
		"Ambulance Services",
		"Youth Volunteer Programs",
	} {
		if !titles[want] {
			t.Errorf("missing catalog entry %s", want)
		}
	}

	if err := ExecuteSeedServices(context.Background(), deps); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if len(store.services) != 6 {
		t.Errorf("expected 6 services after double seed, got %d", len(store.services))
	}
}

// TestSeedServices_UrgencySpread verifies the catalog keeps its mix of
// urgency levels so the directory's filters have content.
func TestSeedServices_UrgencySpread(t *testing.T) {
	store := &memServiceStore{}
	deps := SeedServicesDeps{ServiceStore: store, GenerateID: newSeqID()}

	if err := ExecuteSeedServices(context.Background(), deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	counts := map[string]int{}
	for _, svc := range store.services {
		counts[svc.Urgency]++
	}
	if counts[service.UrgencyCritical] != 2 {
		t.Errorf("expected 2 critical services, got %d", counts[service.UrgencyCritical])
	}
	if counts[service.UrgencyLow] != 1 {
		t.Errorf("expected 1 low urgency service, got %d", counts[service.UrgencyLow])
	}
}
