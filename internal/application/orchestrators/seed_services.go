package orchestrators

import (
	"context"
	"log/slog"

	"lifeline/internal/domain/service"
)

// ServiceStoreForSeed defines the store interface needed by SeedServices.
type ServiceStoreForSeed interface {
	Save(ctx context.Context, s service.Service) error
	Count(ctx context.Context) (int, error)
}

// SeedServicesDeps holds dependencies for SeedServices.
type SeedServicesDeps struct {
	ServiceStore ServiceStoreForSeed
	GenerateID   func() string
}

// catalogServices is the directory of programs Lifeline offers. The order
// here is the display order on the services page.
var catalogServices = []service.Service{
	{
		Title:        "Blood Donation Services",
		Category:     service.CategoryMedical,
		Description:  "Safe blood collection and distribution for emergency and medical needs",
		Details:      "Our blood service operates 6 days a week, providing safe and hygienic blood collection facilities. We screen all donors and ensure blood safety through rigorous testing.",
		Icon:         "🩸",
		Requirements: []string{"Age 16-65 years", "Minimum weight 50kg", "Good health condition", "No recent illnesses"},
		Locations:    []string{"Manila Headquarters", "Quezon City Chapter", "Makati Blood Center", "Cebu Chapter"},
		Contact:      "blood@lifeline.ph",
		Phone:        "(02) 8527-8385",
		Hours:        "Mon-Sat: 8:00 AM - 5:00 PM",
		Urgency:      service.UrgencyHigh,
	},
	{
		Title:        "Disaster Response",
		Category:     service.CategoryDisaster,
		Description:  "24/7 emergency response and disaster management",
		Details:      "Trained teams ready to respond to natural disasters, accidents, and emergencies. Includes search and rescue, emergency shelter, and relief distribution.",
		Icon:         "🚨",
		Requirements: []string{"Emergency training recommended", "Physical fitness required"},
		Locations:    []string{"All Chapters Nationwide"},
		Contact:      "emergency@lifeline.ph",
		Phone:        "143 (24/7 Hotline)",
		Hours:        "24/7 Emergency Service",
		Urgency:      service.UrgencyCritical,
	},
	{
		Title:        "First Aid Training",
		Category:     service.CategoryTraining,
		Description:  "Certified first aid and CPR training programs",
		Details:      "Comprehensive training programs for individuals, schools, and organizations. Certifications valid for 2 years with refresher courses available.",
		Icon:         "🩹",
		Requirements: []string{"Minimum age 16", "Registration required"},
		Locations:    []string{"National Training Center", "Regional Chapters"},
		Contact:      "training@lifeline.ph",
		Phone:        "(02) 8790-2300 loc. 123",
		Hours:        "Weekday sessions available",
		Urgency:      service.UrgencyMedium,
	},
	{
		Title:        "Community Health Programs",
		Category:     service.CategoryCommunity,
		Description:  "Health education and preventive care services",
		Details:      "Mobile health clinics, vaccination drives, and health education programs in underserved communities. Focus on preventive care and early detection.",
		Icon:         "🏥",
		Requirements: []string{"Community registration", "Health card may be required"},
		Locations:    []string{"Various Community Centers"},
		Contact:      "community@lifeline.ph",
		Phone:        "(02) 8790-2300 loc. 456",
		Hours:        "Schedule varies by location",
		Urgency:      service.UrgencyMedium,
	},
	{
		Title:        "Ambulance Services",
		Category:     service.CategoryMedical,
		Description:  "Emergency medical transport and pre-hospital care",
		Details:      "Fully equipped ambulances with trained EMTs available for emergency transport. Can be requested through our emergency hotline.",
		Icon:         "🚑",
		Requirements: []string{"Emergency situation", "Medical referral if non-emergency"},
		Locations:    []string{"Metro Manila", "Major Cities"},
		Contact:      "ambulance@lifeline.ph",
		Phone:        "(02) 8790-2300",
		Hours:        "24/7 Emergency Service",
		Urgency:      service.UrgencyCritical,
	},
	{
		Title:        "Youth Volunteer Programs",
		Category:     service.CategoryCommunity,
		Description:  "Engagement programs for young volunteers",
		Details:      "Special programs for youth aged 16-25 to develop leadership skills through community service and humanitarian work.",
		Icon:         "👨‍🎓",
		Requirements: []string{"Age 16-25", "Parental consent for minors"},
		Locations:    []string{"All Chapters"},
		Contact:      "youth@lifeline.ph",
		Phone:        "(02) 8790-2300 loc. 789",
		Hours:        "Weekends and school breaks",
		Urgency:      service.UrgencyLow,
	},
}

// ExecuteSeedServices loads the service catalog on first boot. Idempotent:
// an already populated directory is left alone.
func ExecuteSeedServices(ctx context.Context, deps SeedServicesDeps) error {
	count, err := deps.ServiceStore.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var seeded int
	for _, tpl := range catalogServices {
		svc := tpl
		svc.ID = deps.GenerateID()
		if err := svc.Validate(); err != nil {
			continue
		}
		if err := deps.ServiceStore.Save(ctx, svc); err != nil {
			return err
		}
		seeded++
	}

	if seeded > 0 {
		slog.Info("seed_event", "event", "services_seeded", "count", seeded)
	}
	return nil
}
