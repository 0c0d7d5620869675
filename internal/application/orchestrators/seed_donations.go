package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"lifeline/internal/domain/donation"
)

// DonationStoreForSeed defines the store interface needed by SeedDonations.
type DonationStoreForSeed interface {
	Append(ctx context.Context, d donation.Donation) error
	Count(ctx context.Context) (int, error)
}

// SeedDonationsDeps holds dependencies for SeedDonations.
type SeedDonationsDeps struct {
	DonationStore DonationStoreForSeed
	GenerateID    func() string
	Now           func() time.Time
}

// campaignBaselines is the amount already raised per campaign before this
// system went live, recorded as one anonymous ledger entry each so progress
// bars start from the historical totals.
var campaignBaselines = map[string]int{
	donation.CampaignRelief:    325000,
	donation.CampaignMedical:   210000,
	donation.CampaignCommunity: 125000,
}

// ExecuteSeedDonations writes the baseline ledger entries on first boot.
// Idempotent: a non-empty ledger is left alone.
func ExecuteSeedDonations(ctx context.Context, deps SeedDonationsDeps) error {
	count, err := deps.DonationStore.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := deps.Now()
	var seeded int
	for _, campaign := range donation.ValidCampaigns {
		d := donation.Donation{
			ID:       deps.GenerateID(),
			Amount:   campaignBaselines[campaign],
			Campaign: campaign,
			Name:     "Prior campaign donors",
			Email:    "donations@lifeline.ph",
			Date:     now,
		}
		d.ReferenceCode = referenceCode("DON", d.ID)
		if err := deps.DonationStore.Append(ctx, d); err != nil {
			return err
		}
		seeded++
	}

	if seeded > 0 {
		slog.Info("seed_event", "event", "donation_baselines_seeded", "count", seeded)
	}
	return nil
}
