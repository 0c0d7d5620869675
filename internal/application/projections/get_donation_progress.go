package projections

import (
	"context"

	"lifeline/internal/domain/donation"
)

// DonationStoreForProgress defines the store interface needed by the
// campaign progress projection.
type DonationStoreForProgress interface {
	SumByCampaign(ctx context.Context, campaign string) (int, error)
	SumAll(ctx context.Context) (int, error)
	Count(ctx context.Context) (int, error)
}

// GetDonationProgressDeps holds dependencies for the progress projection.
type GetDonationProgressDeps struct {
	DonationStore DonationStoreForProgress
}

// CampaignProgress is one campaign's progress bar data.
type CampaignProgress struct {
	Campaign string
	Raised   int // pesos, summed from the ledger on every read
	Target   int
	Percent  int // 0-100, capped at 100 for display
}

// GetDonationProgressResult carries all campaign bars plus overall totals.
type GetDonationProgressResult struct {
	Campaigns   []CampaignProgress
	TotalRaised int
	Donations   int // ledger entry count
}

// QueryGetDonationProgress derives every campaign's progress from the
// ledger. Totals are never cached; adding an entry is immediately visible.
func QueryGetDonationProgress(ctx context.Context, deps GetDonationProgressDeps) (GetDonationProgressResult, error) {
	var result GetDonationProgressResult
	for _, campaign := range donation.ValidCampaigns {
		raised, err := deps.DonationStore.SumByCampaign(ctx, campaign)
		if err != nil {
			return GetDonationProgressResult{}, err
		}
		target := donation.CampaignTargets[campaign]
		percent := 0
		if target > 0 {
			percent = raised * 100 / target
			if percent > 100 {
				percent = 100
			}
		}
		result.Campaigns = append(result.Campaigns, CampaignProgress{
			Campaign: campaign,
			Raised:   raised,
			Target:   target,
			Percent:  percent,
		})
	}

	total, err := deps.DonationStore.SumAll(ctx)
	if err != nil {
		return GetDonationProgressResult{}, err
	}
	count, err := deps.DonationStore.Count(ctx)
	if err != nil {
		return GetDonationProgressResult{}, err
	}
	result.TotalRaised = total
	result.Donations = count
	return result, nil
}
