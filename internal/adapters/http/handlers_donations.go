package web

import (
	"net/http"

	"lifeline/internal/adapters/http/middleware"
	"lifeline/internal/application/orchestrators"
	"lifeline/internal/application/projections"
)

// handleDonate handles POST /api/donations.
func handleDonate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var input struct {
		Amount   int    `json:"amount"`
		Campaign string `json:"campaign"`
		Name     string `json:"name"`
		Email    string `json:"email"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	result, err := orchestrators.ExecuteRecordDonation(r.Context(), orchestrators.RecordDonationInput{
		Amount:   input.Amount,
		Campaign: input.Campaign,
		Name:     input.Name,
		Email:    input.Email,
	}, orchestrators.RecordDonationDeps{
		DonationStore: stores.DonationStore,
		EmailSender:   emailSender,
		EmailFrom:     emailFromAddress,
		GenerateID:    generateID,
		Now:           timeNow,
	})
	if err != nil {
		domainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"reference_code": result.Donation.ReferenceCode,
		"campaign":       result.Donation.Campaign,
		"campaign_total": result.CampaignTotal,
		"target":         result.Target,
	})
}

// handleDonationProgress handles GET /api/donations/progress. Public: the
// progress bars render on the donate page before sign-in.
func handleDonationProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	result, err := projections.QueryGetDonationProgress(r.Context(), projections.GetDonationProgressDeps{
		DonationStore: stores.DonationStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	campaigns := make([]map[string]any, 0, len(result.Campaigns))
	for _, c := range result.Campaigns {
		campaigns = append(campaigns, map[string]any{
			"campaign": c.Campaign,
			"raised":   c.Raised,
			"target":   c.Target,
			"percent":  c.Percent,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"campaigns":    campaigns,
		"total_raised": result.TotalRaised,
		"donations":    result.Donations,
	})
}

// handleMyDonations handles GET /api/donations/mine for the signed-in donor.
func handleMyDonations(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	donations, err := stores.DonationStore.ListByEmail(r.Context(), sess.Email)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"donations": donations})
}
