package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lifeline/internal/adapters/email"
	"lifeline/internal/domain/donation"
)

// DonationStoreForRecord defines the store interface needed by
// RecordDonation.
type DonationStoreForRecord interface {
	Append(ctx context.Context, d donation.Donation) error
	SumByCampaign(ctx context.Context, campaign string) (int, error)
}

// RecordDonationInput carries the donation form fields.
type RecordDonationInput struct {
	Amount   int // pesos
	Campaign string
	Name     string
	Email    string
}

// RecordDonationDeps holds dependencies for RecordDonation.
type RecordDonationDeps struct {
	DonationStore DonationStoreForRecord
	EmailSender   email.Sender
	EmailFrom     string
	GenerateID    func() string
	Now           func() time.Time
}

// RecordDonationResult carries the stored entry plus the campaign's running
// total after this donation.
type RecordDonationResult struct {
	Donation      donation.Donation
	CampaignTotal int
	Target        int
}

// ExecuteRecordDonation appends one entry to the donation ledger and reports
// the campaign's new total. The ledger is append-only, so the total is
// re-summed from the store rather than tracked in a counter.
// PRE: input fields are as typed by the donor
// POST: Exactly one new ledger entry, or the ledger is unchanged
func ExecuteRecordDonation(ctx context.Context, input RecordDonationInput, deps RecordDonationDeps) (RecordDonationResult, error) {
	d := donation.Donation{
		ID:       deps.GenerateID(),
		Amount:   input.Amount,
		Campaign: input.Campaign,
		Name:     input.Name,
		Email:    input.Email,
		Date:     deps.Now(),
	}
	d.ReferenceCode = referenceCode("DON", d.ID)
	if err := d.Validate(); err != nil {
		return RecordDonationResult{}, err
	}

	if err := deps.DonationStore.Append(ctx, d); err != nil {
		return RecordDonationResult{}, err
	}

	total, err := deps.DonationStore.SumByCampaign(ctx, d.Campaign)
	if err != nil {
		return RecordDonationResult{}, err
	}

	slog.Info("donation_event", "event", "donation_recorded",
		"reference", d.ReferenceCode, "campaign", d.Campaign, "amount", d.Amount, "campaign_total", total)

	sendDonationReceipt(ctx, deps, d)
	return RecordDonationResult{
		Donation:      d,
		CampaignTotal: total,
		Target:        donation.CampaignTargets[d.Campaign],
	}, nil
}

// sendDonationReceipt emails a receipt. Delivery failure is logged, never
// surfaced: the ledger entry already committed.
func sendDonationReceipt(ctx context.Context, deps RecordDonationDeps, d donation.Donation) {
	if deps.EmailSender == nil {
		return
	}
	html := fmt.Sprintf(
		"<p>Dear %s,</p><p>Thank you for your donation of <strong>₱%d</strong> to our %s campaign.</p><p>Your reference code is <strong>%s</strong>. Keep it for your records.</p><p>Lifeline Philippines</p>",
		d.Name, d.Amount, d.Campaign, d.ReferenceCode,
	)
	_, err := deps.EmailSender.Send(ctx, email.SendRequest{
		To:      []string{d.Email},
		From:    deps.EmailFrom,
		Subject: "Thank you for your donation",
		HTML:    html,
	})
	if err != nil {
		slog.Error("donation_event", "event", "receipt_email_failed", "reference", d.ReferenceCode, "error", err)
	}
}
