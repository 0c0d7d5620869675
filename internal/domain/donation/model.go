package donation

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// MinAmount is the minimum accepted donation in pesos.
const MinAmount = 100

// Campaign constants
const (
	CampaignRelief    = "relief"
	CampaignMedical   = "medical"
	CampaignCommunity = "community"
)

// ValidCampaigns contains all valid campaign values.
var ValidCampaigns = []string{CampaignRelief, CampaignMedical, CampaignCommunity}

// CampaignTargets maps each campaign to its fundraising goal in pesos.
var CampaignTargets = map[string]int{
	CampaignRelief:    500000,
	CampaignMedical:   300000,
	CampaignCommunity: 200000,
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Domain errors
var (
	ErrBelowMinimum    = errors.New("we require a minimum donation of ₱100")
	ErrInvalidCampaign = errors.New("campaign must be one of: relief, medical, community")
	ErrInvalidEmail    = errors.New("please enter a valid email address")
	ErrEmptyName       = errors.New("donor name cannot be empty")
)

// Donation is one ledger entry. The ledger is append-only; campaign totals
// are always derived by summing entries, never stored.
type Donation struct {
	ID            string
	Amount        int // pesos
	Campaign      string
	Name          string
	Email         string
	ReferenceCode string // user-visible "DON-..." code
	Date          time.Time
}

// Validate checks if the Donation has valid data.
// PRE: Donation struct is populated
// POST: Returns nil if valid, a display-ready error otherwise
func (d *Donation) Validate() error {
	if d.Amount < MinAmount {
		return ErrBelowMinimum
	}
	if !isValidCampaign(d.Campaign) {
		return ErrInvalidCampaign
	}
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if !emailPattern.MatchString(d.Email) {
		return ErrInvalidEmail
	}
	return nil
}

func isValidCampaign(c string) bool {
	for _, v := range ValidCampaigns {
		if v == c {
			return true
		}
	}
	return false
}
