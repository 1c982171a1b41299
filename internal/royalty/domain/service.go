package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// ComputeRoyalties sums the member's signed contracts for the month
	// ("YYYY-MM"), split by the dossier source, and applies the member's
	// royalty and lead-fee rates. Read-only.
	ComputeRoyalties(ctx context.Context, orgID snowflake.ID, month string) (*Breakdown, error)
	// ComputeNetworkSummary runs ComputeRoyalties for every active member of
	// the head office. Any per-member failure aborts the whole summary.
	ComputeNetworkSummary(ctx context.Context, headOfficeID snowflake.ID, month string) (*NetworkSummary, error)
}

// SignedContract is the slim projection the calculator works on: the amount
// and the source of the dossier the contract is attached to.
type SignedContract struct {
	Source   string
	AmountHT float64
}

type Repository interface {
	// ListSignedForPeriod returns every signed or active contract whose
	// dossier belongs to orgID with a signature date in [from, to).
	ListSignedForPeriod(ctx context.Context, orgID snowflake.ID, from, to time.Time) ([]SignedContract, error)
}

var ErrInvalidMonth = errors.New("invalid_month")
