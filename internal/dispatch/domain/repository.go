package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type OwnershipTransfer struct {
	DossierID        snowflake.ID
	TargetOrgID      snowflake.ID
	DispatchedFromID snowflake.ID
	DispatchedAt     time.Time
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Get(ctx context.Context, id snowflake.ID) (*Dossier, error)
	// TransferOwnership moves the dossier to the target organization and
	// stamps source/dispatch fields in one statement.
	TransferOwnership(ctx context.Context, transfer OwnershipTransfer) error
	// SetPostalCode persists the observed postal code without touching
	// ownership, so later batch runs can retry the dossier.
	SetPostalCode(ctx context.Context, id snowflake.ID, postalCode string) error
	ListPendingOrganic(ctx context.Context, headOfficeID snowflake.ID) ([]Dossier, error)
}
