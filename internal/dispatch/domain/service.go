package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Dispatch routes a dossier from its head office to the first matching
	// active member territory. A dossier is dispatched at most once.
	Dispatch(ctx context.Context, dossierID snowflake.ID, postalCode string) (*Result, error)
	// DispatchAllPending runs Dispatch sequentially over every organic,
	// not-yet-dispatched dossier of the head office that carries a postal
	// code. Sequential on purpose: audit ordering stays deterministic.
	DispatchAllPending(ctx context.Context, headOfficeID snowflake.ID) (*BatchResult, error)
}

type Result struct {
	Matched       bool          `json:"matched"`
	DossierID     snowflake.ID  `json:"dossier_id"`
	TargetOrgID   snowflake.ID  `json:"target_org_id"`
	TargetOrgName string        `json:"target_org_name"`
	TerritoryID   *snowflake.ID `json:"territory_id,omitempty"`
	TerritoryName string        `json:"territory_name,omitempty"`
}

type BatchResult struct {
	Processed  int      `json:"processed"`
	Dispatched int      `json:"dispatched"`
	Unmatched  int      `json:"unmatched"`
	Results    []Result `json:"results"`
}

var (
	ErrDossierNotFound   = errors.New("dossier_not_found")
	ErrInvalidPostalCode = errors.New("invalid_postal_code")
	ErrNotHeadOffice     = errors.New("dispatch_requires_head_office")
	ErrAlreadyDispatched = errors.New("dossier_already_dispatched")
)
