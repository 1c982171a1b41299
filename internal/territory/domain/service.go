package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// CheckConflicts scans every active exclusive territory owned by another
	// organization and reports overlapping prefixes. No side effects.
	CheckConflicts(ctx context.Context, zipCodes []string, excludeOrgID snowflake.ID) ([]Conflict, error)
	Create(ctx context.Context, req CreateTerritoryRequest) (*Territory, error)
	ListByOrganization(ctx context.Context, orgID snowflake.ID) ([]Territory, error)
	Deactivate(ctx context.Context, territoryID snowflake.ID) error
}

type CreateTerritoryRequest struct {
	OrgID       snowflake.ID
	Name        string
	ZipCodes    []string
	IsExclusive bool
}

// Conflict names one organization whose exclusive territory overlaps the
// candidate prefixes.
type Conflict struct {
	OrganizationID      snowflake.ID `json:"organization_id"`
	OrganizationName    string       `json:"organization_name"`
	TerritoryID         snowflake.ID `json:"territory_id"`
	TerritoryName       string       `json:"territory_name"`
	OverlappingZipCodes []string     `json:"overlapping_zip_codes"`
}

// ConflictError carries the full conflict list so callers can surface the
// colliding tenant names and prefixes, not just "conflict".
type ConflictError struct {
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	parts := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		parts = append(parts, fmt.Sprintf("%s (%s)", c.OrganizationName, strings.Join(c.OverlappingZipCodes, ", ")))
	}
	return "territory conflicts with: " + strings.Join(parts, "; ")
}

var (
	ErrInvalidName     = errors.New("invalid_territory_name")
	ErrInvalidZipCodes = errors.New("invalid_zip_codes")
	ErrNotFound        = errors.New("territory_not_found")
)

// FindConflicts reports every organization among existing whose prefixes
// overlap the candidate set, grouped per organization in scan order.
func FindConflicts(existing []TerritoryWithOrg, candidate []string) []Conflict {
	byOrg := map[snowflake.ID]*Conflict{}
	var order []snowflake.ID
	for _, territory := range existing {
		overlap := OverlappingPrefixes(territory.ZipCodes, candidate)
		if len(overlap) == 0 {
			continue
		}
		conflict, ok := byOrg[territory.OrgID]
		if !ok {
			conflict = &Conflict{
				OrganizationID:   territory.OrgID,
				OrganizationName: territory.OrgName,
				TerritoryID:      territory.ID,
				TerritoryName:    territory.Name,
			}
			byOrg[territory.OrgID] = conflict
			order = append(order, territory.OrgID)
		}
		conflict.OverlappingZipCodes = mergePrefixes(conflict.OverlappingZipCodes, overlap)
	}

	out := make([]Conflict, 0, len(order))
	for _, orgID := range order {
		out = append(out, *byOrg[orgID])
	}
	return out
}

func mergePrefixes(existing, more []string) []string {
	seen := map[string]bool{}
	for _, p := range existing {
		seen[p] = true
	}
	for _, p := range more {
		if !seen[p] {
			seen[p] = true
			existing = append(existing, p)
		}
	}
	return existing
}
