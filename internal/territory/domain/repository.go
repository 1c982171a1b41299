package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// TerritoryWithOrg joins a territory with its owning organization for
// conflict reporting and dispatch matching.
type TerritoryWithOrg struct {
	Territory
	OrgName string
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Insert(ctx context.Context, territory Territory) error
	Get(ctx context.Context, id snowflake.ID) (*Territory, error)
	ListByOrganization(ctx context.Context, orgID snowflake.ID) ([]Territory, error)
	// ListActiveExclusive returns every active exclusive territory not owned
	// by excludeOrgID, with the owner's name.
	ListActiveExclusive(ctx context.Context, excludeOrgID snowflake.ID) ([]TerritoryWithOrg, error)
	// ListActiveForNetwork returns active territories of the active
	// FRANCHISE/SUCCURSALE children of the head office, ordered by territory
	// id ascending.
	ListActiveForNetwork(ctx context.Context, headOfficeID snowflake.ID) ([]TerritoryWithOrg, error)
	Deactivate(ctx context.Context, id snowflake.ID) error
}
