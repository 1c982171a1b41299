package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrganization(ctx context.Context, org Organization) error
	GetOrganization(ctx context.Context, id snowflake.ID) (*Organization, error)
	ListActiveChildren(ctx context.Context, parentID snowflake.ID, types []NetworkType) ([]Organization, error)
	CreateSite(ctx context.Context, site Site) error
	CreateMembership(ctx context.Context, member Membership) error
}
