package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/formanet/formanet/internal/organization/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) CreateOrganization(ctx context.Context, org domain.Organization) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO organizations (id, name, slug, network_type, parent_id, royalty_rate, lead_fee_rate, siret, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		org.ID,
		org.Name,
		org.Slug,
		org.NetworkType,
		org.ParentID,
		org.RoyaltyRate,
		org.LeadFeeRate,
		org.Siret,
		org.IsActive,
		org.CreatedAt,
		org.UpdatedAt,
	).Error
}

func (r *repository) GetOrganization(ctx context.Context, id snowflake.ID) (*domain.Organization, error) {
	var org domain.Organization
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *repository) ListActiveChildren(ctx context.Context, parentID snowflake.ID, types []domain.NetworkType) ([]domain.Organization, error) {
	var orgs []domain.Organization
	stmt := r.db.WithContext(ctx).
		Where("parent_id = ? AND is_active = ?", parentID, true)
	if len(types) > 0 {
		stmt = stmt.Where("network_type IN ?", types)
	}
	if err := stmt.Order("id asc").Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

func (r *repository) CreateSite(ctx context.Context, site domain.Site) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO sites (id, org_id, name, address, city, zip_code, is_headquarters, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		site.ID,
		site.OrgID,
		site.Name,
		site.Address,
		site.City,
		site.ZipCode,
		site.IsHeadquarters,
		site.CreatedAt,
	).Error
}

func (r *repository) CreateMembership(ctx context.Context, member domain.Membership) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO memberships (id, org_id, user_id, role, scope, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		member.ID,
		member.OrgID,
		member.UserID,
		member.Role,
		member.Scope,
		member.CreatedAt,
	).Error
}
