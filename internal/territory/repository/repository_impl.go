package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	organizationdomain "github.com/formanet/formanet/internal/organization/domain"
	"github.com/formanet/formanet/internal/territory/domain"
	"gorm.io/datatypes"
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

func (r *repository) Insert(ctx context.Context, territory domain.Territory) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO territories (id, org_id, name, zip_codes, is_exclusive, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		territory.ID,
		territory.OrgID,
		territory.Name,
		territory.ZipCodes,
		territory.IsExclusive,
		territory.IsActive,
		territory.CreatedAt,
		territory.UpdatedAt,
	).Error
}

func (r *repository) Get(ctx context.Context, id snowflake.ID) (*domain.Territory, error) {
	var territory domain.Territory
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&territory).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &territory, nil
}

func (r *repository) ListByOrganization(ctx context.Context, orgID snowflake.ID) ([]domain.Territory, error) {
	var territories []domain.Territory
	err := r.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("id asc").
		Find(&territories).Error
	if err != nil {
		return nil, err
	}
	return territories, nil
}

func (r *repository) ListActiveExclusive(ctx context.Context, excludeOrgID snowflake.ID) ([]domain.TerritoryWithOrg, error) {
	return r.scanWithOrg(ctx,
		`SELECT t.id, t.org_id, t.name, t.zip_codes, t.is_exclusive, t.is_active,
		        t.created_at, t.updated_at, o.name AS org_name
		 FROM territories t
		 JOIN organizations o ON o.id = t.org_id
		 WHERE t.is_active = ? AND t.is_exclusive = ? AND t.org_id <> ?
		 ORDER BY t.id ASC`,
		true, true, excludeOrgID,
	)
}

func (r *repository) ListActiveForNetwork(ctx context.Context, headOfficeID snowflake.ID) ([]domain.TerritoryWithOrg, error) {
	return r.scanWithOrg(ctx,
		`SELECT t.id, t.org_id, t.name, t.zip_codes, t.is_exclusive, t.is_active,
		        t.created_at, t.updated_at, o.name AS org_name
		 FROM territories t
		 JOIN organizations o ON o.id = t.org_id
		 WHERE t.is_active = ?
		   AND o.is_active = ?
		   AND o.parent_id = ?
		   AND o.network_type IN (?, ?)
		 ORDER BY t.id ASC`,
		true, true, headOfficeID,
		organizationdomain.NetworkTypeFranchise,
		organizationdomain.NetworkTypeSuccursale,
	)
}

func (r *repository) scanWithOrg(ctx context.Context, query string, args ...any) ([]domain.TerritoryWithOrg, error) {
	type row struct {
		ID          snowflake.ID
		OrgID       snowflake.ID
		Name        string
		ZipCodes    datatypes.JSONSlice[string]
		IsExclusive bool
		IsActive    bool
		CreatedAt   time.Time
		UpdatedAt   time.Time
		OrgName     string
	}

	var rows []row
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.TerritoryWithOrg, 0, len(rows))
	for _, item := range rows {
		out = append(out, domain.TerritoryWithOrg{
			Territory: domain.Territory{
				ID:          item.ID,
				OrgID:       item.OrgID,
				Name:        item.Name,
				ZipCodes:    item.ZipCodes,
				IsExclusive: item.IsExclusive,
				IsActive:    item.IsActive,
				CreatedAt:   item.CreatedAt,
				UpdatedAt:   item.UpdatedAt,
			},
			OrgName: item.OrgName,
		})
	}
	return out, nil
}

func (r *repository) Deactivate(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE territories SET is_active = ?, updated_at = ? WHERE id = ?`,
		false, time.Now().UTC(), id,
	).Error
}
