package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/formanet/formanet/internal/dispatch/domain"
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

func (r *repository) Get(ctx context.Context, id snowflake.ID) (*domain.Dossier, error) {
	var dossier domain.Dossier
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&dossier).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &dossier, nil
}

func (r *repository) TransferOwnership(ctx context.Context, transfer domain.OwnershipTransfer) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE dossiers
		 SET org_id = ?, source = ?, dispatched_at = ?, dispatched_from_id = ?, updated_at = ?
		 WHERE id = ?`,
		transfer.TargetOrgID,
		domain.SourceNetworkDispatch,
		transfer.DispatchedAt,
		transfer.DispatchedFromID,
		transfer.DispatchedAt,
		transfer.DossierID,
	).Error
}

func (r *repository) SetPostalCode(ctx context.Context, id snowflake.ID, postalCode string) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE dossiers SET postal_code = ?, updated_at = ? WHERE id = ?`,
		postalCode, time.Now().UTC(), id,
	).Error
}

func (r *repository) ListPendingOrganic(ctx context.Context, headOfficeID snowflake.ID) ([]domain.Dossier, error) {
	var dossiers []domain.Dossier
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND source = ? AND dispatched_at IS NULL AND postal_code IS NOT NULL AND postal_code <> ''",
			headOfficeID, domain.SourceOrganic).
		Order("id asc").
		Find(&dossiers).Error
	if err != nil {
		return nil, err
	}
	return dossiers, nil
}
