package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/formanet/formanet/internal/royalty/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) ListSignedForPeriod(ctx context.Context, orgID snowflake.ID, from, to time.Time) ([]domain.SignedContract, error) {
	var rows []domain.SignedContract
	err := r.db.WithContext(ctx).Raw(
		`SELECT d.source AS source, c.amount_ht AS amount_ht
		 FROM contracts c
		 JOIN dossiers d ON d.id = c.dossier_id
		 WHERE d.org_id = ?
		   AND c.status IN (?, ?)
		   AND c.signed_at >= ?
		   AND c.signed_at < ?
		 ORDER BY c.id ASC`,
		orgID,
		domain.ContractStatusSigned, domain.ContractStatusActive,
		from, to,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
