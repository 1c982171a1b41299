package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/formanet/formanet/internal/onboarding/domain"
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

func (r *repository) Get(ctx context.Context, id snowflake.ID) (*domain.Candidate, error) {
	var candidate domain.Candidate
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&candidate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &candidate, nil
}

func (r *repository) StampCreatedOrg(ctx context.Context, candidateID, orgID snowflake.ID) (int64, error) {
	result := r.db.WithContext(ctx).Exec(
		`UPDATE candidates SET created_org_id = ?, updated_at = ? WHERE id = ? AND created_org_id IS NULL`,
		orgID, time.Now().UTC(), candidateID,
	)
	return result.RowsAffected, result.Error
}
