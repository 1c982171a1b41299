package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/formanet/formanet/internal/audit/domain"
	"github.com/formanet/formanet/internal/clock"
	"github.com/formanet/formanet/internal/dispatch/domain"
	"github.com/formanet/formanet/internal/metrics"
	organizationdomain "github.com/formanet/formanet/internal/organization/domain"
	territorydomain "github.com/formanet/formanet/internal/territory/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	Clock         clock.Clock
	Repo          domain.Repository
	OrgRepo       organizationdomain.Repository
	TerritoryRepo territorydomain.Repository
	AuditSvc      auditdomain.Service
}

type service struct {
	db            *gorm.DB
	log           *zap.Logger
	clock         clock.Clock
	repo          domain.Repository
	orgRepo       organizationdomain.Repository
	territoryRepo territorydomain.Repository
	auditSvc      auditdomain.Service
}

func NewService(p Params) domain.Service {
	return &service{
		db:            p.DB,
		log:           p.Log.Named("dispatch.service"),
		clock:         p.Clock,
		repo:          p.Repo,
		orgRepo:       p.OrgRepo,
		territoryRepo: p.TerritoryRepo,
		auditSvc:      p.AuditSvc,
	}
}

func (s *service) Dispatch(ctx context.Context, dossierID snowflake.ID, postalCode string) (*domain.Result, error) {
	postalCode = strings.TrimSpace(postalCode)
	if postalCode == "" {
		return nil, domain.ErrInvalidPostalCode
	}

	dossier, err := s.repo.Get(ctx, dossierID)
	if err != nil {
		return nil, err
	}
	if dossier == nil {
		return nil, domain.ErrDossierNotFound
	}
	if dossier.DispatchedAt != nil {
		return nil, domain.ErrAlreadyDispatched
	}

	owner, err := s.orgRepo.GetOrganization(ctx, dossier.OrgID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, organizationdomain.ErrNotFound
	}
	if owner.NetworkType != organizationdomain.NetworkTypeHeadOffice {
		return nil, domain.ErrNotHeadOffice
	}

	territories, err := s.territoryRepo.ListActiveForNetwork(ctx, owner.ID)
	if err != nil {
		return nil, err
	}

	// Territories arrive ordered by id ascending; the first match is the
	// oldest matching territory, which makes the tie-break deterministic.
	var match *territorydomain.TerritoryWithOrg
	for i := range territories {
		if territories[i].MatchesPostalCode(postalCode) {
			match = &territories[i]
			break
		}
	}

	if match == nil {
		if err := s.repo.SetPostalCode(ctx, dossier.ID, postalCode); err != nil {
			return nil, err
		}
		metrics.DispatchTotal.WithLabelValues(metrics.OutcomeUnmatched).Inc()
		return &domain.Result{
			Matched:       false,
			DossierID:     dossier.ID,
			TargetOrgID:   owner.ID,
			TargetOrgName: owner.Name,
		}, nil
	}

	now := s.clock.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).TransferOwnership(ctx, domain.OwnershipTransfer{
			DossierID:        dossier.ID,
			TargetOrgID:      match.OrgID,
			DispatchedFromID: owner.ID,
			DispatchedAt:     now,
		})
	})
	if err != nil {
		return nil, err
	}

	dossierRef := dossier.ID.String()
	if auditErr := s.auditSvc.AuditLog(ctx, &owner.ID, string(auditdomain.ActorTypeSystem), nil,
		"dossier.dispatched", "dossier", &dossierRef, map[string]any{
			"from_org_id":    owner.ID.String(),
			"to_org_id":      match.OrgID.String(),
			"territory_id":   match.ID.String(),
			"territory_name": match.Name,
			"postal_code":    postalCode,
		}); auditErr != nil {
		s.log.Warn("dispatch audit entry failed", zap.Error(auditErr))
	}

	metrics.DispatchTotal.WithLabelValues(metrics.OutcomeMatched).Inc()
	s.log.Info("dossier dispatched",
		zap.String("dossier_id", dossier.ID.String()),
		zap.String("target_org_id", match.OrgID.String()),
		zap.String("postal_code", postalCode),
	)

	territoryID := match.ID
	return &domain.Result{
		Matched:       true,
		DossierID:     dossier.ID,
		TargetOrgID:   match.OrgID,
		TargetOrgName: match.OrgName,
		TerritoryID:   &territoryID,
		TerritoryName: match.Name,
	}, nil
}

func (s *service) DispatchAllPending(ctx context.Context, headOfficeID snowflake.ID) (*domain.BatchResult, error) {
	head, err := s.orgRepo.GetOrganization(ctx, headOfficeID)
	if err != nil {
		return nil, err
	}
	if head == nil {
		return nil, organizationdomain.ErrNotFound
	}
	if head.NetworkType != organizationdomain.NetworkTypeHeadOffice {
		return nil, domain.ErrNotHeadOffice
	}

	pending, err := s.repo.ListPendingOrganic(ctx, headOfficeID)
	if err != nil {
		return nil, err
	}

	batch := &domain.BatchResult{}
	for _, dossier := range pending {
		result, err := s.Dispatch(ctx, dossier.ID, dossier.PostalCode)
		if err != nil {
			return nil, err
		}
		batch.Processed++
		if result.Matched {
			batch.Dispatched++
		} else {
			batch.Unmatched++
		}
		batch.Results = append(batch.Results, *result)
	}
	return batch, nil
}
