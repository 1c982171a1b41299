package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/formanet/formanet/internal/account/domain"
	"github.com/formanet/formanet/internal/account/password"
	auditdomain "github.com/formanet/formanet/internal/audit/domain"
	"github.com/formanet/formanet/internal/onboarding/domain"
	organizationdomain "github.com/formanet/formanet/internal/organization/domain"
	territorydomain "github.com/formanet/formanet/internal/territory/domain"
	"github.com/gosimple/slug"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	GenID         *snowflake.Node
	Repo          domain.Repository
	OrgRepo       organizationdomain.Repository
	AccountRepo   accountdomain.Repository
	TerritoryRepo territorydomain.Repository
	AuditSvc      auditdomain.Service
}

type service struct {
	db            *gorm.DB
	log           *zap.Logger
	genID         *snowflake.Node
	repo          domain.Repository
	orgRepo       organizationdomain.Repository
	accountRepo   accountdomain.Repository
	territoryRepo territorydomain.Repository
	auditSvc      auditdomain.Service
}

func NewService(p Params) domain.Service {
	return &service{
		db:            p.DB,
		log:           p.Log.Named("onboarding.service"),
		genID:         p.GenID,
		repo:          p.Repo,
		orgRepo:       p.OrgRepo,
		accountRepo:   p.AccountRepo,
		territoryRepo: p.TerritoryRepo,
		auditSvc:      p.AuditSvc,
	}
}

func (s *service) Onboard(ctx context.Context, req domain.OnboardRequest) (*organizationdomain.Organization, error) {
	if strings.TrimSpace(req.AdminPassword) == "" {
		return nil, domain.ErrInvalidPassword
	}
	city := strings.TrimSpace(req.City)
	zipCode := strings.TrimSpace(req.ZipCode)
	if city == "" || zipCode == "" {
		return nil, domain.ErrInvalidSite
	}

	candidate, err := s.repo.Get(ctx, req.CandidateID)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, domain.ErrCandidateNotFound
	}
	if candidate.CreatedOrgID != nil {
		return nil, domain.ErrAlreadyOnboarded
	}
	if candidate.Status != domain.CandidateStatusSigned {
		return nil, &domain.NotSignedError{Current: candidate.Status}
	}

	head, err := s.orgRepo.GetOrganization(ctx, candidate.OrgID)
	if err != nil {
		return nil, err
	}
	if head == nil {
		return nil, organizationdomain.ErrNotFound
	}
	if head.NetworkType != organizationdomain.NetworkTypeHeadOffice {
		return nil, organizationdomain.ErrNotHeadOffice
	}

	passwordHash, err := password.Hash(req.AdminPassword)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	org := organizationdomain.Organization{
		ID:          s.genID.Generate(),
		Name:        candidate.Company,
		Slug:        slug.Make(candidate.Company),
		NetworkType: organizationdomain.NetworkTypeFranchise,
		ParentID:    &head.ID,
		RoyaltyRate: inheritedRate(head.RoyaltyRate, organizationdomain.DefaultRoyaltyRate),
		LeadFeeRate: inheritedRate(head.LeadFeeRate, organizationdomain.DefaultLeadFeeRate),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if siret := strings.TrimSpace(req.Siret); siret != "" {
		org.Siret = &siret
	}

	targetZips := territorydomain.NormalizeZipCodes(candidate.TargetZipCodes)
	var seededTerritory *territorydomain.Territory

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orgRepo := s.orgRepo.WithTx(tx)
		accountRepo := s.accountRepo.WithTx(tx)

		if err := orgRepo.CreateOrganization(ctx, org); err != nil {
			return err
		}

		site := organizationdomain.Site{
			ID:             s.genID.Generate(),
			OrgID:          org.ID,
			Name:           candidate.Company,
			Address:        strings.TrimSpace(req.Address),
			City:           city,
			ZipCode:        zipCode,
			IsHeadquarters: true,
			CreatedAt:      now,
		}
		if err := orgRepo.CreateSite(ctx, site); err != nil {
			return err
		}

		admin, err := accountRepo.FindByEmail(ctx, candidate.Email)
		if err != nil {
			return err
		}
		if admin == nil {
			admin = &accountdomain.User{
				ID:           s.genID.Generate(),
				Email:        strings.ToLower(strings.TrimSpace(candidate.Email)),
				PasswordHash: &passwordHash,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := accountRepo.CreateUser(ctx, *admin); err != nil {
				return err
			}
		}

		membership := organizationdomain.Membership{
			ID:        s.genID.Generate(),
			OrgID:     org.ID,
			UserID:    admin.ID,
			Role:      organizationdomain.RoleAdmin,
			Scope:     organizationdomain.ScopeGlobal,
			CreatedAt: now,
		}
		if err := orgRepo.CreateMembership(ctx, membership); err != nil {
			return err
		}

		if len(targetZips) > 0 {
			territoryRepo := s.territoryRepo.WithTx(tx)
			held, err := territoryRepo.ListActiveExclusive(ctx, org.ID)
			if err != nil {
				return err
			}
			if conflicts := territorydomain.FindConflicts(held, targetZips); len(conflicts) > 0 {
				return &territorydomain.ConflictError{Conflicts: conflicts}
			}

			territory := territorydomain.Territory{
				ID:          s.genID.Generate(),
				OrgID:       org.ID,
				Name:        candidate.Company,
				ZipCodes:    datatypes.JSONSlice[string](targetZips),
				IsExclusive: true,
				IsActive:    true,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := territoryRepo.Insert(ctx, territory); err != nil {
				return err
			}
			seededTerritory = &territory
		}

		// The stamp doubles as the idempotency gate: if another transaction
		// already converted this candidate, zero rows match and everything
		// created above rolls back.
		affected, err := s.repo.WithTx(tx).StampCreatedOrg(ctx, candidate.ID, org.ID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.ErrAlreadyOnboarded
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	candidateRef := candidate.ID.String()
	auditMeta := map[string]any{
		"candidate_id": candidate.ID.String(),
		"company":      candidate.Company,
		"org_id":       org.ID.String(),
	}
	if seededTerritory != nil {
		auditMeta["territory_id"] = seededTerritory.ID.String()
	}
	if auditErr := s.auditSvc.AuditLog(ctx, &head.ID, string(auditdomain.ActorTypeSystem), nil,
		"candidate.onboarded", "candidate", &candidateRef, auditMeta); auditErr != nil {
		s.log.Warn("onboarding audit entry failed", zap.Error(auditErr))
	}

	s.log.Info("candidate onboarded",
		zap.String("candidate_id", candidate.ID.String()),
		zap.String("org_id", org.ID.String()),
	)
	return &org, nil
}

func inheritedRate(parentRate, fallback float64) float64 {
	if parentRate > 0 {
		return parentRate
	}
	return fallback
}
