package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/formanet/formanet/internal/audit/domain"
	organizationdomain "github.com/formanet/formanet/internal/organization/domain"
	"github.com/formanet/formanet/internal/territory/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	OrgRepo  organizationdomain.Repository
	AuditSvc auditdomain.Service
}

type service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	orgRepo  organizationdomain.Repository
	auditSvc auditdomain.Service
}

func NewService(p Params) domain.Service {
	return &service{
		db:       p.DB,
		log:      p.Log.Named("territory.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		orgRepo:  p.OrgRepo,
		auditSvc: p.AuditSvc,
	}
}

func (s *service) CheckConflicts(ctx context.Context, zipCodes []string, excludeOrgID snowflake.ID) ([]domain.Conflict, error) {
	candidate := domain.NormalizeZipCodes(zipCodes)
	if len(candidate) == 0 {
		return nil, domain.ErrInvalidZipCodes
	}

	existing, err := s.repo.ListActiveExclusive(ctx, excludeOrgID)
	if err != nil {
		return nil, err
	}

	return domain.FindConflicts(existing, candidate), nil
}

// Create checks conflicts and then inserts. The check and the insert are two
// separate store round-trips, not one transaction: two concurrent exclusive
// creations with colliding prefixes can both pass the check. See DESIGN.md.
func (s *service) Create(ctx context.Context, req domain.CreateTerritoryRequest) (*domain.Territory, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	zipCodes := domain.NormalizeZipCodes(req.ZipCodes)
	if len(zipCodes) == 0 {
		return nil, domain.ErrInvalidZipCodes
	}

	org, err := s.orgRepo.GetOrganization(ctx, req.OrgID)
	if err != nil {
		return nil, err
	}
	if org == nil || !org.IsActive {
		return nil, organizationdomain.ErrNotFound
	}

	if req.IsExclusive {
		conflicts, err := s.CheckConflicts(ctx, zipCodes, req.OrgID)
		if err != nil {
			return nil, err
		}
		if len(conflicts) > 0 {
			return nil, &domain.ConflictError{Conflicts: conflicts}
		}
	}

	now := time.Now().UTC()
	territory := domain.Territory{
		ID:          s.genID.Generate(),
		OrgID:       req.OrgID,
		Name:        name,
		ZipCodes:    datatypes.JSONSlice[string](zipCodes),
		IsExclusive: req.IsExclusive,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, territory); err != nil {
		return nil, err
	}

	territoryID := territory.ID.String()
	if err := s.auditSvc.AuditLog(ctx, &req.OrgID, string(auditdomain.ActorTypeSystem), nil,
		"territory.created", "territory", &territoryID, map[string]any{
			"zip_codes":    zipCodes,
			"is_exclusive": req.IsExclusive,
		}); err != nil {
		s.log.Warn("territory audit entry failed", zap.Error(err))
	}

	return &territory, nil
}

func (s *service) ListByOrganization(ctx context.Context, orgID snowflake.ID) ([]domain.Territory, error) {
	return s.repo.ListByOrganization(ctx, orgID)
}

func (s *service) Deactivate(ctx context.Context, territoryID snowflake.ID) error {
	territory, err := s.repo.Get(ctx, territoryID)
	if err != nil {
		return err
	}
	if territory == nil {
		return domain.ErrNotFound
	}
	return s.repo.Deactivate(ctx, territoryID)
}
