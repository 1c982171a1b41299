package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/formanet/formanet/internal/organization/domain"
	dbpkg "github.com/formanet/formanet/pkg/db"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxTreeDepth = 16

type service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
}

func NewService(db *gorm.DB, log *zap.Logger, repo domain.Repository, genID *snowflake.Node) domain.Service {
	return &service{
		db:    db,
		log:   log.Named("organization.service"),
		repo:  repo,
		genID: genID,
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateOrganizationRequest) (*domain.Organization, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	switch req.NetworkType {
	case domain.NetworkTypeHeadOffice, domain.NetworkTypeIndependent:
		if req.ParentID != nil {
			return nil, domain.ErrParentNotAllowed
		}
	case domain.NetworkTypeFranchise, domain.NetworkTypeSuccursale:
		if req.ParentID == nil {
			return nil, domain.ErrParentRequired
		}
	default:
		return nil, domain.ErrInvalidNetworkType
	}

	var parent *domain.Organization
	if req.ParentID != nil {
		var err error
		parent, err = s.validateParent(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	org := domain.Organization{
		ID:          s.genID.Generate(),
		Name:        name,
		Slug:        slug.Make(name),
		NetworkType: req.NetworkType,
		ParentID:    req.ParentID,
		RoyaltyRate: resolveRate(req.RoyaltyRate, parent, domain.DefaultRoyaltyRate, func(o *domain.Organization) float64 { return o.RoyaltyRate }),
		LeadFeeRate: resolveRate(req.LeadFeeRate, parent, domain.DefaultLeadFeeRate, func(o *domain.Organization) float64 { return o.LeadFeeRate }),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if siret := strings.TrimSpace(req.Siret); siret != "" {
		org.Siret = &siret
	}

	if err := s.repo.CreateOrganization(ctx, org); err != nil {
		if !dbpkg.IsDuplicateKeyErr(err) {
			return nil, err
		}
		// slug carries a unique index; two members may share a name.
		org.Slug = org.Slug + "-" + org.ID.String()
		if err := s.repo.CreateOrganization(ctx, org); err != nil {
			return nil, err
		}
	}

	s.log.Info("organization created",
		zap.String("org_id", org.ID.String()),
		zap.String("network_type", string(org.NetworkType)),
	)
	return &org, nil
}

// validateParent walks the parent chain so that every member hangs under an
// active HEAD_OFFICE root and the chain never loops.
func (s *service) validateParent(ctx context.Context, parentID snowflake.ID) (*domain.Organization, error) {
	parent, err := s.repo.GetOrganization(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, domain.ErrParentNotFound
	}
	if !parent.IsActive {
		return nil, domain.ErrParentInactive
	}

	seen := map[snowflake.ID]bool{}
	node := parent
	for depth := 0; node.ParentID != nil; depth++ {
		if depth >= maxTreeDepth || seen[node.ID] {
			return nil, domain.ErrParentCycle
		}
		seen[node.ID] = true

		next, err := s.repo.GetOrganization(ctx, *node.ParentID)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, domain.ErrParentNotFound
		}
		node = next
	}

	return parent, nil
}

func (s *service) GetByID(ctx context.Context, id snowflake.ID) (*domain.Organization, error) {
	org, err := s.repo.GetOrganization(ctx, id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	return org, nil
}

func (s *service) ListActiveMembers(ctx context.Context, headOfficeID snowflake.ID) ([]domain.Organization, error) {
	head, err := s.GetByID(ctx, headOfficeID)
	if err != nil {
		return nil, err
	}
	if head.NetworkType != domain.NetworkTypeHeadOffice {
		return nil, domain.ErrNotHeadOffice
	}

	return s.repo.ListActiveChildren(ctx, headOfficeID, []domain.NetworkType{
		domain.NetworkTypeFranchise,
		domain.NetworkTypeSuccursale,
	})
}

func resolveRate(override *float64, parent *domain.Organization, fallback float64, pick func(*domain.Organization) float64) float64 {
	if override != nil {
		return *override
	}
	if parent != nil {
		if rate := pick(parent); rate > 0 {
			return rate
		}
	}
	return fallback
}
