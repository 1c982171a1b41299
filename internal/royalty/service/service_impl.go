package service

import (
	"context"
	"math"
	"time"

	"github.com/bwmarrin/snowflake"
	dispatchdomain "github.com/formanet/formanet/internal/dispatch/domain"
	organizationdomain "github.com/formanet/formanet/internal/organization/domain"
	"github.com/formanet/formanet/internal/royalty/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	Repo    domain.Repository
	OrgRepo organizationdomain.Repository
}

type service struct {
	log     *zap.Logger
	repo    domain.Repository
	orgRepo organizationdomain.Repository
}

func NewService(p Params) domain.Service {
	return &service{
		log:     p.Log.Named("royalty.service"),
		repo:    p.Repo,
		orgRepo: p.OrgRepo,
	}
}

func (s *service) ComputeRoyalties(ctx context.Context, orgID snowflake.ID, month string) (*domain.Breakdown, error) {
	from, to, err := monthRange(month)
	if err != nil {
		return nil, err
	}

	org, err := s.orgRepo.GetOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, organizationdomain.ErrNotFound
	}
	if org.ParentID == nil || !org.NetworkType.IsMember() {
		return nil, organizationdomain.ErrNotNetworkMember
	}

	contracts, err := s.repo.ListSignedForPeriod(ctx, orgID, from, to)
	if err != nil {
		return nil, err
	}

	breakdown := &domain.Breakdown{
		OrganizationID:   org.ID,
		OrganizationName: org.Name,
		Month:            month,
		Organic: domain.Bucket{
			Source:      string(dispatchdomain.SourceOrganic),
			RateApplied: org.RoyaltyRate,
		},
		NetworkDispatch: domain.Bucket{
			Source:      string(dispatchdomain.SourceNetworkDispatch),
			RateApplied: org.LeadFeeRate,
		},
	}

	for _, c := range contracts {
		if c.Source == string(dispatchdomain.SourceNetworkDispatch) {
			breakdown.NetworkDispatch.TotalRevenue += c.AmountHT
			breakdown.NetworkDispatch.ContractCount++
		} else {
			breakdown.Organic.TotalRevenue += c.AmountHT
			breakdown.Organic.ContractCount++
		}
	}

	// Each bucket is rounded on its own before the total is formed.
	breakdown.Organic.AmountDue = round2(breakdown.Organic.TotalRevenue * org.RoyaltyRate / 100)
	breakdown.NetworkDispatch.AmountDue = round2(breakdown.NetworkDispatch.TotalRevenue * org.LeadFeeRate / 100)
	breakdown.TotalRevenue = breakdown.Organic.TotalRevenue + breakdown.NetworkDispatch.TotalRevenue
	breakdown.TotalDue = breakdown.Organic.AmountDue + breakdown.NetworkDispatch.AmountDue

	return breakdown, nil
}

func (s *service) ComputeNetworkSummary(ctx context.Context, headOfficeID snowflake.ID, month string) (*domain.NetworkSummary, error) {
	if _, _, err := monthRange(month); err != nil {
		return nil, err
	}

	head, err := s.orgRepo.GetOrganization(ctx, headOfficeID)
	if err != nil {
		return nil, err
	}
	if head == nil {
		return nil, organizationdomain.ErrNotFound
	}
	if head.NetworkType != organizationdomain.NetworkTypeHeadOffice {
		return nil, organizationdomain.ErrNotHeadOffice
	}

	members, err := s.orgRepo.ListActiveChildren(ctx, head.ID, []organizationdomain.NetworkType{
		organizationdomain.NetworkTypeFranchise,
		organizationdomain.NetworkTypeSuccursale,
	})
	if err != nil {
		return nil, err
	}

	summary := &domain.NetworkSummary{
		HeadOfficeID: head.ID,
		Month:        month,
		Members:      make([]domain.Breakdown, 0, len(members)),
	}
	for _, member := range members {
		breakdown, err := s.ComputeRoyalties(ctx, member.ID, month)
		if err != nil {
			// A broken member statement invalidates the whole network total.
			return nil, err
		}
		summary.Members = append(summary.Members, *breakdown)
		summary.TotalNetworkRevenue += breakdown.TotalRevenue
		summary.TotalNetworkDue += breakdown.TotalDue
	}
	return summary, nil
}

// monthRange turns "YYYY-MM" into the half-open UTC interval covering that
// calendar month.
func monthRange(month string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation("2006-01", month, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, domain.ErrInvalidMonth
	}
	return start, start.AddDate(0, 1, 0), nil
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
