package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, req CreateOrganizationRequest) (*Organization, error)
	GetByID(ctx context.Context, id snowflake.ID) (*Organization, error)
	ListActiveMembers(ctx context.Context, headOfficeID snowflake.ID) ([]Organization, error)
}

type CreateOrganizationRequest struct {
	Name        string
	NetworkType NetworkType
	ParentID    *snowflake.ID
	RoyaltyRate *float64
	LeadFeeRate *float64
	Siret       string
}

var (
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidNetworkType = errors.New("invalid_network_type")
	ErrParentRequired     = errors.New("parent_required")
	ErrParentNotAllowed   = errors.New("parent_not_allowed")
	ErrParentNotFound     = errors.New("parent_not_found")
	ErrParentInactive     = errors.New("parent_inactive")
	ErrParentCycle        = errors.New("parent_cycle")
	ErrNotFound           = errors.New("organization_not_found")
	ErrNotHeadOffice      = errors.New("organization_not_head_office")
	ErrNotNetworkMember   = errors.New("organization_not_network_member")
)
