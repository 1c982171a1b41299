package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	organizationdomain "github.com/formanet/formanet/internal/organization/domain"
	"gorm.io/gorm"
)

type Service interface {
	// Onboard converts a SIGNED candidate into an operating network member:
	// organization, headquarters site, admin account, membership and an
	// optional exclusive territory, committed as one unit of work.
	Onboard(ctx context.Context, req OnboardRequest) (*organizationdomain.Organization, error)
}

type OnboardRequest struct {
	CandidateID   snowflake.ID
	AdminPassword string
	Siret         string
	City          string
	ZipCode       string
	Address       string
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Get(ctx context.Context, id snowflake.ID) (*Candidate, error)
	// StampCreatedOrg records the organization a candidate converted into.
	// It only touches rows not yet stamped and reports how many it hit, so
	// a caller holding a stale read can tell it lost the race.
	StampCreatedOrg(ctx context.Context, candidateID, orgID snowflake.ID) (int64, error)
}

// NotSignedError names the required state so callers can tell a pipeline
// problem from a double conversion.
type NotSignedError struct {
	Current CandidateStatus
}

func (e *NotSignedError) Error() string {
	return fmt.Sprintf("candidate must be %s, currently %s", CandidateStatusSigned, e.Current)
}

var (
	ErrCandidateNotFound = errors.New("candidate_not_found")
	ErrAlreadyOnboarded  = errors.New("candidate_already_onboarded")
	ErrInvalidPassword   = errors.New("invalid_admin_password")
	ErrInvalidSite       = errors.New("invalid_site_fields")
)
