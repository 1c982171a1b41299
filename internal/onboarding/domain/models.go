// Package domain contains core types for candidate onboarding.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// CandidateStatus is the recruitment pipeline state.
type CandidateStatus string

const (
	CandidateStatusNew       CandidateStatus = "NEW"
	CandidateStatusContacted CandidateStatus = "CONTACTED"
	CandidateStatusQualified CandidateStatus = "QUALIFIED"
	CandidateStatusMeeting   CandidateStatus = "MEETING"
	CandidateStatusSigned    CandidateStatus = "SIGNED"
	CandidateStatusRejected  CandidateStatus = "REJECTED"
	CandidateStatusWithdrawn CandidateStatus = "WITHDRAWN"
)

// IsTerminal reports whether the pipeline is finished for this candidate.
func (s CandidateStatus) IsTerminal() bool {
	switch s {
	case CandidateStatusSigned, CandidateStatusRejected, CandidateStatusWithdrawn:
		return true
	default:
		return false
	}
}

// Candidate is a prospective network member owned by a head office.
// CreatedOrgID is stamped exactly once, on successful onboarding, and acts as
// the idempotency guard against double conversion.
type Candidate struct {
	ID              snowflake.ID                `gorm:"primaryKey" json:"id"`
	OrgID           snowflake.ID                `gorm:"not null;index" json:"org_id"`
	Company         string                      `gorm:"type:text;not null" json:"company"`
	Email           string                      `gorm:"type:text;not null" json:"email"`
	Status          CandidateStatus             `gorm:"type:text;not null;default:NEW" json:"status"`
	MotivationIndex int                         `gorm:"not null;default:50" json:"motivation_index"`
	TargetZipCodes  datatypes.JSONSlice[string] `gorm:"type:jsonb;not null" json:"target_zip_codes"`
	CreatedOrgID    *snowflake.ID               `json:"created_org_id,omitempty"`
	LastActivityAt  time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"last_activity_at"`
	CreatedAt       time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Candidate) TableName() string { return "candidates" }
