package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type ContractStatus string

const (
	ContractStatusDraft  ContractStatus = "DRAFT"
	ContractStatusSigned ContractStatus = "SIGNED"
	ContractStatusActive ContractStatus = "ACTIVE"
)

// Contract is the billing input. Read-only here: contracts are produced by
// the sales pipeline and only summed by the calculator.
type Contract struct {
	ID        snowflake.ID   `gorm:"column:id;primaryKey" json:"id"`
	DossierID snowflake.ID   `gorm:"column:dossier_id" json:"dossier_id"`
	OrgID     snowflake.ID   `gorm:"column:org_id" json:"org_id"`
	AmountHT  float64        `gorm:"column:amount_ht" json:"amount_ht"`
	Status    ContractStatus `gorm:"column:status" json:"status"`
	SignedAt  *time.Time     `gorm:"column:signed_at" json:"signed_at,omitempty"`
	CreatedAt time.Time      `gorm:"column:created_at" json:"created_at"`
}

func (Contract) TableName() string {
	return "contracts"
}

// Bucket is one revenue slice keyed by the dossier source that produced it.
type Bucket struct {
	Source        string  `json:"source"`
	TotalRevenue  float64 `json:"total_revenue"`
	ContractCount int     `json:"contract_count"`
	RateApplied   float64 `json:"rate_applied"`
	AmountDue     float64 `json:"amount_due"`
}

// Breakdown is the royalty statement of one member for one month.
type Breakdown struct {
	OrganizationID   snowflake.ID `json:"organization_id"`
	OrganizationName string       `json:"organization_name"`
	Month            string       `json:"month"`
	Organic          Bucket       `json:"organic"`
	NetworkDispatch  Bucket       `json:"network_dispatch"`
	TotalRevenue     float64      `json:"total_revenue"`
	TotalDue         float64      `json:"total_due"`
}

// NetworkSummary aggregates the per-member breakdowns of one head office.
type NetworkSummary struct {
	HeadOfficeID        snowflake.ID `json:"head_office_id"`
	Month               string       `json:"month"`
	Members             []Breakdown  `json:"members"`
	TotalNetworkRevenue float64      `json:"total_network_revenue"`
	TotalNetworkDue     float64      `json:"total_network_due"`
}
