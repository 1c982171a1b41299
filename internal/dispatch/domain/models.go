// Package domain contains core types for dossier routing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Source records how a dossier reached its current owner.
type Source string

const (
	SourceOrganic         Source = "ORGANIC"
	SourceNetworkDispatch Source = "NETWORK_DISPATCH"
)

// Dossier is the routed customer record. Intake creates it; only the dispatch
// engine moves its ownership, and the billing side links contracts to it.
// Dossiers are never deleted.
type Dossier struct {
	ID               snowflake.ID  `gorm:"primaryKey" json:"id"`
	OrgID            snowflake.ID  `gorm:"not null;index" json:"org_id"`
	Source           Source        `gorm:"type:text;not null;default:ORGANIC" json:"source"`
	PostalCode       string        `gorm:"type:text" json:"postal_code"`
	ContactName      string        `gorm:"type:text" json:"contact_name"`
	ContactEmail     string        `gorm:"type:text" json:"contact_email"`
	DispatchedAt     *time.Time    `json:"dispatched_at,omitempty"`
	DispatchedFromID *snowflake.ID `json:"dispatched_from_id,omitempty"`
	CreatedAt        time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Dossier) TableName() string { return "dossiers" }
