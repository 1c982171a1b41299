// Package domain contains persistence models for the organization network.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// NetworkType places an organization in the network tree.
type NetworkType string

const (
	NetworkTypeHeadOffice  NetworkType = "HEAD_OFFICE"
	NetworkTypeFranchise   NetworkType = "FRANCHISE"
	NetworkTypeSuccursale  NetworkType = "SUCCURSALE"
	NetworkTypeIndependent NetworkType = "INDEPENDENT"
)

// IsMember reports whether the type is a routable network member.
func (t NetworkType) IsMember() bool {
	return t == NetworkTypeFranchise || t == NetworkTypeSuccursale
}

// Organization represents a tenant in the network tree. HEAD_OFFICE nodes are
// roots; FRANCHISE and SUCCURSALE nodes hang off an active parent.
type Organization struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	Name        string        `gorm:"type:text;not null" json:"name"`
	Slug        string        `gorm:"type:text;not null;uniqueIndex:ux_organizations_slug" json:"slug"`
	NetworkType NetworkType   `gorm:"type:text;not null" json:"network_type"`
	ParentID    *snowflake.ID `gorm:"index" json:"parent_id,omitempty"`
	RoyaltyRate float64       `gorm:"not null;default:0" json:"royalty_rate"`
	LeadFeeRate float64       `gorm:"not null;default:0" json:"lead_fee_rate"`
	Siret       *string       `gorm:"type:text" json:"siret,omitempty"`
	IsActive    bool          `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Organization) TableName() string { return "organizations" }

// Site is a physical location of an organization.
type Site struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID          snowflake.ID `gorm:"not null;index" json:"org_id"`
	Name           string       `gorm:"type:text;not null" json:"name"`
	Address        string       `gorm:"type:text" json:"address"`
	City           string       `gorm:"type:text;not null" json:"city"`
	ZipCode        string       `gorm:"type:text;not null" json:"zip_code"`
	IsHeadquarters bool         `gorm:"not null;default:false" json:"is_headquarters"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Site) TableName() string { return "sites" }

// Membership binds a user to an organization with a role.
type Membership struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID `gorm:"not null;index;uniqueIndex:ux_memberships_org_user,priority:1" json:"org_id"`
	UserID    snowflake.ID `gorm:"not null;index;uniqueIndex:ux_memberships_org_user,priority:2" json:"user_id"`
	Role      string       `gorm:"type:text;not null" json:"role"`
	Scope     string       `gorm:"type:text;not null" json:"scope"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Membership) TableName() string { return "memberships" }

const (
	RoleAdmin = "ADMIN"

	ScopeGlobal = "GLOBAL"
)

// Network-wide default rates applied when a parent carries none.
const (
	DefaultRoyaltyRate = 5.0
	DefaultLeadFeeRate = 15.0
)
