// Package domain contains core types for the territory registry.
package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Territory assigns a set of postal-code prefixes to an organization. An
// exclusive territory blocks any other organization from holding an active
// exclusive territory with an overlapping prefix.
type Territory struct {
	ID          snowflake.ID                `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID                `gorm:"not null;index" json:"org_id"`
	Name        string                      `gorm:"type:text;not null" json:"name"`
	ZipCodes    datatypes.JSONSlice[string] `gorm:"type:jsonb;not null" json:"zip_codes"`
	IsExclusive bool                        `gorm:"not null;default:false" json:"is_exclusive"`
	IsActive    bool                        `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Territory) TableName() string { return "territories" }

// MatchesPostalCode reports whether any stored prefix covers the postal code.
func (t Territory) MatchesPostalCode(postalCode string) bool {
	postalCode = strings.TrimSpace(postalCode)
	if postalCode == "" {
		return false
	}
	for _, prefix := range t.ZipCodes {
		if prefix != "" && strings.HasPrefix(postalCode, prefix) {
			return true
		}
	}
	return false
}

// OverlappingPrefixes returns the prefixes of a that collide with b. Two
// prefixes collide when one is a prefix of the other ("75" covers "75001").
func OverlappingPrefixes(a, b []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, pa := range a {
		for _, pb := range b {
			if pa == "" || pb == "" {
				continue
			}
			if strings.HasPrefix(pa, pb) || strings.HasPrefix(pb, pa) {
				if !seen[pa] {
					seen[pa] = true
					out = append(out, pa)
				}
			}
		}
	}
	return out
}

// NormalizeZipCodes trims, drops empties and deduplicates prefixes, keeping
// input order.
func NormalizeZipCodes(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := map[string]bool{}
	for _, code := range raw {
		code = strings.TrimSpace(code)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	return out
}
