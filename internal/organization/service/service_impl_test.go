package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/formanet/formanet/internal/organization/domain"
	"github.com/formanet/formanet/internal/organization/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func setup(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE organizations (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL,
		network_type TEXT NOT NULL,
		parent_id BIGINT,
		royalty_rate REAL NOT NULL DEFAULT 0,
		lead_fee_rate REAL NOT NULL DEFAULT 0,
		siret TEXT,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`).Error)
	require.NoError(t, db.Exec(`CREATE UNIQUE INDEX ux_organizations_slug ON organizations (slug)`).Error)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(db, zaptest.NewLogger(t), repository.NewRepository(db), node)
	return svc, db, node
}

func TestCreateHeadOffice(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	org, err := svc.Create(ctx, domain.CreateOrganizationRequest{
		Name:        "Réseau Boulange",
		NetworkType: domain.NetworkTypeHeadOffice,
		Siret:       "88411982300016",
	})
	require.NoError(t, err)
	assert.Equal(t, "reseau-boulange", org.Slug)
	assert.Equal(t, domain.DefaultRoyaltyRate, org.RoyaltyRate)
	assert.Equal(t, domain.DefaultLeadFeeRate, org.LeadFeeRate)
	assert.Nil(t, org.ParentID)
	assert.True(t, org.IsActive)
	require.NotNil(t, org.Siret)
	assert.Equal(t, "88411982300016", *org.Siret)
}

func TestCreateFranchiseInheritsParentRates(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	head, err := svc.Create(ctx, domain.CreateOrganizationRequest{
		Name:        "Reseau HQ",
		NetworkType: domain.NetworkTypeHeadOffice,
		RoyaltyRate: rate(4.0),
		LeadFeeRate: rate(12.5),
	})
	require.NoError(t, err)

	franchise, err := svc.Create(ctx, domain.CreateOrganizationRequest{
		Name:        "Paris Nord",
		NetworkType: domain.NetworkTypeFranchise,
		ParentID:    &head.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 4.0, franchise.RoyaltyRate)
	assert.Equal(t, 12.5, franchise.LeadFeeRate)

	// An explicit rate beats inheritance.
	custom, err := svc.Create(ctx, domain.CreateOrganizationRequest{
		Name:        "Paris Sud",
		NetworkType: domain.NetworkTypeFranchise,
		ParentID:    &head.ID,
		RoyaltyRate: rate(7.0),
	})
	require.NoError(t, err)
	assert.Equal(t, 7.0, custom.RoyaltyRate)
	assert.Equal(t, 12.5, custom.LeadFeeRate)
}

func TestCreateDuplicateNameGetsSuffixedSlug(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, domain.CreateOrganizationRequest{
		Name:        "Boulangerie Martin",
		NetworkType: domain.NetworkTypeHeadOffice,
	})
	require.NoError(t, err)
	assert.Equal(t, "boulangerie-martin", first.Slug)

	second, err := svc.Create(ctx, domain.CreateOrganizationRequest{
		Name:        "Boulangerie Martin",
		NetworkType: domain.NetworkTypeHeadOffice,
	})
	require.NoError(t, err)
	assert.Equal(t, "boulangerie-martin-"+second.ID.String(), second.Slug)
}

func TestCreateParentRules(t *testing.T) {
	svc, db, node := setup(t)
	ctx := context.Background()

	head, err := svc.Create(ctx, domain.CreateOrganizationRequest{
		Name:        "Reseau HQ",
		NetworkType: domain.NetworkTypeHeadOffice,
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateOrganizationRequest{
		Name:        "Autre HQ",
		NetworkType: domain.NetworkTypeHeadOffice,
		ParentID:    &head.ID,
	})
	assert.ErrorIs(t, err, domain.ErrParentNotAllowed)

	_, err = svc.Create(ctx, domain.CreateOrganizationRequest{
		Name:        "Orpheline",
		NetworkType: domain.NetworkTypeFranchise,
	})
	assert.ErrorIs(t, err, domain.ErrParentRequired)

	ghost := node.Generate()
	_, err = svc.Create(ctx, domain.CreateOrganizationRequest{
		Name:        "Fantome",
		NetworkType: domain.NetworkTypeFranchise,
		ParentID:    &ghost,
	})
	assert.ErrorIs(t, err, domain.ErrParentNotFound)

	_, err = svc.Create(ctx, domain.CreateOrganizationRequest{
		Name:        "Typo",
		NetworkType: domain.NetworkType("COOPERATIVE"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidNetworkType)

	require.NoError(t, db.Exec(`UPDATE organizations SET is_active = 0 WHERE id = ?`, head.ID).Error)
	_, err = svc.Create(ctx, domain.CreateOrganizationRequest{
		Name:        "Tardive",
		NetworkType: domain.NetworkTypeFranchise,
		ParentID:    &head.ID,
	})
	assert.ErrorIs(t, err, domain.ErrParentInactive)
}

func TestValidateParentDetectsCycle(t *testing.T) {
	svc, db, node := setup(t)
	ctx := context.Background()

	// Forge a two-node loop directly in the store; the write path could not
	// produce one.
	a := node.Generate()
	b := node.Generate()
	now := time.Now().UTC()
	require.NoError(t, db.Exec(
		`INSERT INTO organizations (id, name, slug, network_type, parent_id, is_active, created_at, updated_at)
		 VALUES (?, 'A', 'a', 'FRANCHISE', ?, 1, ?, ?), (?, 'B', 'b', 'FRANCHISE', ?, 1, ?, ?)`,
		a, b, now, now, b, a, now, now,
	).Error)

	_, err := svc.Create(ctx, domain.CreateOrganizationRequest{
		Name:        "Boucle",
		NetworkType: domain.NetworkTypeFranchise,
		ParentID:    &a,
	})
	assert.ErrorIs(t, err, domain.ErrParentCycle)
}

func TestListActiveMembers(t *testing.T) {
	svc, db, _ := setup(t)
	ctx := context.Background()

	head, err := svc.Create(ctx, domain.CreateOrganizationRequest{
		Name:        "Reseau HQ",
		NetworkType: domain.NetworkTypeHeadOffice,
	})
	require.NoError(t, err)

	first, err := svc.Create(ctx, domain.CreateOrganizationRequest{
		Name:        "Paris Nord",
		NetworkType: domain.NetworkTypeFranchise,
		ParentID:    &head.ID,
	})
	require.NoError(t, err)

	second, err := svc.Create(ctx, domain.CreateOrganizationRequest{
		Name:        "Lyon Centre",
		NetworkType: domain.NetworkTypeSuccursale,
		ParentID:    &head.ID,
	})
	require.NoError(t, err)

	closed, err := svc.Create(ctx, domain.CreateOrganizationRequest{
		Name:        "Fermee",
		NetworkType: domain.NetworkTypeFranchise,
		ParentID:    &head.ID,
	})
	require.NoError(t, err)
	require.NoError(t, db.Exec(`UPDATE organizations SET is_active = 0 WHERE id = ?`, closed.ID).Error)

	members, err := svc.ListActiveMembers(ctx, head.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, first.ID, members[0].ID)
	assert.Equal(t, second.ID, members[1].ID)

	_, err = svc.ListActiveMembers(ctx, first.ID)
	assert.ErrorIs(t, err, domain.ErrNotHeadOffice)
}

func rate(v float64) *float64 { return &v }
