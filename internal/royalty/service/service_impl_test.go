package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	organizationdomain "github.com/formanet/formanet/internal/organization/domain"
	organizationrepository "github.com/formanet/formanet/internal/organization/repository"
	"github.com/formanet/formanet/internal/royalty/domain"
	"github.com/formanet/formanet/internal/royalty/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type fixture struct {
	db   *gorm.DB
	node *snowflake.Node
	svc  domain.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	for _, ddl := range []string{
		`CREATE TABLE organizations (
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
		)`,
		`CREATE TABLE dossiers (
			id BIGINT PRIMARY KEY,
			org_id BIGINT NOT NULL,
			source TEXT NOT NULL DEFAULT 'ORGANIC',
			postal_code TEXT,
			contact_name TEXT,
			contact_email TEXT,
			dispatched_at TIMESTAMP,
			dispatched_from_id BIGINT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE contracts (
			id BIGINT PRIMARY KEY,
			dossier_id BIGINT NOT NULL,
			org_id BIGINT NOT NULL,
			amount_ht REAL NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			signed_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL
		)`,
	} {
		require.NoError(t, db.Exec(ddl).Error)
	}

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(Params{
		Log:     zaptest.NewLogger(t),
		Repo:    repository.NewRepository(db),
		OrgRepo: organizationrepository.NewRepository(db),
	})
	return &fixture{db: db, node: node, svc: svc}
}

func (f *fixture) seedOrg(t *testing.T, name string, networkType organizationdomain.NetworkType, parentID *snowflake.ID, royaltyRate, leadFeeRate float64) snowflake.ID {
	t.Helper()
	id := f.node.Generate()
	now := time.Now().UTC()
	require.NoError(t, f.db.Exec(
		`INSERT INTO organizations (id, name, slug, network_type, parent_id, royalty_rate, lead_fee_rate, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, name, name, networkType, parentID, royaltyRate, leadFeeRate, true, now, now,
	).Error)
	return id
}

func (f *fixture) seedContract(t *testing.T, orgID snowflake.ID, source string, amount float64, signedAt time.Time) {
	t.Helper()
	dossierID := f.node.Generate()
	now := time.Now().UTC()
	require.NoError(t, f.db.Exec(
		`INSERT INTO dossiers (id, org_id, source, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		dossierID, orgID, source, now, now,
	).Error)
	require.NoError(t, f.db.Exec(
		`INSERT INTO contracts (id, dossier_id, org_id, amount_ht, status, signed_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.node.Generate(), dossierID, orgID, amount, domain.ContractStatusSigned, signedAt, now,
	).Error)
}

func TestComputeRoyaltiesSplitsRevenueBySource(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	head := f.seedOrg(t, "Reseau HQ", organizationdomain.NetworkTypeHeadOffice, nil, 0, 0)
	franchise := f.seedOrg(t, "Paris Nord", organizationdomain.NetworkTypeFranchise, &head, 5.0, 15.0)

	signedAt := time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC)
	f.seedContract(t, franchise, "ORGANIC", 1000, signedAt)
	f.seedContract(t, franchise, "ORGANIC", 1000, signedAt)
	f.seedContract(t, franchise, "NETWORK_DISPATCH", 500, signedAt)

	breakdown, err := f.svc.ComputeRoyalties(ctx, franchise, "2026-02")
	require.NoError(t, err)

	assert.Equal(t, 2000.0, breakdown.Organic.TotalRevenue)
	assert.Equal(t, 2, breakdown.Organic.ContractCount)
	assert.Equal(t, 5.0, breakdown.Organic.RateApplied)
	assert.Equal(t, 100.0, breakdown.Organic.AmountDue)

	assert.Equal(t, 500.0, breakdown.NetworkDispatch.TotalRevenue)
	assert.Equal(t, 1, breakdown.NetworkDispatch.ContractCount)
	assert.Equal(t, 15.0, breakdown.NetworkDispatch.RateApplied)
	assert.Equal(t, 75.0, breakdown.NetworkDispatch.AmountDue)

	assert.Equal(t, 2500.0, breakdown.TotalRevenue)
	assert.Equal(t, 175.0, breakdown.TotalDue)
}

func TestComputeRoyaltiesRoundsBucketsIndependently(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	head := f.seedOrg(t, "Reseau HQ", organizationdomain.NetworkTypeHeadOffice, nil, 0, 0)
	franchise := f.seedOrg(t, "Paris Nord", organizationdomain.NetworkTypeFranchise, &head, 3.33, 3.33)

	signedAt := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	f.seedContract(t, franchise, "ORGANIC", 100.10, signedAt)
	f.seedContract(t, franchise, "NETWORK_DISPATCH", 100.10, signedAt)

	breakdown, err := f.svc.ComputeRoyalties(ctx, franchise, "2026-02")
	require.NoError(t, err)

	// 100.10 * 3.33% = 3.33333 -> 3.33 per bucket, summed after rounding.
	assert.Equal(t, 3.33, breakdown.Organic.AmountDue)
	assert.Equal(t, 3.33, breakdown.NetworkDispatch.AmountDue)
	assert.Equal(t, 6.66, breakdown.TotalDue)
}

func TestComputeRoyaltiesEmptyMonthIsZero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	head := f.seedOrg(t, "Reseau HQ", organizationdomain.NetworkTypeHeadOffice, nil, 0, 0)
	franchise := f.seedOrg(t, "Paris Nord", organizationdomain.NetworkTypeFranchise, &head, 5.0, 15.0)

	// Signed outside the requested month.
	f.seedContract(t, franchise, "ORGANIC", 1000, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	breakdown, err := f.svc.ComputeRoyalties(ctx, franchise, "2026-02")
	require.NoError(t, err)
	assert.Zero(t, breakdown.Organic.AmountDue)
	assert.Zero(t, breakdown.NetworkDispatch.AmountDue)
	assert.Zero(t, breakdown.TotalDue)
	assert.Zero(t, breakdown.TotalRevenue)
}

func TestComputeRoyaltiesRejectsNonMembers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	head := f.seedOrg(t, "Reseau HQ", organizationdomain.NetworkTypeHeadOffice, nil, 0, 0)
	independent := f.seedOrg(t, "Solo Shop", organizationdomain.NetworkTypeIndependent, nil, 0, 0)

	_, err := f.svc.ComputeRoyalties(ctx, head, "2026-02")
	assert.ErrorIs(t, err, organizationdomain.ErrNotNetworkMember)

	_, err = f.svc.ComputeRoyalties(ctx, independent, "2026-02")
	assert.ErrorIs(t, err, organizationdomain.ErrNotNetworkMember)

	_, err = f.svc.ComputeRoyalties(ctx, f.node.Generate(), "2026-02")
	assert.ErrorIs(t, err, organizationdomain.ErrNotFound)
}

func TestComputeRoyaltiesRejectsMalformedMonth(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ComputeRoyalties(ctx, f.node.Generate(), "02-2026")
	assert.ErrorIs(t, err, domain.ErrInvalidMonth)

	_, err = f.svc.ComputeRoyalties(ctx, f.node.Generate(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidMonth)
}

func TestComputeNetworkSummaryAggregatesMembers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	head := f.seedOrg(t, "Reseau HQ", organizationdomain.NetworkTypeHeadOffice, nil, 0, 0)
	first := f.seedOrg(t, "Paris Nord", organizationdomain.NetworkTypeFranchise, &head, 5.0, 15.0)
	second := f.seedOrg(t, "Lyon Centre", organizationdomain.NetworkTypeSuccursale, &head, 10.0, 20.0)

	signedAt := time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC)
	f.seedContract(t, first, "ORGANIC", 1000, signedAt)
	f.seedContract(t, second, "NETWORK_DISPATCH", 500, signedAt)

	summary, err := f.svc.ComputeNetworkSummary(ctx, head, "2026-02")
	require.NoError(t, err)
	require.Len(t, summary.Members, 2)
	assert.Equal(t, 1500.0, summary.TotalNetworkRevenue)
	assert.Equal(t, 150.0, summary.TotalNetworkDue) // 1000*5% + 500*20%
}

func TestComputeNetworkSummaryRequiresHeadOffice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	head := f.seedOrg(t, "Reseau HQ", organizationdomain.NetworkTypeHeadOffice, nil, 0, 0)
	franchise := f.seedOrg(t, "Paris Nord", organizationdomain.NetworkTypeFranchise, &head, 5.0, 15.0)

	_, err := f.svc.ComputeNetworkSummary(ctx, franchise, "2026-02")
	assert.ErrorIs(t, err, organizationdomain.ErrNotHeadOffice)
}
