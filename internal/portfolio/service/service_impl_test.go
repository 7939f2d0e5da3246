package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	behaviordomain "github.com/latewatch/latewatch/internal/behavior/domain"
	behaviorrepo "github.com/latewatch/latewatch/internal/behavior/repository"
	"github.com/latewatch/latewatch/internal/clock"
	companydomain "github.com/latewatch/latewatch/internal/company/domain"
	companyrepo "github.com/latewatch/latewatch/internal/company/repository"
	invoicedomain "github.com/latewatch/latewatch/internal/invoice/domain"
	invoicerepo "github.com/latewatch/latewatch/internal/invoice/repository"
	"github.com/latewatch/latewatch/internal/orgcontext"
	"github.com/latewatch/latewatch/internal/portfolio/domain"
	portfoliorepo "github.com/latewatch/latewatch/internal/portfolio/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc   domain.Service
	db    *gorm.DB
	genID *snowflake.Node
	clock *clock.FakeClock
	orgID snowflake.ID
	ctx   context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&companydomain.Company{},
		&invoicedomain.Invoice{},
		&behaviordomain.PaymentBehavior{},
		&domain.Snapshot{},
	))

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))
	orgID := node.Generate()

	svc := New(Params{
		DB:           db,
		Log:          zap.NewNop(),
		GenID:        node,
		Clock:        fake,
		CompanyRepo:  companyrepo.Provide(),
		InvoiceRepo:  invoicerepo.Provide(),
		BehaviorRepo: behaviorrepo.Provide(),
		SnapshotRepo: portfoliorepo.Provide(),
	})

	return &fixture{
		svc:   svc,
		db:    db,
		genID: node,
		clock: fake,
		orgID: orgID,
		ctx:   orgcontext.WithOrgID(context.Background(), int64(orgID)),
	}
}

func (f *fixture) addCustomer(t *testing.T, name string, riskScore int64) snowflake.ID {
	t.Helper()

	company := companydomain.Company{
		ID:         f.genID.Generate(),
		OrgID:      f.orgID,
		VATNumber:  fmt.Sprintf("DE%d", f.genID.Generate()),
		Name:       name,
		IsCustomer: true,
	}
	require.NoError(t, f.db.Create(&company).Error)

	if riskScore >= 0 {
		behavior := behaviordomain.PaymentBehavior{
			CompanyID:   company.ID,
			OrgID:       f.orgID,
			TotalAmount: decimal.Zero,
			PaidAmount:  decimal.Zero,
			RiskScore:   riskScore,
			Trend:       behaviordomain.TrendStable,
			UpdatedAt:   f.clock.Now(),
		}
		require.NoError(t, f.db.Create(&behavior).Error)
	}
	return company.ID
}

func (f *fixture) addOutstanding(t *testing.T, companyID snowflake.ID, amount string, dueDaysAgo int) {
	t.Helper()

	due := f.clock.Now().AddDate(0, 0, -dueDaysAgo)
	inv := invoicedomain.Invoice{
		ID:          f.genID.Generate(),
		OrgID:       f.orgID,
		CompanyID:   companyID,
		Amount:      decimal.RequireFromString(amount),
		InvoiceDate: due.AddDate(0, 0, -30),
		DueDate:     due,
	}
	require.NoError(t, f.db.Create(&inv).Error)
}

func TestCompute_EmptyPortfolio(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.Compute(f.ctx)
	require.NoError(t, err)

	assert.Zero(t, result.Score)
	assert.True(t, result.TotalOutstanding.IsZero())
	assert.Equal(t, domain.TrendStable, result.Trend)
	assert.Zero(t, result.ChangeThisWeek)
}

func TestCompute_RequiresOrganization(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Compute(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidOrganization)
}

func TestCompute_SingleHighRiskCompany(t *testing.T) {
	f := newFixture(t)
	companyID := f.addCustomer(t, "Acme GmbH", 80)
	f.addOutstanding(t, companyID, "10000.00", -30) // not yet due

	result, err := f.svc.Compute(f.ctx)
	require.NoError(t, err)

	assert.Equal(t, 8.0, result.Score)
	assert.True(t, result.TotalOutstanding.Equal(decimal.RequireFromString("10000.00")))
	assert.True(t, result.HighRiskAmount.Equal(result.TotalOutstanding),
		"the whole exposure sits in the high bucket")
	assert.True(t, result.LowRiskAmount.IsZero())
	assert.True(t, result.MediumRiskAmount.IsZero())
	assert.True(t, result.OverdueAmount.IsZero())
	assert.Equal(t, domain.TrendDown, result.Trend, "no overdue exposure reads as improving")
}

func TestCompute_BucketsAreExhaustiveAndExact(t *testing.T) {
	f := newFixture(t)

	lowID := f.addCustomer(t, "Low Co", 39)
	medID := f.addCustomer(t, "Med Co", 40)
	highID := f.addCustomer(t, "High Co", 70)

	f.addOutstanding(t, lowID, "100.10", -5)
	f.addOutstanding(t, medID, "200.20", -5)
	f.addOutstanding(t, highID, "300.30", -5)

	result, err := f.svc.Compute(f.ctx)
	require.NoError(t, err)

	assert.True(t, result.LowRiskAmount.Equal(decimal.RequireFromString("100.10")))
	assert.True(t, result.MediumRiskAmount.Equal(decimal.RequireFromString("200.20")))
	assert.True(t, result.HighRiskAmount.Equal(decimal.RequireFromString("300.30")))

	sum := result.LowRiskAmount.Add(result.MediumRiskAmount).Add(result.HighRiskAmount)
	assert.True(t, sum.Equal(result.TotalOutstanding), "buckets must sum exactly, no float drift")
}

func TestCompute_MissingBehaviorScoresNeutral(t *testing.T) {
	f := newFixture(t)
	companyID := f.addCustomer(t, "Fresh Co", -1) // no behavior row
	f.addOutstanding(t, companyID, "1000.00", -5)

	result, err := f.svc.Compute(f.ctx)
	require.NoError(t, err)

	assert.Equal(t, 5.0, result.Score)
	assert.True(t, result.MediumRiskAmount.Equal(result.TotalOutstanding))
}

func TestCompute_TrendFollowsOverdueRatio(t *testing.T) {
	tests := []struct {
		name        string
		overdue     string
		current     string
		expectTrend domain.Trend
	}{
		{"mostly overdue", "400.00", "600.00", domain.TrendUp},
		{"barely overdue", "5.00", "995.00", domain.TrendDown},
		{"in between", "200.00", "800.00", domain.TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			companyID := f.addCustomer(t, "Trend Co", 50)
			f.addOutstanding(t, companyID, tt.overdue, 10)
			f.addOutstanding(t, companyID, tt.current, -10)

			result, err := f.svc.Compute(f.ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.expectTrend, result.Trend)
		})
	}
}

func TestCompute_ChangeThisWeekUsesAgedSnapshot(t *testing.T) {
	f := newFixture(t)
	companyID := f.addCustomer(t, "Acme GmbH", 80)
	f.addOutstanding(t, companyID, "10000.00", -30)

	// A fresh snapshot must not count; only one at least a week old does.
	fresh := domain.Snapshot{
		ID:      f.genID.Generate(),
		OrgID:   f.orgID,
		Score:   9.9,
		TakenAt: f.clock.Now().Add(-time.Hour),
	}
	aged := domain.Snapshot{
		ID:      f.genID.Generate(),
		OrgID:   f.orgID,
		Score:   6.5,
		TakenAt: f.clock.Now().Add(-8 * 24 * time.Hour),
	}
	require.NoError(t, f.db.Create(&fresh).Error)
	require.NoError(t, f.db.Create(&aged).Error)

	result, err := f.svc.Compute(f.ctx)
	require.NoError(t, err)

	assert.Equal(t, 8.0, result.Score)
	assert.InDelta(t, 1.5, result.ChangeThisWeek, 1e-9)
}

func TestTakeSnapshot_PersistsCurrentScore(t *testing.T) {
	f := newFixture(t)
	companyID := f.addCustomer(t, "Acme GmbH", 80)
	f.addOutstanding(t, companyID, "10000.00", -30)

	snapshot, err := f.svc.TakeSnapshot(f.ctx)
	require.NoError(t, err)

	assert.Equal(t, f.orgID, snapshot.OrgID)
	assert.Equal(t, 8.0, snapshot.Score)
	assert.True(t, snapshot.TotalOutstanding.Equal(decimal.RequireFromString("10000.00")))
	assert.Equal(t, f.clock.Now(), snapshot.TakenAt)

	var count int64
	require.NoError(t, f.db.Model(&domain.Snapshot{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
