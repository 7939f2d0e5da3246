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
	behaviorservice "github.com/latewatch/latewatch/internal/behavior/service"
	"github.com/latewatch/latewatch/internal/clock"
	"github.com/latewatch/latewatch/internal/config"
	companydomain "github.com/latewatch/latewatch/internal/company/domain"
	companyrepo "github.com/latewatch/latewatch/internal/company/repository"
	companyservice "github.com/latewatch/latewatch/internal/company/service"
	engagementdomain "github.com/latewatch/latewatch/internal/engagement/domain"
	engagementrepo "github.com/latewatch/latewatch/internal/engagement/repository"
	engagementservice "github.com/latewatch/latewatch/internal/engagement/service"
	"github.com/latewatch/latewatch/internal/invoice/domain"
	invoicerepo "github.com/latewatch/latewatch/internal/invoice/repository"
	"github.com/latewatch/latewatch/internal/orgcontext"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc         domain.Service
	behaviorSvc behaviordomain.Service
	db          *gorm.DB
	genID       *snowflake.Node
	clock       *clock.FakeClock
	orgID       snowflake.ID
	ctx         context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&companydomain.Company{},
		&domain.Invoice{},
		&behaviordomain.PaymentBehavior{},
		&engagementdomain.Event{},
	))

	node, err := snowflake.NewNode(5)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))
	log := zap.NewNop()
	orgID := node.Generate()

	companySvc := companyservice.New(companyservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Repo:  companyrepo.Provide(),
	})
	behaviorSvc := behaviorservice.New(behaviorservice.Params{
		DB:          db,
		Log:         log,
		Clock:       fake,
		Repo:        behaviorrepo.Provide(),
		InvoiceRepo: invoicerepo.Provide(),
	})
	engagementSvc := engagementservice.New(engagementservice.Params{
		DB:       db,
		Log:      log,
		GenID:    node,
		Clock:    fake,
		Repo:     engagementrepo.Provide(),
		SweepCfg: config.NewStaticSweepConfigHolder(config.DefaultSweepConfig()),
	})

	svc := New(Params{
		DB:            db,
		Log:           log,
		GenID:         node,
		Clock:         fake,
		Repo:          invoicerepo.Provide(),
		CompanySvc:    companySvc,
		BehaviorSvc:   behaviorSvc,
		EngagementSvc: engagementSvc,
	})

	return &fixture{
		svc:         svc,
		behaviorSvc: behaviorSvc,
		db:          db,
		genID:       node,
		clock:       fake,
		orgID:       orgID,
		ctx:         orgcontext.WithOrgID(context.Background(), int64(orgID)),
	}
}

func (f *fixture) createRequest(amount string) domain.CreateInvoiceRequest {
	return domain.CreateInvoiceRequest{
		VATNumber:   "DE811234567",
		CompanyName: "Acme GmbH",
		IsCustomer:  true,
		Amount:      decimal.RequireFromString(amount),
		InvoiceDate: f.clock.Now().AddDate(0, 0, -1),
		DueDate:     f.clock.Now().AddDate(0, 0, 29),
	}
}

func TestCreate_RegistersCompanyOnFirstReference(t *testing.T) {
	f := newFixture(t)

	invoice, err := f.svc.Create(f.ctx, f.createRequest("1250.50"))
	require.NoError(t, err)
	assert.NotZero(t, invoice.ID)
	assert.True(t, invoice.Amount.Equal(decimal.RequireFromString("1250.50")))

	var company companydomain.Company
	require.NoError(t, f.db.Where("vat_number = ?", "DE811234567").First(&company).Error)
	assert.Equal(t, "Acme GmbH", company.Name)
	assert.Equal(t, company.ID, invoice.CompanyID)

	// New counterparty starts at the neutral score.
	behavior, err := f.behaviorSvc.Get(f.ctx, company.ID)
	require.NoError(t, err)
	require.NotNil(t, behavior)
	assert.Equal(t, int64(1), behavior.TotalInvoices)

	var events []engagementdomain.Event
	require.NoError(t, f.db.Where("company_id = ?", company.ID).Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, engagementdomain.EventInvoiceUploaded, events[0].EventType)
}

func TestCreate_ReusesCompanyOnRepeatVAT(t *testing.T) {
	f := newFixture(t)

	first, err := f.svc.Create(f.ctx, f.createRequest("100.00"))
	require.NoError(t, err)
	second, err := f.svc.Create(f.ctx, f.createRequest("200.00"))
	require.NoError(t, err)

	assert.Equal(t, first.CompanyID, second.CompanyID)

	var count int64
	require.NoError(t, f.db.Model(&companydomain.Company{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreate_RoundsAmountToCents(t *testing.T) {
	f := newFixture(t)

	req := f.createRequest("99.999")
	invoice, err := f.svc.Create(f.ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "100", invoice.Amount.String())
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)

	req := f.createRequest("100.00")
	req.Amount = decimal.Zero
	_, err := f.svc.Create(f.ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	req = f.createRequest("100.00")
	req.DueDate = req.InvoiceDate.AddDate(0, 0, -1)
	_, err = f.svc.Create(f.ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidDueDate)

	_, err = f.svc.Create(context.Background(), f.createRequest("100.00"))
	assert.ErrorIs(t, err, domain.ErrInvalidOrganization)
}

func TestRegisterPayment_UpdatesBehavior(t *testing.T) {
	f := newFixture(t)

	invoice, err := f.svc.Create(f.ctx, f.createRequest("100.00"))
	require.NoError(t, err)

	paid, err := f.svc.RegisterPayment(f.ctx, domain.RegisterPaymentRequest{
		InvoiceID: invoice.ID.String(),
	})
	require.NoError(t, err)
	require.NotNil(t, paid.PaymentDate)
	assert.Equal(t, f.clock.Now(), paid.PaymentDate.UTC())

	behavior, err := f.behaviorSvc.Get(f.ctx, invoice.CompanyID)
	require.NoError(t, err)
	require.NotNil(t, behavior)
	assert.Equal(t, int64(1), behavior.PaidInvoices)

	var events []engagementdomain.Event
	require.NoError(t, f.db.
		Where("company_id = ? AND event_type = ?", invoice.CompanyID, engagementdomain.EventPaymentRegistered).
		Find(&events).Error)
	assert.Len(t, events, 1)
}

func TestRegisterPayment_ViaQRRecordsScanEvent(t *testing.T) {
	f := newFixture(t)

	invoice, err := f.svc.Create(f.ctx, f.createRequest("100.00"))
	require.NoError(t, err)

	_, err = f.svc.RegisterPayment(f.ctx, domain.RegisterPaymentRequest{
		InvoiceID: invoice.ID.String(),
		ViaQR:     true,
	})
	require.NoError(t, err)

	var events []engagementdomain.Event
	require.NoError(t, f.db.
		Where("company_id = ? AND event_type = ?", invoice.CompanyID, engagementdomain.EventQRScanned).
		Find(&events).Error)
	assert.Len(t, events, 1)
}

func TestRegisterPayment_TwiceRejected(t *testing.T) {
	f := newFixture(t)

	invoice, err := f.svc.Create(f.ctx, f.createRequest("100.00"))
	require.NoError(t, err)

	_, err = f.svc.RegisterPayment(f.ctx, domain.RegisterPaymentRequest{InvoiceID: invoice.ID.String()})
	require.NoError(t, err)

	_, err = f.svc.RegisterPayment(f.ctx, domain.RegisterPaymentRequest{InvoiceID: invoice.ID.String()})
	assert.ErrorIs(t, err, domain.ErrAlreadyPaid)
}

func TestGetByID_ScopedToOrganization(t *testing.T) {
	f := newFixture(t)

	invoice, err := f.svc.Create(f.ctx, f.createRequest("100.00"))
	require.NoError(t, err)

	otherOrg := orgcontext.WithOrgID(context.Background(), int64(f.genID.Generate()))
	_, err = f.svc.GetByID(otherOrg, domain.GetInvoiceRequest{ID: invoice.ID.String()})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	found, err := f.svc.GetByID(f.ctx, domain.GetInvoiceRequest{ID: invoice.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, invoice.ID, found.ID)
}

func TestListByCompany_MostRecentDueFirst(t *testing.T) {
	f := newFixture(t)

	early := f.createRequest("100.00")
	early.DueDate = f.clock.Now().AddDate(0, 0, 10)
	late := f.createRequest("200.00")
	late.DueDate = f.clock.Now().AddDate(0, 0, 20)

	first, err := f.svc.Create(f.ctx, early)
	require.NoError(t, err)
	_, err = f.svc.Create(f.ctx, late)
	require.NoError(t, err)

	invoices, err := f.svc.ListByCompany(f.ctx, domain.ListByCompanyRequest{
		CompanyID: first.CompanyID.String(),
	})
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	assert.True(t, invoices[0].DueDate.After(invoices[1].DueDate))
}
