package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	behaviordomain "github.com/latewatch/latewatch/internal/behavior/domain"
	"github.com/latewatch/latewatch/internal/clock"
	invoicedomain "github.com/latewatch/latewatch/internal/invoice/domain"
	obsmetrics "github.com/latewatch/latewatch/internal/observability/metrics"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Clock       clock.Clock
	Repo        behaviordomain.Repository
	InvoiceRepo invoicedomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	clock       clock.Clock
	repo        behaviordomain.Repository
	invoiceRepo invoicedomain.Repository
}

func New(p Params) behaviordomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("behavior.service"),
		clock:       p.Clock,
		repo:        p.Repo,
		invoiceRepo: p.InvoiceRepo,
	}
}

// Recalculate rebuilds the company's behavior profile from a single
// consistent read of its full invoice set. Read and upsert share one
// transaction so concurrent recalculations serialize to last-writer-wins
// over a whole snapshot, never a merge of partial writes.
func (s *Service) Recalculate(ctx context.Context, companyID snowflake.ID) error {
	if companyID == 0 {
		return behaviordomain.ErrInvalidCompany
	}

	started := time.Now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoices, err := s.invoiceRepo.ListByCompany(ctx, tx, companyID)
		if err != nil {
			return err
		}
		if len(invoices) == 0 {
			// Zero invoices means no profile at all, not a zeroed one.
			return nil
		}

		behavior := s.aggregate(companyID, invoices)
		return s.repo.Upsert(ctx, tx, behavior)
	})

	obsmetrics.Engine().ObserveRecalculation(time.Since(started), err)
	if err != nil {
		s.log.Error("behavior recalculation failed",
			zap.String("company_id", companyID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *Service) Get(ctx context.Context, companyID snowflake.ID) (*behaviordomain.PaymentBehavior, error) {
	if companyID == 0 {
		return nil, behaviordomain.ErrInvalidCompany
	}
	return s.repo.FindByCompany(ctx, s.db, companyID)
}

// aggregate computes the full replacement row. Invoices arrive most recent
// first; the trend split depends on that order.
func (s *Service) aggregate(companyID snowflake.ID, invoices []*invoicedomain.Invoice) *behaviordomain.PaymentBehavior {
	now := s.clock.Now()

	var (
		paid       int
		overdue    int
		daysLate   = make([]int, 0, len(invoices))
		sumLate    int
		total      = decimal.Zero
		paidAmount = decimal.Zero
		orgID      snowflake.ID
	)

	for _, inv := range invoices {
		orgID = inv.OrgID
		late := inv.DaysLateAt(now)
		daysLate = append(daysLate, late)
		sumLate += late
		total = total.Add(inv.Amount)

		switch inv.StatusAt(now) {
		case invoicedomain.InvoiceStatusPaid:
			paid++
			paidAmount = paidAmount.Add(inv.Amount)
		case invoicedomain.InvoiceStatusOverdue:
			overdue++
		}
	}

	// Blended average over ALL invoices; on-time ones contribute zero.
	avgDaysLate := float64(sumLate) / float64(len(invoices))

	score := behaviordomain.ComputeRiskScore(behaviordomain.Stats{
		TotalInvoices:   len(invoices),
		PaidInvoices:    paid,
		OverdueInvoices: overdue,
		AvgDaysLate:     avgDaysLate,
	})

	return &behaviordomain.PaymentBehavior{
		CompanyID:     companyID,
		OrgID:         orgID,
		TotalInvoices: int64(len(invoices)),
		PaidInvoices:  int64(paid),
		AvgDaysLate:   avgDaysLate,
		TotalAmount:   total,
		PaidAmount:    paidAmount,
		RiskScore:     int64(score),
		Trend:         behaviordomain.ClassifyTrend(daysLate),
		UpdatedAt:     now,
	}
}
