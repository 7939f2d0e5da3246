package service

import (
	"context"
	"math"
	"time"

	"github.com/bwmarrin/snowflake"
	behaviordomain "github.com/latewatch/latewatch/internal/behavior/domain"
	"github.com/latewatch/latewatch/internal/clock"
	companydomain "github.com/latewatch/latewatch/internal/company/domain"
	invoicedomain "github.com/latewatch/latewatch/internal/invoice/domain"
	obsmetrics "github.com/latewatch/latewatch/internal/observability/metrics"
	"github.com/latewatch/latewatch/internal/orgcontext"
	"github.com/latewatch/latewatch/internal/portfolio/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Bucket boundaries over company risk scores. Shifted from the UI display
// thresholds on purpose.
const (
	lowRiskBelow   = 40
	highRiskFrom   = 70
	trendUpRatio   = 0.3
	trendDownRatio = 0.1
)

// snapshotLookback is the minimum age of the snapshot used for the
// week-over-week comparison.
const snapshotLookback = 7 * 24 * time.Hour

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	CompanyRepo  companydomain.Repository
	InvoiceRepo  invoicedomain.Repository
	BehaviorRepo behaviordomain.Repository
	SnapshotRepo domain.SnapshotRepository
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	companyRepo  companydomain.Repository
	invoiceRepo  invoicedomain.Repository
	behaviorRepo behaviordomain.Repository
	snapshotRepo domain.SnapshotRepository
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("portfolio.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		companyRepo:  p.CompanyRepo,
		invoiceRepo:  p.InvoiceRepo,
		behaviorRepo: p.BehaviorRepo,
		snapshotRepo: p.SnapshotRepo,
	}
}

func (s *Service) Compute(ctx context.Context) (domain.RiskScore, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.RiskScore{}, domain.ErrInvalidOrganization
	}

	result := domain.RiskScore{
		Trend:            domain.TrendStable,
		TotalOutstanding: decimal.Zero,
		LowRiskAmount:    decimal.Zero,
		MediumRiskAmount: decimal.Zero,
		HighRiskAmount:   decimal.Zero,
		OverdueAmount:    decimal.Zero,
	}

	isCustomer := true
	companies, err := s.companyRepo.List(ctx, s.db, orgID, companydomain.ListCompanyFilter{IsCustomer: &isCustomer})
	if err != nil {
		return domain.RiskScore{}, err
	}
	if len(companies) == 0 {
		return result, nil
	}

	companyIDs := make([]snowflake.ID, 0, len(companies))
	for _, company := range companies {
		companyIDs = append(companyIDs, company.ID)
	}

	invoices, err := s.invoiceRepo.ListOutstandingByCompanies(ctx, s.db, companyIDs)
	if err != nil {
		return domain.RiskScore{}, err
	}
	if len(invoices) == 0 {
		return result, nil
	}

	behaviors, err := s.behaviorRepo.FindByCompanies(ctx, s.db, companyIDs)
	if err != nil {
		return domain.RiskScore{}, err
	}
	riskByCompany := make(map[snowflake.ID]int, len(behaviors))
	for _, b := range behaviors {
		riskByCompany[b.CompanyID] = int(b.RiskScore)
	}

	now := s.clock.Now()
	weighted := decimal.Zero
	for _, inv := range invoices {
		risk, found := riskByCompany[inv.CompanyID]
		if !found {
			// No payment history yet: neutral baseline.
			risk = behaviordomain.NeutralRiskScore
		}

		result.TotalOutstanding = result.TotalOutstanding.Add(inv.Amount)
		weighted = weighted.Add(inv.Amount.Mul(decimal.NewFromInt(int64(risk))))

		switch {
		case risk < lowRiskBelow:
			result.LowRiskAmount = result.LowRiskAmount.Add(inv.Amount)
		case risk >= highRiskFrom:
			result.HighRiskAmount = result.HighRiskAmount.Add(inv.Amount)
		default:
			result.MediumRiskAmount = result.MediumRiskAmount.Add(inv.Amount)
		}

		if inv.StatusAt(now) == invoicedomain.InvoiceStatusOverdue {
			result.OverdueAmount = result.OverdueAmount.Add(inv.Amount)
		}
	}

	if result.TotalOutstanding.IsZero() {
		return result, nil
	}

	weightedMean, _ := weighted.Div(result.TotalOutstanding).Float64()
	result.Score = math.Round(weightedMean) / 10

	overdueRatio, _ := result.OverdueAmount.Div(result.TotalOutstanding).Float64()
	switch {
	case overdueRatio > trendUpRatio:
		result.Trend = domain.TrendUp
	case overdueRatio < trendDownRatio:
		result.Trend = domain.TrendDown
	default:
		result.Trend = domain.TrendStable
	}

	previous, err := s.snapshotRepo.FindLatestBefore(ctx, s.db, orgID, now.Add(-snapshotLookback))
	if err != nil {
		return domain.RiskScore{}, err
	}
	if previous != nil {
		result.ChangeThisWeek = result.Score - previous.Score
	}

	return result, nil
}

func (s *Service) TakeSnapshot(ctx context.Context) (domain.Snapshot, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Snapshot{}, domain.ErrInvalidOrganization
	}

	current, err := s.Compute(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}

	snapshot := domain.Snapshot{
		ID:               s.genID.Generate(),
		OrgID:            orgID,
		Score:            current.Score,
		TotalOutstanding: current.TotalOutstanding,
		OverdueAmount:    current.OverdueAmount,
		TakenAt:          s.clock.Now(),
	}
	if err := s.snapshotRepo.Insert(ctx, s.db, &snapshot); err != nil {
		return domain.Snapshot{}, err
	}

	obsmetrics.Engine().AddSnapshotTaken()
	s.log.Info("portfolio snapshot recorded",
		zap.String("org_id", orgID.String()),
		zap.Float64("score", snapshot.Score),
	)
	return snapshot, nil
}
