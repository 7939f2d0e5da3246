package service

import (
	"context"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/latewatch/latewatch/internal/clock"
	"github.com/latewatch/latewatch/internal/config"
	"github.com/latewatch/latewatch/internal/engagement/domain"
	"github.com/latewatch/latewatch/internal/orgcontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// leaderboardWindow is the trailing sliding window, not calendar-aligned.
const leaderboardWindow = 7 * 24 * time.Hour

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	SweepCfg *config.SweepConfigHolder
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	sweepCfg *config.SweepConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("engagement.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		sweepCfg: p.SweepCfg,
	}
}

func (s *Service) Record(ctx context.Context, req domain.RecordEventRequest) (domain.Event, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Event{}, domain.ErrInvalidOrganization
	}
	if req.CompanyID == 0 {
		return domain.Event{}, domain.ErrInvalidCompany
	}
	if req.EventType == "" {
		return domain.Event{}, domain.ErrInvalidEventType
	}

	severity := req.Severity
	if severity == "" {
		severity = domain.SeverityInfo
	}
	metadata := req.Metadata
	if metadata == nil {
		metadata = datatypes.JSONMap{}
	}

	event := domain.Event{
		ID:        s.genID.Generate(),
		OrgID:     orgID,
		CompanyID: req.CompanyID,
		InvoiceID: req.InvoiceID,
		EventType: req.EventType,
		Message:   req.Message,
		Severity:  severity,
		Public:    req.Public,
		Metadata:  metadata,
		CreatedAt: s.clock.Now(),
	}

	if err := s.repo.Insert(ctx, s.db, &event); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

func (s *Service) Feed(ctx context.Context) ([]domain.Event, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	items, err := s.repo.ListPublicRecent(ctx, s.db, orgID, s.sweepCfg.Get().FeedSize)
	if err != nil {
		return nil, err
	}

	events := make([]domain.Event, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		events = append(events, *item)
	}
	return events, nil
}

func (s *Service) WeeklyLeaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	since := s.clock.Now().Add(-leaderboardWindow)
	events, err := s.repo.ListSince(ctx, s.db, orgID, []domain.EventType{
		domain.EventInvoiceUploaded,
		domain.EventPaymentRegistered,
		domain.EventQRScanned,
	}, since)
	if err != nil {
		return nil, err
	}

	type tally struct {
		uploads  int
		payments int
	}
	tallies := make(map[snowflake.ID]*tally)
	for _, event := range events {
		t := tallies[event.CompanyID]
		if t == nil {
			t = &tally{}
			tallies[event.CompanyID] = t
		}
		switch event.EventType {
		case domain.EventInvoiceUploaded:
			t.uploads++
		case domain.EventPaymentRegistered, domain.EventQRScanned:
			// Both channels confirm a payment and share one bucket.
			t.payments++
		}
	}

	entries := make([]domain.LeaderboardEntry, 0, len(tallies))
	for companyID, t := range tallies {
		entries = append(entries, domain.LeaderboardEntry{
			CompanyID:          companyID,
			InvoicesUploaded:   t.uploads,
			PaymentsRegistered: t.payments,
			TotalActivity:      t.uploads + t.payments,
		})
	}

	// Deterministic order: activity desc, then company ID asc as tiebreak.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalActivity != entries[j].TotalActivity {
			return entries[i].TotalActivity > entries[j].TotalActivity
		}
		return entries[i].CompanyID < entries[j].CompanyID
	})

	limit := s.sweepCfg.Get().LeaderboardSize
	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func (s *Service) Stats(ctx context.Context) (domain.WeeklyStats, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.WeeklyStats{}, domain.ErrInvalidOrganization
	}

	since := s.clock.Now().Add(-leaderboardWindow)
	events, err := s.repo.ListSince(ctx, s.db, orgID, []domain.EventType{
		domain.EventInvoiceUploaded,
		domain.EventPaymentRegistered,
		domain.EventQRScanned,
	}, since)
	if err != nil {
		return domain.WeeklyStats{}, err
	}

	unique := make(map[snowflake.ID]struct{})
	for _, event := range events {
		unique[event.CompanyID] = struct{}{}
	}

	companies := len(unique)
	divisor := companies
	if divisor == 0 {
		divisor = 1
	}

	return domain.WeeklyStats{
		TotalEvents:     len(events),
		UniqueCompanies: companies,
		AvgPerCompany:   float64(len(events)) / float64(divisor),
	}, nil
}
