package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	behaviordomain "github.com/latewatch/latewatch/internal/behavior/domain"
	"github.com/latewatch/latewatch/internal/blacklist/domain"
	"github.com/latewatch/latewatch/internal/clock"
	"github.com/latewatch/latewatch/internal/config"
	engagementdomain "github.com/latewatch/latewatch/internal/engagement/domain"
	obsmetrics "github.com/latewatch/latewatch/internal/observability/metrics"
	"github.com/latewatch/latewatch/internal/orgcontext"
	pkgdb "github.com/latewatch/latewatch/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	GenID         *snowflake.Node
	Clock         clock.Clock
	Repo          domain.Repository
	BehaviorRepo  behaviordomain.Repository
	EngagementSvc engagementdomain.Service
	SweepCfg      *config.SweepConfigHolder
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	genID         *snowflake.Node
	clock         clock.Clock
	repo          domain.Repository
	behaviorRepo  behaviordomain.Repository
	engagementSvc engagementdomain.Service
	sweepCfg      *config.SweepConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("blacklist.service"),
		genID:         p.GenID,
		clock:         p.Clock,
		repo:          p.Repo,
		behaviorRepo:  p.BehaviorRepo,
		engagementSvc: p.EngagementSvc,
		sweepCfg:      p.SweepCfg,
	}
}

func (s *Service) Add(ctx context.Context, req domain.AddEntryRequest) (domain.Entry, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Entry{}, domain.ErrInvalidOrganization
	}

	companyID, err := s.parseID(req.CompanyID)
	if err != nil {
		return domain.Entry{}, domain.ErrInvalidCompany
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return domain.Entry{}, domain.ErrInvalidReason
	}

	addedBy := strings.TrimSpace(req.AddedBy)
	if addedBy == "" {
		addedBy = domain.SystemActor
	}

	var score int64 = behaviordomain.NeutralRiskScore
	behavior, err := s.behaviorRepo.FindByCompany(ctx, s.db, companyID)
	if err != nil {
		return domain.Entry{}, err
	}
	if behavior != nil {
		score = behavior.RiskScore
	}

	entry, err := s.insertEntry(ctx, orgID, companyID, reason, score, addedBy)
	if err != nil {
		return domain.Entry{}, err
	}
	return *entry, nil
}

func (s *Service) Resolve(ctx context.Context, req domain.ResolveEntryRequest) (domain.Entry, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Entry{}, domain.ErrInvalidOrganization
	}

	id, err := s.parseID(req.EntryID)
	if err != nil {
		return domain.Entry{}, err
	}

	entry, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return domain.Entry{}, err
	}
	if entry == nil {
		return domain.Entry{}, domain.ErrNotFound
	}

	entry.Status = domain.EntryStatusResolved
	entry.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, entry); err != nil {
		return domain.Entry{}, err
	}
	return *entry, nil
}

func (s *Service) ListActive(ctx context.Context) ([]domain.Entry, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	items, err := s.repo.ListActive(ctx, s.db, orgID)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.Entry, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		entries = append(entries, *item)
	}
	return entries, nil
}

// AutoEscalate blacklists every company whose risk score has crossed the
// threshold and has no active entry yet. One-way gate: entries are never
// auto-resolved when risk later drops. Per-company failures are isolated
// so a crash mid-sweep is safe to rerun.
func (s *Service) AutoEscalate(ctx context.Context) (int, error) {
	threshold := s.sweepCfg.Get().BlacklistThreshold

	behaviors, err := s.behaviorRepo.ListAtOrAbove(ctx, s.db, threshold)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, behavior := range behaviors {
		ok, err := s.escalateOne(ctx, behavior, threshold)
		if err != nil {
			s.log.Warn("auto-escalation skipped company",
				zap.String("company_id", behavior.CompanyID.String()),
				zap.Error(err),
			)
			continue
		}
		if ok {
			created++
		}
	}

	obsmetrics.Engine().AddCompaniesEscalated(created)
	if created > 0 {
		s.log.Info("auto-escalation sweep finished",
			zap.Int("scanned", len(behaviors)),
			zap.Int("escalated", created),
		)
	}
	return created, nil
}

func (s *Service) escalateOne(ctx context.Context, behavior *behaviordomain.PaymentBehavior, threshold int) (bool, error) {
	existing, err := s.repo.FindActiveByCompany(ctx, s.db, behavior.CompanyID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	reason := fmt.Sprintf("Automatically blacklisted: risk score %d reached the threshold of %d", behavior.RiskScore, threshold)

	// Sweep runs outside any request; scope the org per company row.
	orgCtx := orgcontext.WithOrgID(ctx, int64(behavior.OrgID))
	if _, err := s.insertEntry(orgCtx, behavior.OrgID, behavior.CompanyID, reason, behavior.RiskScore, domain.SystemActor); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			// Concurrent sweep won the race; nothing to do.
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Service) insertEntry(ctx context.Context, orgID, companyID snowflake.ID, reason string, score int64, addedBy string) (*domain.Entry, error) {
	existing, err := s.repo.FindActiveByCompany(ctx, s.db, companyID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrAlreadyBlacklisted
	}

	now := s.clock.Now()
	entry := domain.Entry{
		ID:              s.genID.Generate(),
		OrgID:           orgID,
		CompanyID:       companyID,
		Reason:          reason,
		RiskScoreAtTime: score,
		Status:          domain.EntryStatusActive,
		AddedBy:         addedBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Insert(ctx, s.db, &entry); err != nil {
		return nil, err
	}

	if _, err := s.engagementSvc.Record(ctx, engagementdomain.RecordEventRequest{
		CompanyID: companyID,
		EventType: engagementdomain.EventBlacklistAdded,
		Message:   reason,
		Severity:  engagementdomain.SeverityWarning,
		Public:    true,
	}); err != nil {
		// The entry itself is committed; the feed misses one line.
		s.log.Warn("blacklist event not recorded",
			zap.String("company_id", companyID.String()),
			zap.Error(err),
		)
	}
	return &entry, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
