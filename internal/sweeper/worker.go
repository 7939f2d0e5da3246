// Package sweeper drives the externally triggered batch jobs: the
// blacklist auto-escalation sweep and the weekly portfolio snapshot.
// All jobs are idempotent, so partial completion is safe to rerun.
package sweeper

import (
	"context"
	"time"

	blacklistdomain "github.com/latewatch/latewatch/internal/blacklist/domain"
	"github.com/latewatch/latewatch/internal/clock"
	companydomain "github.com/latewatch/latewatch/internal/company/domain"
	"github.com/latewatch/latewatch/internal/distlock"
	obsmetrics "github.com/latewatch/latewatch/internal/observability/metrics"
	"github.com/latewatch/latewatch/internal/orgcontext"
	portfoliodomain "github.com/latewatch/latewatch/internal/portfolio/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sweepLockKey = "latewatch:sweeper:run"

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Clock        clock.Clock
	BlacklistSvc blacklistdomain.Service
	PortfolioSvc portfoliodomain.Service
	CompanyRepo  companydomain.Repository
	SnapshotRepo portfoliodomain.SnapshotRepository
	Locker       *distlock.Locker `optional:"true"`
	Config       Config           `optional:"true"`
}

type Worker struct {
	db           *gorm.DB
	log          *zap.Logger
	clock        clock.Clock
	blacklistSvc blacklistdomain.Service
	portfolioSvc portfoliodomain.Service
	companyRepo  companydomain.Repository
	snapshotRepo portfoliodomain.SnapshotRepository
	locker       *distlock.Locker
	cfg          Config
}

func NewWorker(p Params) *Worker {
	return &Worker{
		db:           p.DB,
		log:          p.Log.Named("sweeper"),
		clock:        p.Clock,
		blacklistSvc: p.BlacklistSvc,
		portfolioSvc: p.PortfolioSvc,
		companyRepo:  p.CompanyRepo,
		snapshotRepo: p.SnapshotRepo,
		locker:       p.Locker,
		cfg:          p.Config.withDefaults(),
	}
}

func (w *Worker) RunForever(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if err := w.RunOnce(ctx); err != nil {
			w.log.Warn("sweep run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (w *Worker) RunOnce(parentCtx context.Context) error {
	ctx, cancel := context.WithTimeout(parentCtx, w.cfg.RunTimeout)
	defer cancel()

	if w.locker != nil {
		token, acquired, err := w.locker.TryLock(ctx, sweepLockKey, w.cfg.LockTTL)
		if err != nil {
			return err
		}
		if !acquired {
			// Another instance holds the sweep; idempotency makes
			// skipping this round harmless.
			return nil
		}
		defer func() {
			if err := w.locker.Release(ctx, sweepLockKey, token); err != nil {
				w.log.Warn("sweep lock release failed", zap.Error(err))
			}
		}()
	}

	w.runJob(ctx, "blacklist_escalation", w.runEscalation)
	w.runJob(ctx, "portfolio_snapshot", w.runSnapshots)
	return nil
}

func (w *Worker) runJob(ctx context.Context, name string, job func(context.Context) error) {
	started := time.Now()
	err := job(ctx)
	obsmetrics.Engine().ObserveJob(name, time.Since(started), err)
	if err != nil {
		w.log.Warn("sweep job failed", zap.String("job", name), zap.Error(err))
	}
}

func (w *Worker) runEscalation(ctx context.Context) error {
	created, err := w.blacklistSvc.AutoEscalate(ctx)
	if err != nil {
		return err
	}
	if created > 0 {
		w.log.Info("blacklist sweep escalated companies", zap.Int("count", created))
	}
	return nil
}

// runSnapshots appends one portfolio snapshot per org whose series has
// gone stale, keeping the weekly comparison base fresh.
func (w *Worker) runSnapshots(ctx context.Context) error {
	orgIDs, err := w.companyRepo.ListOrgIDs(ctx, w.db)
	if err != nil {
		return err
	}

	now := w.clock.Now()
	for _, orgID := range orgIDs {
		latest, err := w.snapshotRepo.FindLatestBefore(ctx, w.db, orgID, now)
		if err != nil {
			w.log.Warn("snapshot lookup failed", zap.String("org_id", orgID.String()), zap.Error(err))
			continue
		}
		if latest != nil && now.Sub(latest.TakenAt) < w.cfg.SnapshotEvery {
			continue
		}

		orgCtx := orgcontext.WithOrgID(ctx, int64(orgID))
		if _, err := w.portfolioSvc.TakeSnapshot(orgCtx); err != nil {
			w.log.Warn("portfolio snapshot failed", zap.String("org_id", orgID.String()), zap.Error(err))
		}
	}
	return nil
}
