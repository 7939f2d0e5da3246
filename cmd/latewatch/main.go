package main

import (
	"context"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/latewatch/latewatch/internal/behavior"
	"github.com/latewatch/latewatch/internal/blacklist"
	"github.com/latewatch/latewatch/internal/clock"
	"github.com/latewatch/latewatch/internal/company"
	"github.com/latewatch/latewatch/internal/config"
	"github.com/latewatch/latewatch/internal/distlock"
	"github.com/latewatch/latewatch/internal/engagement"
	"github.com/latewatch/latewatch/internal/invoice"
	"github.com/latewatch/latewatch/internal/migration"
	obsmetrics "github.com/latewatch/latewatch/internal/observability/metrics"
	"github.com/latewatch/latewatch/internal/portfolio"
	"github.com/latewatch/latewatch/internal/sweeper"
	"github.com/latewatch/latewatch/pkg/db"
	"github.com/latewatch/latewatch/pkg/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		fx.Provide(config.NewSweepConfigHolder),
		db.Module,
		clock.Module,
		distlock.Module,
		migration.Module,

		// Functional domains
		company.Module,
		invoice.Module,
		behavior.Module,
		engagement.Module,
		blacklist.Module,
		portfolio.Module,
		sweeper.Module,

		fx.Invoke(initMetrics),
		fx.Invoke(serveMetrics),
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

func initMetrics(cfg config.Config) {
	obsmetrics.EngineWithConfig(obsmetrics.Config{
		ServiceName: cfg.AppName,
		Environment: cfg.Environment,
	})
}

func serveMetrics(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("metrics listener stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
}
