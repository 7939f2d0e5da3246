package migration

import (
	behaviordomain "github.com/latewatch/latewatch/internal/behavior/domain"
	blacklistdomain "github.com/latewatch/latewatch/internal/blacklist/domain"
	companydomain "github.com/latewatch/latewatch/internal/company/domain"
	"github.com/latewatch/latewatch/internal/config"
	engagementdomain "github.com/latewatch/latewatch/internal/engagement/domain"
	invoicedomain "github.com/latewatch/latewatch/internal/invoice/domain"
	portfoliodomain "github.com/latewatch/latewatch/internal/portfolio/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}

		// Non-postgres modes (sqlite dev, mysql) fall back to schema sync.
		return conn.AutoMigrate(
			&companydomain.Company{},
			&invoicedomain.Invoice{},
			&behaviordomain.PaymentBehavior{},
			&blacklistdomain.Entry{},
			&engagementdomain.Event{},
			&portfoliodomain.Snapshot{},
		)
	}),
)
