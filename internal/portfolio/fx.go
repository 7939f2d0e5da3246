package portfolio

import (
	"github.com/latewatch/latewatch/internal/portfolio/repository"
	"github.com/latewatch/latewatch/internal/portfolio/service"
	"go.uber.org/fx"
)

var Module = fx.Module("portfolio.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
