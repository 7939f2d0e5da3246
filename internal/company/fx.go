package company

import (
	"github.com/latewatch/latewatch/internal/company/repository"
	"github.com/latewatch/latewatch/internal/company/service"
	"go.uber.org/fx"
)

var Module = fx.Module("company.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
