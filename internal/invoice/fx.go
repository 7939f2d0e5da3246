package invoice

import (
	"github.com/latewatch/latewatch/internal/invoice/repository"
	"github.com/latewatch/latewatch/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
