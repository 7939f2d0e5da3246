package behavior

import (
	"github.com/latewatch/latewatch/internal/behavior/repository"
	"github.com/latewatch/latewatch/internal/behavior/service"
	"go.uber.org/fx"
)

var Module = fx.Module("behavior.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
