package engagement

import (
	"github.com/latewatch/latewatch/internal/engagement/repository"
	"github.com/latewatch/latewatch/internal/engagement/service"
	"go.uber.org/fx"
)

var Module = fx.Module("engagement.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
