package blacklist

import (
	"github.com/latewatch/latewatch/internal/blacklist/repository"
	"github.com/latewatch/latewatch/internal/blacklist/service"
	"go.uber.org/fx"
)

var Module = fx.Module("blacklist.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
