package territory

import (
	"github.com/formanet/formanet/internal/territory/repository"
	"github.com/formanet/formanet/internal/territory/service"
	"go.uber.org/fx"
)

var Module = fx.Module("territory.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
