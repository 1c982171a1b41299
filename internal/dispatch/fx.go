package dispatch

import (
	"github.com/formanet/formanet/internal/dispatch/repository"
	"github.com/formanet/formanet/internal/dispatch/service"
	"go.uber.org/fx"
)

var Module = fx.Module("dispatch.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
