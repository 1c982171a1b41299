package organization

import (
	"github.com/formanet/formanet/internal/organization/repository"
	"github.com/formanet/formanet/internal/organization/service"
	"go.uber.org/fx"
)

var Module = fx.Module("organization.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
