package audit

import (
	"github.com/formanet/formanet/internal/audit/repository"
	"github.com/formanet/formanet/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
