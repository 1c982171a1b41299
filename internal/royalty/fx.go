package royalty

import (
	"github.com/formanet/formanet/internal/royalty/repository"
	"github.com/formanet/formanet/internal/royalty/service"
	"go.uber.org/fx"
)

var Module = fx.Module("royalty",
	fx.Provide(
		repository.NewRepository,
		service.NewService,
	),
)
