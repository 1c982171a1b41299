package onboarding

import (
	"github.com/formanet/formanet/internal/onboarding/repository"
	"github.com/formanet/formanet/internal/onboarding/service"
	"go.uber.org/fx"
)

var Module = fx.Module("onboarding",
	fx.Provide(
		repository.NewRepository,
		service.NewService,
	),
)
