package account

import (
	"github.com/formanet/formanet/internal/account/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("account",
	fx.Provide(repository.NewRepository),
)
