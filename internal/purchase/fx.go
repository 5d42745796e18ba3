package purchase

import (
	"github.com/meshmart/meshmart/internal/purchase/repository"
	"github.com/meshmart/meshmart/internal/purchase/service"
	"go.uber.org/fx"
)

var Module = fx.Module("purchase.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
