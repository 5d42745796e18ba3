package order

import (
	"github.com/meshmart/meshmart/internal/order/repository"
	"github.com/meshmart/meshmart/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
