package asset

import (
	"github.com/meshmart/meshmart/internal/asset/repository"
	"github.com/meshmart/meshmart/internal/asset/service"
	"go.uber.org/fx"
)

var Module = fx.Module("asset.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
