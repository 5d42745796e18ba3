package payment

import (
	"time"

	"github.com/meshmart/meshmart/internal/config"
	"github.com/meshmart/meshmart/internal/payment/domain"
	"github.com/meshmart/meshmart/internal/payment/gateway"
	"github.com/meshmart/meshmart/internal/payment/service"
	"github.com/meshmart/meshmart/internal/payment/signature"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("payment.service",
	fx.Provide(signature.NewVerifier),
	fx.Provide(func(cfg config.Config, creds config.Credentials, log *zap.Logger) domain.TransactionGateway {
		return gateway.NewClient(creds, time.Duration(cfg.Gateway.TimeoutSeconds)*time.Second, log)
	}),
	fx.Provide(service.New),
)
