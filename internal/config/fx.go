package config

import "go.uber.org/fx"

// Module provides the application Config and the resolved gateway credentials.
var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(func(cfg Config) Credentials {
		return cfg.Gateway.Resolve()
	}),
)
