package config_fx

import (
	"go.uber.org/fx"

	"placesync/internal/config"
)

var Module = fx.Provide(provideConfig)

func provideConfig() config.Config {
	cfg := config.Load()
	config.SetupLogger(cfg)
	return cfg
}
