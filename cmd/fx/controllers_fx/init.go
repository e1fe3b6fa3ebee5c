package controllers_fx

import (
	"go.uber.org/fx"

	"placesync/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewRefreshController),
	fx.Provide(controllers.NewHealthController))
