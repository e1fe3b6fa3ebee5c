package main

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"placesync/cmd/fx/controllers_fx"
	"placesync/internal/api/controllers"
	"placesync/internal/config"
	"placesync/pkg/middleware"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the admin refresh API",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fx.New(
				coreModules(),
				controllers_fx.Module,

				fx.Provide(ProvideRouter),
				fx.Invoke(StartServer),
				fx.NopLogger,
			)
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}
}

func StartServer(lc fx.Lifecycle, cfg config.Config, engine *gin.Engine) {
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: engine,
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				log.Info().Str("addr", srv.Addr).Msg("starting HTTP server")
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal().Err(err).Msg("HTTP server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

func ProvideRouter(
	cfg config.Config,
	refreshController *controllers.RefreshController,
	healthController *controllers.HealthController) *gin.Engine {

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())

	if cfg.ServesImagesLocally() {
		r.Static(cfg.ImagePublicPrefix, cfg.ImageStorageDir)
	}
	RegisterRoutes(r, refreshController, healthController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	refreshController *controllers.RefreshController,
	healthController *controllers.HealthController) {

	r.GET("/health", healthController.Health)

	adminGroup := r.Group("/admin/places")
	adminGroup.POST("/refresh", refreshController.RefreshAll)
	adminGroup.POST("/refresh/async", refreshController.RefreshAllAsync)
	adminGroup.POST("/refresh/page", refreshController.RefreshPage)

	adminGroup.POST("/:id/refresh", refreshController.RefreshPlace)
	adminGroup.POST("/:id/refresh/images", refreshController.RefreshImages)
	adminGroup.POST("/:id/refresh/reviews", refreshController.RefreshReviews)
	adminGroup.POST("/:id/refresh/business-hours", refreshController.RefreshBusinessHours)
	adminGroup.POST("/:id/refresh/menus", refreshController.RefreshMenus)
	adminGroup.POST("/:id/refresh/description", refreshController.RefreshDescription)
}
