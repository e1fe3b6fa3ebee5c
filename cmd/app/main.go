package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"placesync/cmd/fx/config_fx"
	"placesync/cmd/fx/crawl_fx"
	"placesync/cmd/fx/db_fx"
	"placesync/cmd/fx/describe_fx"
	"placesync/cmd/fx/memcache_fx"
	"placesync/cmd/fx/places_fx"
	"placesync/cmd/fx/refresh_fx"
)

func main() {
	root := &cobra.Command{
		Use:           "placesync",
		Short:         "Keeps place images, reviews, hours, menus and descriptions in sync with the crawler",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newRefreshCmd())

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// coreModules is everything a refresh needs, without the HTTP layer.
func coreModules() fx.Option {
	return fx.Options(
		config_fx.Module,
		db_fx.Module,
		places_fx.Module,
		crawl_fx.Module,
		describe_fx.Module,
		memcache_fx.Module,
		refresh_fx.Module,
	)
}
