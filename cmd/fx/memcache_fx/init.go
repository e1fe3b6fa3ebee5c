package memcache_fx

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"placesync/internal/config"
	"placesync/internal/infra"
	mem "placesync/pkg/memcache"
)

var Module = fx.Provide(providePlaceLocker)

// providePlaceLocker prefers Redis so that locks hold across instances.
func providePlaceLocker(lc fx.Lifecycle, cfg config.Config) mem.PlaceLocker {
	rdb := infra.NewRedisClient(cfg)
	if rdb == nil {
		return mem.NewPlaceLocks()
	}

	log.Info().Str("addr", cfg.RedisAddr).Msg("using redis place locks")
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error { return rdb.Close() },
	})
	return infra.NewRedisPlaceLocker(rdb)
}
