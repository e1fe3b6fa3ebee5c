package refresh_fx

import (
	"go.uber.org/fx"

	"placesync/internal/config"
	"placesync/internal/repositories"
	"placesync/internal/services"
	mem "placesync/pkg/memcache"
	"placesync/pkg/utils"
)

var Module = fx.Provide(
	provideRefreshService,
	provideRefreshServiceInterface,
	provideBatchService)

func provideRefreshService(
	cfg config.Config,
	placeRepo repositories.PlaceRepository,
	crawler services.CrawlClient,
	storage services.ImageStorage,
	generator utils.DescriptionGenerator,
	locker mem.PlaceLocker,
) *services.RefreshService {
	return services.NewRefreshService(placeRepo, crawler, storage, generator, locker, services.RefreshOptions{
		DescriptionOnFull: cfg.RefreshDescriptionOnFull,
		LockTTL:           cfg.PlaceLockTTL,
	})
}

func provideRefreshServiceInterface(svc *services.RefreshService) services.RefreshServiceInterface {
	return svc
}

func provideBatchService(cfg config.Config, placeRepo repositories.PlaceRepository, svc *services.RefreshService) services.BatchRefreshServiceInterface {
	return services.NewBatchRefreshService(placeRepo, svc, cfg.BatchRatePerSecond)
}
