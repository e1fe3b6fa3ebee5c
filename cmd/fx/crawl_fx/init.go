package crawl_fx

import (
	"go.uber.org/fx"

	"placesync/internal/config"
	"placesync/internal/services"
)

var Module = fx.Provide(
	provideCrawlClient, provideImageStorage)

func provideCrawlClient(cfg config.Config) services.CrawlClient {
	return services.NewHTTPCrawlClient(cfg.CrawlerBaseURL, cfg.CrawlerTimeout)
}

func provideImageStorage(cfg config.Config) services.ImageStorage {
	return services.NewLocalImageStorage(cfg.ImageStorageDir, cfg.ImagePublicPrefix, cfg.ImageDownloadTimeout)
}
