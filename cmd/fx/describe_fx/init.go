package describe_fx

import (
	"context"
	"io"

	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"placesync/internal/config"
	"placesync/pkg/utils"
)

var Module = fx.Provide(ProvideDescriptionGenerator)

// ProvideDescriptionGenerator returns a nil generator when DESCRIPTION_PROVIDER
// is "none"; descriptions are then composed from crawled text only.
func ProvideDescriptionGenerator(lc fx.Lifecycle, cfg config.Config) (utils.DescriptionGenerator, error) {
	apiKey, model := cfg.DescriptionCredentials()
	generator, err := utils.NewDescriptionGenerator(cfg.DescriptionProvider, apiKey, model)
	if err != nil {
		return nil, err
	}
	if generator == nil {
		log.Info().Msg("description generation disabled")
		return nil, nil
	}

	log.Info().Str("provider", cfg.DescriptionProvider).Str("model", model).Msg("description generator ready")
	if closer, ok := generator.(io.Closer); ok {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error { return closer.Close() },
		})
	}
	return generator, nil
}
