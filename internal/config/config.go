// Package config loads runtime settings from the environment (and an optional .env file).
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	PostgresURL string
	AutoMigrate bool

	CrawlerBaseURL string
	CrawlerTimeout time.Duration

	ImageStorageDir      string
	ImagePublicPrefix    string
	ImageDownloadTimeout time.Duration

	DescriptionProvider      string
	OpenAIAPIKey             string
	OpenAIModel              string
	GeminiAPIKey             string
	GeminiModel              string
	RefreshDescriptionOnFull bool

	BatchRatePerSecond float64

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	PlaceLockTTL  time.Duration

	LogLevel  string
	LogFormat string
}

// DefaultImagePublicPrefix is used when IMAGE_PUBLIC_PREFIX is empty or "/".
const DefaultImagePublicPrefix = "/images"

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("AUTO_MIGRATE", false)
	v.SetDefault("CRAWLER_BASE_URL", "http://localhost:8000")
	v.SetDefault("CRAWLER_TIMEOUT", 3*time.Minute)
	v.SetDefault("IMAGE_STORAGE_DIR", "./storage/images")
	v.SetDefault("IMAGE_PUBLIC_PREFIX", DefaultImagePublicPrefix)
	v.SetDefault("IMAGE_DOWNLOAD_TIMEOUT", 20*time.Second)
	v.SetDefault("DESCRIPTION_PROVIDER", "none")
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("REFRESH_DESCRIPTION_ON_FULL", false)
	v.SetDefault("BATCH_RATE_PER_SECOND", 0.0)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("PLACE_LOCK_TTL", 10*time.Minute)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not read .env file")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

func FromViper(v *viper.Viper) Config {
	return Config{
		Port:                     v.GetString("PORT"),
		PostgresURL:              v.GetString("POSTGRES_URL"),
		AutoMigrate:              v.GetBool("AUTO_MIGRATE"),
		CrawlerBaseURL:           strings.TrimRight(v.GetString("CRAWLER_BASE_URL"), "/"),
		CrawlerTimeout:           v.GetDuration("CRAWLER_TIMEOUT"),
		ImageStorageDir:          v.GetString("IMAGE_STORAGE_DIR"),
		ImagePublicPrefix:        NormalizeImagePrefix(v.GetString("IMAGE_PUBLIC_PREFIX")),
		ImageDownloadTimeout:     v.GetDuration("IMAGE_DOWNLOAD_TIMEOUT"),
		DescriptionProvider:      v.GetString("DESCRIPTION_PROVIDER"),
		OpenAIAPIKey:             v.GetString("OPENAI_API_KEY"),
		OpenAIModel:              v.GetString("OPENAI_MODEL"),
		GeminiAPIKey:             v.GetString("GEMINI_API_KEY"),
		GeminiModel:              v.GetString("GEMINI_MODEL"),
		RefreshDescriptionOnFull: v.GetBool("REFRESH_DESCRIPTION_ON_FULL"),
		BatchRatePerSecond:       v.GetFloat64("BATCH_RATE_PER_SECOND"),
		RedisAddr:                v.GetString("REDIS_ADDR"),
		RedisPassword:            v.GetString("REDIS_PASSWORD"),
		RedisDB:                  v.GetInt("REDIS_DB"),
		PlaceLockTTL:             v.GetDuration("PLACE_LOCK_TTL"),
		LogLevel:                 v.GetString("LOG_LEVEL"),
		LogFormat:                v.GetString("LOG_FORMAT"),
	}
}

// NormalizeImagePrefix trims trailing slashes and makes a relative prefix
// absolute. An empty result falls back to DefaultImagePublicPrefix, since the
// router cannot serve files from the site root.
func NormalizeImagePrefix(prefix string) string {
	p := strings.TrimRight(strings.TrimSpace(prefix), "/")
	if p == "" {
		return DefaultImagePublicPrefix
	}
	if !strings.Contains(p, "://") && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// ServesImagesLocally reports whether stored images are served by this process
// rather than by an external host named in the prefix.
func (c Config) ServesImagesLocally() bool {
	return strings.HasPrefix(c.ImagePublicPrefix, "/")
}

// DescriptionCredentials returns the api key and model for the configured provider.
func (c Config) DescriptionCredentials() (apiKey, model string) {
	switch strings.ToLower(c.DescriptionProvider) {
	case "openai":
		return c.OpenAIAPIKey, c.OpenAIModel
	case "gemini":
		return c.GeminiAPIKey, c.GeminiModel
	}
	return "", ""
}

// SetupLogger configures the global zerolog logger.
func SetupLogger(c Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if strings.EqualFold(c.LogFormat, "console") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
