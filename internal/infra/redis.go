package infra

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"placesync/internal/config"
)

// NewRedisClient returns nil when REDIS_ADDR is unset or the server does not
// answer a ping; callers then fall back to in-process locking.
func NewRedisClient(cfg config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, using in-memory place locks")
		_ = client.Close()
		return nil
	}
	return client
}

const placeLockPrefix = "placesync:refresh-lock:"

// releaseLockScript deletes the key only if it still holds the caller's token.
const releaseLockScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// RedisPlaceLocker implements mem.PlaceLocker with SET NX so that several
// service instances do not refresh the same place at once.
type RedisPlaceLocker struct {
	rdb *redis.Client
}

func NewRedisPlaceLocker(rdb *redis.Client) *RedisPlaceLocker {
	return &RedisPlaceLocker{rdb: rdb}
}

func (l *RedisPlaceLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, placeLockPrefix+key, token, ttl).Result()
	if err != nil || !ok {
		return "", false, err
	}
	return token, true, nil
}

func (l *RedisPlaceLocker) Unlock(ctx context.Context, key, token string) error {
	return l.rdb.Eval(ctx, releaseLockScript, []string{placeLockPrefix + key}, token).Err()
}
