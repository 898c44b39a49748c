package notification

import (
	"github.com/redis/go-redis/v9"
	"github.com/smallbiznis/segmenta/internal/config"
	"github.com/smallbiznis/segmenta/internal/notification/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("notification",
	fx.Provide(NewOwnerLocks),
	fx.Provide(ProvideLocker),
	fx.Provide(repository.Provide),
)

// ProvideLocker returns a Redis-backed cross-replica locker when Redis is
// configured, nil otherwise.
func ProvideLocker(cfg config.Config) *Locker {
	if cfg.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	return NewLocker(client)
}
