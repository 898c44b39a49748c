package telegram

import (
	"github.com/smallbiznis/segmenta/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("providers.telegram",
	fx.Provide(Provide),
)

func Provide(cfg config.Config, log *zap.Logger) Provider {
	if cfg.TelegramBotToken == "" {
		log.Named("providers.telegram").Warn("no bot token configured, alerts will not be delivered")
		return &NoOpProvider{}
	}
	return NewBotProvider(cfg.TelegramBotToken)
}
