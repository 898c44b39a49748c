package migration

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/segmenta/internal/config"
	"github.com/smallbiznis/segmenta/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, genID *snowflake.Node) error {
		if err := RunMigrations(conn); err != nil {
			return err
		}

		if cfg.SeedDemoData {
			return seed.EnsureDemoData(conn, genID)
		}
		return nil
	}),
)
