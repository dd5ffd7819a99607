package migration

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gridbill/internal/config"
	"github.com/smallbiznis/gridbill/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, node *snowflake.Node, log *zap.Logger) error {
		if err := Migrate(conn); err != nil {
			return err
		}
		if !cfg.SeedDefaults {
			return nil
		}

		seeded, err := seed.EnsureReferenceData(conn, node)
		if err != nil {
			return err
		}
		if seeded {
			log.Info("default tariffs, extra charges and fine schedule seeded")
		}
		return nil
	}),
)
