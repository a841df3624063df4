// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown cleanly tears down the sweep worker and DB connections.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if monitorSweep != nil {
		monitorSweep.Stop()
		monitorSweep = nil
	}

	if deps.ParishHubMongoClient != nil {
		logger.Info("disconnecting ParishHub MongoDB client")
		if err := deps.ParishHubMongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
