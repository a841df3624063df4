// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	visitorstore "github.com/dalemusser/parishhub/internal/app/store/visitors"
	"github.com/dalemusser/parishhub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// monitorSweep is started in Startup and stopped in Shutdown.
var monitorSweep *workers.MonitorSweep

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. ParishHub
// uses it to start the lapsed-window sweep worker.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	monitorSweep = workers.NewMonitorSweep(
		visitorstore.New(deps.ParishHubMongoDatabase),
		logger,
		appCfg.SweepInterval,
	)
	monitorSweep.Start()
	return nil
}
