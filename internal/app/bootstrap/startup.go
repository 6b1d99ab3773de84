// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"os"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := os.MkdirAll(appCfg.StorageLocalPath, 0o755); err != nil {
		logger.Error("failed to create local storage directory",
			zap.String("path", appCfg.StorageLocalPath), zap.Error(err))
		return err
	}
	logger.Info("spellhub starting",
		zap.String("storage_path", appCfg.StorageLocalPath),
		zap.Strings("user_groups", appCfg.UserGroups))
	return nil
}
