// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/orgadmin/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		t := timeouts.Current()
		logger.Info("operation timeouts overridden",
			zap.Duration("ping", t.Ping),
			zap.Duration("short", t.Short),
			zap.Duration("long", t.Long))
	}

	logger.Info("orgadmin configured",
		zap.String("env", coreCfg.Env),
		zap.Duration("jwt_ttl", appCfg.JWTTTL),
		zap.Int("bcrypt_cost", appCfg.BcryptCost),
		zap.Int("login_rate_limit", appCfg.LoginRateLimit),
		zap.Duration("login_rate_window", appCfg.LoginRateWindow),
		zap.String("audit_log", appCfg.AuditLog))
	return nil
}
