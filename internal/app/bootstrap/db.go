// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	auditstore "github.com/dalemusser/restok/internal/app/store/audit"
	organizationstore "github.com/dalemusser/restok/internal/app/store/organizations"
	setuptokenstore "github.com/dalemusser/restok/internal/app/store/setuptokens"
	supplystore "github.com/dalemusser/restok/internal/app/store/supplies"
	userstore "github.com/dalemusser/restok/internal/app/store/users"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// EnsureSchema creates the indexes every store depends on, including the
// unique email index that backs duplicate detection and the TTL index that
// reaps expired setup tokens.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.RestokMongoDatabase

	if err := userstore.New(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}
	if err := organizationstore.New(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("organizations indexes: %w", err)
	}
	if err := setuptokenstore.New(db, appCfg.SetupTokenExpiry).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("setup token indexes: %w", err)
	}
	if err := supplystore.New(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("supply indexes: %w", err)
	}
	if err := auditstore.New(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("audit indexes: %w", err)
	}

	logger.Info("database indexes ensured")
	return nil
}
