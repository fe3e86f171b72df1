package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations 将库结构推进到最新版本，启动时调用，幂等
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("读取内嵌迁移文件: %w", err)
	}

	drv, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("初始化 postgres 迁移驱动: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", drv)
	if err != nil {
		return fmt.Errorf("构建迁移实例: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		version, _, _ := m.Version()
		logger.Info("数据库结构已是最新", zap.Uint("version", version))
	case err != nil:
		return fmt.Errorf("执行迁移: %w", err)
	default:
		version, dirty, _ := m.Version()
		if dirty {
			// dirty 表示某次迁移中途失败，需人工修复后重跑
			logger.Warn("迁移后处于 dirty 状态", zap.Uint("version", version))
			break
		}
		logger.Info("数据库迁移完成", zap.Uint("version", version))
	}

	return nil
}
