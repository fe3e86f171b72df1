package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"weekly-plan/backend/config"
	"weekly-plan/backend/internal/calendar"
	"weekly-plan/backend/internal/model"
	"weekly-plan/backend/internal/repository"
)

// Bootstrap 首次启动初始化：管理员账号、默认字典、当月周期回填
//
// 所有步骤都是幂等的，重复启动不会产生副作用。
func Bootstrap(ctx context.Context, cfg *config.Config, repo *repository.Repository, svc *Service, logger *zap.Logger) error {
	if err := ensureAdmin(ctx, &cfg.Admin, repo, logger); err != nil {
		return err
	}
	if err := svc.Dict.SeedDefaults(ctx); err != nil {
		return err
	}

	// 锚点规则变更前写入的历史周期按周四锚点重算月份
	if _, err := svc.Period.HealAllMonths(ctx); err != nil {
		return err
	}

	// 回填当月周期，保证团队概览与报表查询无需等首个 ensure 请求
	now := time.Now()
	year, _, monday, _ := calendar.IsoWeek(now)
	month := calendar.MonthAnchor(monday)
	if _, err := svc.Period.EnsureMonth(ctx, year, month); err != nil {
		return err
	}

	logger.Info("启动初始化完成", zap.Int("year", year), zap.Int("month", month))
	return nil
}

// ensureAdmin 没有任何用户时创建初始管理员
func ensureAdmin(ctx context.Context, cfg *config.AdminConfig, repo *repository.Repository, logger *zap.Logger) error {
	if cfg.Username == "" || cfg.Password == "" {
		return nil
	}

	_, err := repo.User.GetByUsername(ctx, cfg.Username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	name := cfg.Name
	if name == "" {
		name = "系统管理员"
	}
	admin := &model.User{
		Username:     cfg.Username,
		Name:         name,
		Role:         model.RoleAdmin,
		PasswordHash: string(hash),
	}
	if err := repo.User.Create(ctx, admin); err != nil {
		// 多实例并发启动撞唯一约束视为已创建
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}

	logger.Info("初始管理员创建完成", zap.String("username", cfg.Username))
	return nil
}
