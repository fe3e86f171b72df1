package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"weekly-plan/backend/internal/model"
)

// EmailConfigRepository 邮件配置数据访问接口
type EmailConfigRepository interface {
	GetByUserID(ctx context.Context, userID string) (*model.EmailConfig, error)
	Save(ctx context.Context, cfg *model.EmailConfig) error
	ListScheduleEnabled(ctx context.Context) ([]model.EmailConfig, error)
	UpdateLastAutoSent(ctx context.Context, configID, key string) error
}

type emailConfigRepo struct {
	db *gorm.DB
}

// NewEmailConfigRepo 创建 EmailConfigRepository 实例
func NewEmailConfigRepo(db *gorm.DB) EmailConfigRepository {
	return &emailConfigRepo{db: db}
}

func (r *emailConfigRepo) GetByUserID(ctx context.Context, userID string) (*model.EmailConfig, error) {
	var cfg model.EmailConfig
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save 按 user_id 幂等写入（存在则整行更新并递增 version）
func (r *emailConfigRepo) Save(ctx context.Context, cfg *model.EmailConfig) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"smtp_host":          cfg.SMTPHost,
				"smtp_port":          cfg.SMTPPort,
				"smtp_username":      cfg.SMTPUsername,
				"smtp_password":      cfg.SMTPPassword,
				"sender":             cfg.Sender,
				"recipients":         cfg.Recipients,
				"use_ssl":            cfg.UseSSL,
				"use_starttls":       cfg.UseStartTLS,
				"schedule_enabled":   cfg.ScheduleEnabled,
				"schedule_weekday":   cfg.ScheduleWeekday,
				"schedule_time":      cfg.ScheduleTime,
				"extra":              cfg.Extra,
				"version":            gorm.Expr("email_configs.version + 1"),
				"updated_at":         gorm.Expr("CURRENT_TIMESTAMP"),
			}),
		}).
		Create(cfg).Error
}

func (r *emailConfigRepo) ListScheduleEnabled(ctx context.Context) ([]model.EmailConfig, error) {
	var cfgs []model.EmailConfig
	err := r.db.WithContext(ctx).
		Where("schedule_enabled = ?", true).
		Order("user_id").
		Find(&cfgs).Error
	return cfgs, err
}

// UpdateLastAutoSent 写入最近一次自动发送尝试的周期键与时间戳
func (r *emailConfigRepo) UpdateLastAutoSent(ctx context.Context, configID, key string) error {
	return r.db.WithContext(ctx).
		Model(&model.EmailConfig{}).
		Where("config_id = ?", configID).
		Updates(map[string]interface{}{
			"last_auto_sent_key": key,
			"last_auto_sent_at":  gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}
