package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"weekly-plan/backend/internal/dto"
	"weekly-plan/backend/internal/model"
	"weekly-plan/backend/internal/repository"
)

// ── 邮件配置模块业务错误 ──

var (
	ErrEmailConfigNotFound = errors.New("邮件配置不存在")
)

// EmailConfigService 每用户邮件配置业务接口
type EmailConfigService interface {
	Get(ctx context.Context, userID string) (*dto.EmailConfigResponse, error)
	Save(ctx context.Context, userID string, req *dto.SaveEmailConfigRequest) (*dto.EmailConfigResponse, error)
}

type emailConfigService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEmailConfigService 创建 EmailConfigService 实例
func NewEmailConfigService(repo *repository.Repository, logger *zap.Logger) EmailConfigService {
	return &emailConfigService{repo: repo, logger: logger}
}

func (s *emailConfigService) Get(ctx context.Context, userID string) (*dto.EmailConfigResponse, error) {
	cfg, err := s.repo.EmailConfig.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmailConfigNotFound
		}
		return nil, err
	}
	resp := dto.ToEmailConfigResponse(cfg)
	return &resp, nil
}

// Save 整体覆盖保存；密码缺省沿用已存值，未知字段通过 Extra 原样透传
func (s *emailConfigService) Save(ctx context.Context, userID string, req *dto.SaveEmailConfigRequest) (*dto.EmailConfigResponse, error) {
	existing, err := s.repo.EmailConfig.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cfg := &model.EmailConfig{
		UserID:          userID,
		SMTPHost:        req.SMTPHost,
		SMTPPort:        req.SMTPPort,
		SMTPUsername:    req.SMTPUsername,
		Sender:          req.Sender,
		Recipients:      req.Recipients,
		UseSSL:          req.UseSSL,
		UseStartTLS:     req.UseStartTLS,
		ScheduleEnabled: req.ScheduleEnabled,
		ScheduleWeekday: req.ScheduleWeekday,
		ScheduleTime:    req.ScheduleTime,
	}
	if cfg.ScheduleWeekday == 0 {
		cfg.ScheduleWeekday = 1
	}
	if cfg.ScheduleTime == "" {
		cfg.ScheduleTime = "09:00"
	}

	// 密码与 Extra 缺省时沿用已存值（读改写兼容旧客户端）
	if req.SMTPPassword != nil {
		cfg.SMTPPassword = *req.SMTPPassword
	} else if existing != nil {
		cfg.SMTPPassword = existing.SMTPPassword
	}
	if req.Extra != nil {
		cfg.Extra = datatypes.JSON(req.Extra)
	} else if existing != nil {
		cfg.Extra = existing.Extra
	}

	if err := s.repo.EmailConfig.Save(ctx, cfg); err != nil {
		s.logger.Error("保存邮件配置失败", zap.Error(err), zap.String("user_id", userID))
		return nil, err
	}

	// 回读以获得数据库递增后的 version 与保留的 last_auto_sent 字段
	saved, err := s.repo.EmailConfig.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToEmailConfigResponse(saved)
	return &resp, nil
}
