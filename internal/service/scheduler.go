package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"weekly-plan/backend/config"
	"weekly-plan/backend/internal/calendar"
	"weekly-plan/backend/internal/dto"
	"weekly-plan/backend/internal/model"
	"weekly-plan/backend/internal/repository"
)

// AutoSendScheduler 周报自动发送调度器
//
// 以固定间隔轮询启用了定时发送的邮件配置：当前时刻跨过配置的
// "星期 + 时间"触发点，且本周期还没尝试过，就发送一次。
//
// 幂等键是 last_auto_sent_key（"2024-W5" 这类周期键），发送成功与
// 失败都写入——每周期至多尝试一次，失败留给用户手动补发，
// 不做自动重试，避免对着坏掉的 SMTP 反复投递。
type AutoSendScheduler struct {
	cfg    *config.SchedulerConfig
	repo   *repository.Repository
	mail   MailService
	logger *zap.Logger

	now  func() time.Time // 测试注入
	stop chan struct{}
	done chan struct{}
}

// NewAutoSendScheduler 创建调度器实例
func NewAutoSendScheduler(
	cfg *config.SchedulerConfig,
	repo *repository.Repository,
	mail MailService,
	logger *zap.Logger,
) *AutoSendScheduler {
	return &AutoSendScheduler{
		cfg:    cfg,
		repo:   repo,
		mail:   mail,
		logger: logger,
		now:    time.Now,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start 启动轮询循环（独立 goroutine）
func (s *AutoSendScheduler) Start() {
	if !s.cfg.Enabled {
		s.logger.Info("自动发送调度器未启用")
		close(s.done)
		return
	}

	interval := s.cfg.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	s.logger.Info("自动发送调度器启动", zap.Duration("interval", interval))

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.Tick(context.Background())
			}
		}
	}()
}

// Stop 停止调度器并等待当前轮次结束
func (s *AutoSendScheduler) Stop() {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	<-s.done
	s.logger.Info("自动发送调度器已停止")
}

// Tick 执行一轮扫描
func (s *AutoSendScheduler) Tick(ctx context.Context) {
	configs, err := s.repo.EmailConfig.ListScheduleEnabled(ctx)
	if err != nil {
		s.logger.Error("查询定时发送配置失败", zap.Error(err))
		return
	}

	now := s.now()
	for i := range configs {
		s.process(ctx, &configs[i], now)
	}
}

func (s *AutoSendScheduler) process(ctx context.Context, cfg *model.EmailConfig, now time.Time) {
	due, periodKey := s.Due(cfg, now)
	if !due {
		return
	}

	logger := s.logger.With(
		zap.String("user_id", cfg.UserID),
		zap.String("period", periodKey))

	err := s.mail.SendWeeklyReport(ctx, cfg.UserID, &dto.SendMailRequest{})
	if err != nil {
		// 配置/数据类失败同样消耗本周期的唯一一次机会
		if errors.Is(err, ErrMailPlanNotSubmitted) {
			logger.Info("自动发送跳过：本周期无已提交计划")
		} else {
			logger.Warn("自动发送失败", zap.Error(err))
		}
	} else {
		logger.Info("自动发送成功")
	}

	s.recordAttempt(ctx, cfg.UserID, periodKey, err)

	if err := s.repo.EmailConfig.UpdateLastAutoSent(ctx, cfg.ConfigID, periodKey); err != nil {
		logger.Error("写入自动发送标记失败", zap.Error(err))
	}
}

// recordAttempt 发送尝试落审计日志，成功与失败都留痕
func (s *AutoSendScheduler) recordAttempt(ctx context.Context, userID, periodKey string, sendErr error) {
	outcome := "sent"
	if sendErr != nil {
		outcome = "failed: " + sendErr.Error()
	}
	extra, _ := json.Marshal(map[string]string{
		"period":  periodKey,
		"outcome": outcome,
	})
	entry := &model.OperationLog{
		UserID: &userID,
		Action: "scheduler:auto_send",
		Extra:  extra,
	}
	if err := s.repo.OperationLog.Create(ctx, entry); err != nil {
		s.logger.Warn("写入自动发送审计日志失败", zap.Error(err))
	}
}

// Due 判断配置在 now 时刻是否到达触发点且本周期未尝试过
// 返回本周期的幂等键
func (s *AutoSendScheduler) Due(cfg *model.EmailConfig, now time.Time) (bool, string) {
	year, weekNo, _, _ := calendar.IsoWeek(now)
	periodKey := model.PeriodKey(year, weekNo)

	if cfg.LastAutoSentKey != nil && *cfg.LastAutoSentKey == periodKey {
		return false, periodKey
	}

	weekday := calendar.ISOWeekday(now)
	if weekday != cfg.ScheduleWeekday {
		return false, periodKey
	}

	hour, minute, ok := parseClock(cfg.ScheduleTime)
	if !ok {
		return false, periodKey
	}
	if now.Hour() < hour || (now.Hour() == hour && now.Minute() < minute) {
		return false, periodKey
	}
	return true, periodKey
}

// parseClock 解析 "HH:MM"
func parseClock(raw string) (hour, minute int, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(raw), ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	if _, err := fmt.Sscanf(parts[0]+" "+parts[1], "%d %d", &hour, &minute); err != nil {
		return 0, 0, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}
