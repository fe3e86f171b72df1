package dto

import (
	"encoding/json"

	"weekly-plan/backend/internal/model"
)

// ── 邮件配置 DTO ──

// SaveEmailConfigRequest 保存邮件配置请求（整体覆盖，version 服务端递增）
//
// Extra 承载当前版本不认识的键，读改写时原样带回。
type SaveEmailConfigRequest struct {
	SMTPHost     string  `json:"smtp_host"     binding:"required,max=255"`
	SMTPPort     int     `json:"smtp_port"     binding:"required,gte=1,lte=65535"`
	SMTPUsername string  `json:"smtp_username" binding:"max=255"`
	SMTPPassword *string `json:"smtp_password" binding:"omitempty,max=255"` // 缺省沿用已存密码
	Sender       string  `json:"sender"        binding:"required,max=255"`
	Recipients   string  `json:"recipients"    binding:"required"`
	UseSSL       bool    `json:"use_ssl"`
	UseStartTLS  bool    `json:"use_starttls"`

	ScheduleEnabled bool   `json:"schedule_enabled"`
	ScheduleWeekday int    `json:"schedule_weekday" binding:"omitempty,gte=1,lte=7"`
	ScheduleTime    string `json:"schedule_time"    binding:"omitempty,datetime=15:04"`

	Extra json.RawMessage `json:"extra"`
}

// EmailConfigResponse 邮件配置响应（不回传密码）
type EmailConfigResponse struct {
	ConfigID        string          `json:"config_id"`
	SMTPHost        string          `json:"smtp_host"`
	SMTPPort        int             `json:"smtp_port"`
	SMTPUsername    string          `json:"smtp_username"`
	HasPassword     bool            `json:"has_password"`
	Sender          string          `json:"sender"`
	Recipients      string          `json:"recipients"`
	UseSSL          bool            `json:"use_ssl"`
	UseStartTLS     bool            `json:"use_starttls"`
	ScheduleEnabled bool            `json:"schedule_enabled"`
	ScheduleWeekday int             `json:"schedule_weekday"`
	ScheduleTime    string          `json:"schedule_time"`
	LastAutoSentKey *string         `json:"last_auto_sent_key,omitempty"`
	Extra           json.RawMessage `json:"extra,omitempty"`
	Version         int             `json:"version"`
}

// ToEmailConfigResponse 模型转响应
func ToEmailConfigResponse(c *model.EmailConfig) EmailConfigResponse {
	return EmailConfigResponse{
		ConfigID:        c.ConfigID,
		SMTPHost:        c.SMTPHost,
		SMTPPort:        c.SMTPPort,
		SMTPUsername:    c.SMTPUsername,
		HasPassword:     c.SMTPPassword != "",
		Sender:          c.Sender,
		Recipients:      c.Recipients,
		UseSSL:          c.UseSSL,
		UseStartTLS:     c.UseStartTLS,
		ScheduleEnabled: c.ScheduleEnabled,
		ScheduleWeekday: c.ScheduleWeekday,
		ScheduleTime:    c.ScheduleTime,
		LastAutoSentKey: c.LastAutoSentKey,
		Extra:           json.RawMessage(c.Extra),
		Version:         c.Version,
	}
}

// SendMailRequest 手动发送周报请求
type SendMailRequest struct {
	Year   *int    `json:"year"`
	WeekNo *int    `json:"week_no"`
	Date   *string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}
