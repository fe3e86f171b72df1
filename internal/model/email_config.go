package model

import (
	"time"

	"gorm.io/datatypes"
)

// EmailConfig 每用户邮件/定时发送配置 — 对应 email_configs
//
// 历史版本以松散 JSON 文档存放用户配置；此处改为显式带版本的记录。
// Extra 列保留当前写入路径不认识的键（如更老或更新版本写入的字段），
// 读改写时原样带回，保证向前兼容。
type EmailConfig struct {
	ConfigID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"config_id"`
	UserID       string `gorm:"type:uuid;not null;uniqueIndex"                 json:"user_id"`
	SMTPHost     string `gorm:"type:varchar(255);not null;default:''"          json:"smtp_host"`
	SMTPPort     int    `gorm:"not null;default:25"                            json:"smtp_port"`
	SMTPUsername string `gorm:"type:varchar(255);not null;default:''"          json:"smtp_username"`
	SMTPPassword string `gorm:"type:varchar(255);not null;default:''"          json:"-"`
	Sender       string `gorm:"type:varchar(255);not null;default:''"          json:"sender"`
	Recipients   string `gorm:"type:text;not null;default:''"                  json:"recipients"` // 逗号/分号/换行分隔
	UseSSL       bool   `gorm:"not null;default:false"                         json:"use_ssl"`
	UseStartTLS  bool   `gorm:"not null;default:false"                         json:"use_starttls"`

	// 自动发送调度：ISO 星期（1=周一 … 7=周日）+ 当地时间 "HH:MM"
	ScheduleEnabled bool   `gorm:"not null;default:false"                json:"schedule_enabled"`
	ScheduleWeekday int    `gorm:"not null;default:1"                    json:"schedule_weekday"`
	ScheduleTime    string `gorm:"type:varchar(8);not null;default:'09:00'" json:"schedule_time"`

	// 自动发送幂等保障：记录最近一次尝试的周期键（成功或失败都写）
	LastAutoSentKey *string    `gorm:"type:varchar(16)" json:"last_auto_sent_key,omitempty"`
	LastAutoSentAt  *time.Time `json:"last_auto_sent_at,omitempty"`

	// Extra 未知字段透传（向前兼容）
	Extra   datatypes.JSON `json:"extra,omitempty"`
	Version int            `gorm:"not null;default:1" json:"version"`
	BaseModel
}

// TableName 指定表名
func (EmailConfig) TableName() string { return "email_configs" }
