package model

import (
	"time"

	"gorm.io/datatypes"
)

// OperationLog 操作审计日志表 — 对应 operation_logs（追加写，不修改）
type OperationLog struct {
	LogID      string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"log_id"`
	UserID     *string        `gorm:"type:uuid;index"                                json:"user_id,omitempty"`
	Action     string         `gorm:"type:varchar(64);not null;index"                json:"action"`
	ObjectType *string        `gorm:"type:varchar(64)"                               json:"object_type,omitempty"`
	ObjectID   *string        `gorm:"type:uuid"                                      json:"object_id,omitempty"`
	Method     *string        `gorm:"type:varchar(16)"                               json:"method,omitempty"`
	Path       *string        `gorm:"type:varchar(255)"                              json:"path,omitempty"`
	IP         *string        `gorm:"type:varchar(64)"                               json:"ip,omitempty"`
	UserAgent  *string        `gorm:"type:text"                                      json:"user_agent,omitempty"`
	Extra      datatypes.JSON `json:"extra,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP;index"       json:"created_at"`
}

// TableName 指定表名
func (OperationLog) TableName() string { return "operation_logs" }
