package model

import "time"

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// ── 计划状态 ──

// 周计划状态由调用方驱动流转，核心层不做状态机校验
const (
	PlanStatusDraft     = "draft"
	PlanStatusSubmitted = "submitted"
	PlanStatusApproved  = "approved"
	PlanStatusRejected  = "rejected"
)

// ValidPlanStatus 判断是否为合法的计划状态
func ValidPlanStatus(s string) bool {
	switch s {
	case PlanStatusDraft, PlanStatusSubmitted, PlanStatusApproved, PlanStatusRejected:
		return true
	}
	return false
}

// ── 用户角色 ──

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
