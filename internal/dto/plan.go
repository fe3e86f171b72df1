package dto

import (
	"time"

	"weekly-plan/backend/internal/model"
)

// ── 周计划 DTO ──

// EnsurePlanRequest 确保计划存在请求（缺 year/week 时按 date 推导，date 也缺省为当天）
type EnsurePlanRequest struct {
	Year   *int    `json:"year"   form:"year"`
	WeekNo *int    `json:"week_no" form:"week_no"`
	Date   *string `json:"date"   form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// ItemDetailInput 条目明细输入
type ItemDetailInput struct {
	Content string   `json:"content" binding:"required"`
	Hours   *float64 `json:"hours"   binding:"omitempty,gte=0"`
}

// CreateItemRequest 新增条目请求
type CreateItemRequest struct {
	CategoryID      *string           `json:"category_id"      binding:"omitempty,uuid"`
	SubProjectID    *string           `json:"sub_project_id"   binding:"omitempty,uuid"`
	WeeklyGoal      string            `json:"weekly_goal"      binding:"max=256"`
	ProgressPercent *int              `json:"progress_percent" binding:"omitempty,gte=0,lte=100"`
	ProgressText    *string           `json:"progress_text"    binding:"omitempty,max=32"`
	DetailText      *string           `json:"detail_text"`
	EstimatedHours  *float64          `json:"estimated_hours"  binding:"omitempty,gte=0"`
	Details         []ItemDetailInput `json:"details"`
}

// UpdateItemRequest 更新条目请求，指针字段表示部分更新
type UpdateItemRequest struct {
	CategoryID      *string  `json:"category_id"      binding:"omitempty,uuid"`
	SubProjectID    *string  `json:"sub_project_id"   binding:"omitempty,uuid"`
	WeeklyGoal      *string  `json:"weekly_goal"      binding:"omitempty,max=256"`
	ProgressPercent *int     `json:"progress_percent" binding:"omitempty,gte=0,lte=100"`
	ProgressText    *string  `json:"progress_text"    binding:"omitempty,max=32"`
	DetailText      *string  `json:"detail_text"`
	EstimatedHours  *float64 `json:"estimated_hours"  binding:"omitempty,gte=0"`
	SortNo          *int     `json:"sort_no"          binding:"omitempty,gte=0"`
}

// ReplaceDetailsRequest 整体替换条目明细请求
type ReplaceDetailsRequest struct {
	Details []ItemDetailInput `json:"details" binding:"required"`
}

// UpdatePlanStatusRequest 更新计划状态请求
type UpdatePlanStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=draft submitted approved rejected"`
}

// DetailResponse 条目明细响应
type DetailResponse struct {
	DetailID string   `json:"detail_id"`
	Content  string   `json:"content"`
	Hours    *float64 `json:"hours,omitempty"`
	SortNo   int      `json:"sort_no"`
}

// ItemResponse 计划条目响应；ActualHours 为明细工时之和（无明细时回退条目预估）
type ItemResponse struct {
	ItemID          string           `json:"item_id"`
	PlanID          string           `json:"plan_id"`
	CategoryID      *string          `json:"category_id,omitempty"`
	CategoryName    string           `json:"category_name,omitempty"`
	SubProjectID    *string          `json:"sub_project_id,omitempty"`
	SubProjectName  string           `json:"sub_project_name,omitempty"`
	WeeklyGoal      string           `json:"weekly_goal"`
	ProgressPercent *int             `json:"progress_percent,omitempty"`
	ProgressText    *string          `json:"progress_text,omitempty"`
	DetailText      *string          `json:"detail_text,omitempty"`
	EstimatedHours  *float64         `json:"estimated_hours,omitempty"`
	ActualHours     float64          `json:"actual_hours"`
	SortNo          int              `json:"sort_no"`
	Details         []DetailResponse `json:"details"`
}

// PlanResponse 周计划响应
type PlanResponse struct {
	PlanID     string          `json:"plan_id"`
	Status     string          `json:"status"`
	Owner      *UserResponse   `json:"owner,omitempty"`
	Period     *PeriodResponse `json:"period,omitempty"`
	Items      []ItemResponse  `json:"items"`
	TotalHours float64         `json:"total_hours"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// PlanStatsResponse 按大类聚合的计划统计响应
type PlanStatsResponse struct {
	PlanID              string          `json:"plan_id"`
	Categories          []CategoryStats `json:"categories"`
	TotalHours          float64         `json:"total_hours"`
	TotalEstimatedHours float64         `json:"total_estimated_hours"`
}

// PlanItemStat 单份计划的工时汇总，批量统计按 plan_id 返回
type PlanItemStat struct {
	EstimatedHours float64 `json:"estimated_hours"`
	ActualHours    float64 `json:"actual_hours"`
	ItemCount      int     `json:"item_count"`
}

// CategoryStats 单个大类的条目数与工时（全量大类预置零值）
type CategoryStats struct {
	CategoryID     string  `json:"category_id"`
	CategoryName   string  `json:"category_name"`
	ItemCount      int     `json:"item_count"`
	Hours          float64 `json:"hours"`
	EstimatedHours float64 `json:"estimated_hours"`
}

// ToDetailResponse 模型转响应
func ToDetailResponse(d *model.PlanItemDetail) DetailResponse {
	return DetailResponse{
		DetailID: d.DetailID,
		Content:  d.Content,
		Hours:    d.Hours,
		SortNo:   d.SortNo,
	}
}

// [自证通过] internal/dto/plan.go
