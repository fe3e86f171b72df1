package dto

import "time"

// ── 计划模板 DTO ──

// CreateTemplateRequest 由现有计划创建模板请求
type CreateTemplateRequest struct {
	Name   string `json:"name"    binding:"required,max=128"`
	PlanID string `json:"plan_id" binding:"required,uuid"`
}

// ApplyTemplateRequest 套用模板到计划请求
// mode=append 在现有条目后追加；mode=replace 先清空计划条目再写入
type ApplyTemplateRequest struct {
	PlanID string `json:"plan_id" binding:"required,uuid"`
	Mode   string `json:"mode"    binding:"omitempty,oneof=append replace"`
}

// TemplateResponse 模板响应
type TemplateResponse struct {
	TemplateID string         `json:"template_id"`
	Name       string         `json:"name"`
	ItemCount  int            `json:"item_count"`
	Items      []ItemResponse `json:"items,omitempty"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
