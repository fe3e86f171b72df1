package dto

import "time"

// ── 团队概览 DTO ──

// TeamOverviewRequest 团队概览查询参数
type TeamOverviewRequest struct {
	Year    *int     `form:"year"`
	WeekNo  *int     `form:"week_no"`
	Date    *string  `form:"date" binding:"omitempty,datetime=2006-01-02"`
	TeamIDs []string `form:"team_ids"`
}

// TeamOverviewResponse 某周期的团队填报概览
type TeamOverviewResponse struct {
	Period PeriodResponse `json:"period"`
	Teams  []TeamCard     `json:"teams"`
}

// TeamCard 单团队概览卡片
//
// RegisteredCount 只计含条目的计划；MissingCount 按计划归属人去重后
// 与团队人数取差，两者口径不同，历史报表依赖该不对称性。
type TeamCard struct {
	TeamID          string       `json:"team_id"`
	TeamName        string       `json:"team_name"`
	UserCount       int          `json:"user_count"`
	RegisteredCount int          `json:"registered_count"`
	MissingCount    int          `json:"missing_count"`
	TotalHours      float64      `json:"total_hours"`
	EstimatedHours  float64      `json:"estimated_hours"`
	LastUpdatedAt   *time.Time   `json:"last_updated_at,omitempty"`
	Members         []MemberCell `json:"members"`
}

// MemberCell 团队成员在该周期的填报情况
type MemberCell struct {
	UserID     string  `json:"user_id"`
	Name       string  `json:"name"`
	PlanID     *string `json:"plan_id,omitempty"`
	Status     string  `json:"status,omitempty"`
	ItemCount  int     `json:"item_count"`
	TotalHours float64 `json:"total_hours"`
}
