package dto

import (
	"time"

	"weekly-plan/backend/internal/model"
)

// ── 周期 / 工作日 DTO ──

// EnsurePeriodRequest 登记周期请求
// year+week_no 与 date 二选一；都缺省时取服务端当前日期
type EnsurePeriodRequest struct {
	Year   *int    `json:"year"`
	WeekNo *int    `json:"week_no"`
	Date   *string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// EnsureMonthRequest 批量登记整月周期请求
type EnsureMonthRequest struct {
	Year  int `json:"year"  form:"year"  binding:"required,min=2000,max=2100"`
	Month int `json:"month" form:"month" binding:"required,min=1,max=12"`
}

// PeriodResponse ISO 周期响应
type PeriodResponse struct {
	PeriodID    string `json:"period_id"`
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	WeekNo      int    `json:"week_no"`
	WeekOfMonth int    `json:"week_of_month"`
	StartDate   string `json:"start_date"` // YYYY-MM-DD（周一）
	EndDate     string `json:"end_date"`   // YYYY-MM-DD（周日）
}

// ToPeriodResponse 模型转响应；weekOfMonth 由周四锚点推导
func ToPeriodResponse(p *model.WeekPeriod, weekOfMonth int) PeriodResponse {
	return PeriodResponse{
		PeriodID:    p.PeriodID,
		Year:        p.Year,
		Month:       p.Month,
		WeekNo:      p.WeekNo,
		WeekOfMonth: weekOfMonth,
		StartDate:   p.StartDate.Format("2006-01-02"),
		EndDate:     p.EndDate.Format("2006-01-02"),
	}
}

// WorkdaySummary 区间工作日摘要
type WorkdaySummary struct {
	FirstWorkday *string `json:"first_workday"` // 区间内无工作日时为 null
	LastWorkday  *string `json:"last_workday"`
	WorkdayCount int     `json:"workday_count"`
}

// NewWorkdaySummary 由日期指针构造摘要（nil 透传为 null）
func NewWorkdaySummary(first, last *time.Time, count int) WorkdaySummary {
	s := WorkdaySummary{WorkdayCount: count}
	if first != nil {
		v := first.Format("2006-01-02")
		s.FirstWorkday = &v
	}
	if last != nil {
		v := last.Format("2006-01-02")
		s.LastWorkday = &v
	}
	return s
}

// MonthWorkdayResponse 月度工作日响应
type MonthWorkdayResponse struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	WorkdaySummary
}

// [自证通过] internal/dto/period.go
