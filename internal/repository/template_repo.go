package repository

import (
	"context"

	"gorm.io/gorm"

	"weekly-plan/backend/internal/model"
)

// TemplateRepository 计划模板数据访问接口
type TemplateRepository interface {
	Create(ctx context.Context, tpl *model.PlanTemplate) error
	GetByID(ctx context.Context, id string) (*model.PlanTemplate, error)
	GetByName(ctx context.Context, name string) (*model.PlanTemplate, error)
	List(ctx context.Context) ([]model.PlanTemplate, error)
	Delete(ctx context.Context, id string) error
}

type templateRepo struct {
	db *gorm.DB
}

// NewTemplateRepo 创建 TemplateRepository 实例
func NewTemplateRepo(db *gorm.DB) TemplateRepository {
	return &templateRepo{db: db}
}

// Create 连同条目/明细一并写入（gorm 级联创建）
func (r *templateRepo) Create(ctx context.Context, tpl *model.PlanTemplate) error {
	return r.db.WithContext(ctx).Create(tpl).Error
}

func (r *templateRepo) GetByID(ctx context.Context, id string) (*model.PlanTemplate, error) {
	var tpl model.PlanTemplate
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("plan_template_items.sort_no") }).
		Preload("Items.Details", func(db *gorm.DB) *gorm.DB { return db.Order("plan_template_item_details.sort_no") }).
		Where("template_id = ?", id).
		First(&tpl).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *templateRepo) GetByName(ctx context.Context, name string) (*model.PlanTemplate, error) {
	var tpl model.PlanTemplate
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&tpl).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *templateRepo) List(ctx context.Context) ([]model.PlanTemplate, error) {
	var tpls []model.PlanTemplate
	err := r.db.WithContext(ctx).
		Order("updated_at DESC, template_id DESC").
		Find(&tpls).Error
	return tpls, err
}

func (r *templateRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("template_id = ?", id).
		Delete(&model.PlanTemplate{}).Error
}
