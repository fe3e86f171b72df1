package repository

import (
	"context"

	"gorm.io/gorm"

	"weekly-plan/backend/internal/model"
)

// PlanRepository 周计划数据访问接口
type PlanRepository interface {
	Create(ctx context.Context, plan *model.WeeklyPlan) error
	GetByID(ctx context.Context, id string) (*model.WeeklyPlan, error)
	GetBare(ctx context.Context, id string) (*model.WeeklyPlan, error)
	GetByPeriodOwner(ctx context.Context, periodID, ownerUserID string) (*model.WeeklyPlan, error)
	GetSubmitted(ctx context.Context, periodID, ownerUserID string) (*model.WeeklyPlan, error)
	ListByOwner(ctx context.Context, ownerUserID string, limit int) ([]model.WeeklyPlan, error)
	ListByOwnerPeriods(ctx context.Context, ownerUserID string, periodIDs []string) ([]model.WeeklyPlan, error)
	ListByPeriod(ctx context.Context, periodID string, teamIDs []string) ([]model.WeeklyPlan, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Touch(ctx context.Context, id string) error

	// ── 条目/明细 ──
	CreateItem(ctx context.Context, item *model.PlanItem) error
	GetItem(ctx context.Context, itemID string) (*model.PlanItem, error)
	UpdateItem(ctx context.Context, item *model.PlanItem) error
	DeleteItem(ctx context.Context, itemID string) error
	MaxItemSortNo(ctx context.Context, planID string) (int, error)
	DeleteItemsByPlan(ctx context.Context, planID string) error
	ListItemsByPlanIDs(ctx context.Context, planIDs []string) ([]model.PlanItem, error)
	ReplaceItemDetails(ctx context.Context, itemID string, details []model.PlanItemDetail) error
}

type planRepo struct {
	db *gorm.DB
}

// NewPlanRepo 创建 PlanRepository 实例
func NewPlanRepo(db *gorm.DB) PlanRepository {
	return &planRepo{db: db}
}

func (r *planRepo) Create(ctx context.Context, plan *model.WeeklyPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *planRepo) GetByID(ctx context.Context, id string) (*model.WeeklyPlan, error) {
	var plan model.WeeklyPlan
	err := r.db.WithContext(ctx).
		Preload("Period").
		Preload("Owner").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("plan_items.sort_no") }).
		Preload("Items.Details", func(db *gorm.DB) *gorm.DB { return db.Order("plan_item_details.sort_no") }).
		Preload("Items.Category").
		Preload("Items.SubProject").
		Where("plan_id = ?", id).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// GetBare 不带任何关联的轻量查询（权限校验等场景）
func (r *planRepo) GetBare(ctx context.Context, id string) (*model.WeeklyPlan, error) {
	var plan model.WeeklyPlan
	err := r.db.WithContext(ctx).
		Where("plan_id = ?", id).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepo) GetByPeriodOwner(ctx context.Context, periodID, ownerUserID string) (*model.WeeklyPlan, error) {
	var plan model.WeeklyPlan
	err := r.db.WithContext(ctx).
		Where("period_id = ? AND owner_user_id = ?", periodID, ownerUserID).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepo) GetSubmitted(ctx context.Context, periodID, ownerUserID string) (*model.WeeklyPlan, error) {
	var plan model.WeeklyPlan
	err := r.db.WithContext(ctx).
		Preload("Period").
		Preload("Owner").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("plan_items.sort_no") }).
		Preload("Items.Details", func(db *gorm.DB) *gorm.DB { return db.Order("plan_item_details.sort_no") }).
		Preload("Items.Category").
		Preload("Items.SubProject").
		Where("period_id = ? AND owner_user_id = ? AND status = ?",
			periodID, ownerUserID, model.PlanStatusSubmitted).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepo) ListByOwner(ctx context.Context, ownerUserID string, limit int) ([]model.WeeklyPlan, error) {
	var plans []model.WeeklyPlan
	err := r.db.WithContext(ctx).
		Preload("Period").
		Where("owner_user_id = ?", ownerUserID).
		Order("updated_at DESC").
		Limit(limit).
		Find(&plans).Error
	return plans, err
}

func (r *planRepo) ListByOwnerPeriods(ctx context.Context, ownerUserID string, periodIDs []string) ([]model.WeeklyPlan, error) {
	if len(periodIDs) == 0 {
		return nil, nil
	}
	var plans []model.WeeklyPlan
	err := r.db.WithContext(ctx).
		Where("owner_user_id = ? AND period_id IN ?", ownerUserID, periodIDs).
		Find(&plans).Error
	return plans, err
}

// ListByPeriod 查询周期内的计划；teamIDs 非空时，按计划归属人所在团队过滤
func (r *planRepo) ListByPeriod(ctx context.Context, periodID string, teamIDs []string) ([]model.WeeklyPlan, error) {
	var plans []model.WeeklyPlan
	q := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Owner.Team").
		Preload("Period").
		Where("period_id = ?", periodID)
	if len(teamIDs) > 0 {
		q = q.Joins("JOIN users ON users.user_id = weekly_plans.owner_user_id").
			Where("users.team_id IN ?", teamIDs)
	}
	err := q.Order("weekly_plans.updated_at DESC").Find(&plans).Error
	return plans, err
}

func (r *planRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.WeeklyPlan{}).
		Where("plan_id = ?", id).
		Update("status", status).Error
}

// Touch 仅刷新计划的 updated_at（条目变动时让"最近更新"排序生效）
func (r *planRepo) Touch(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&model.WeeklyPlan{}).
		Where("plan_id = ?", id).
		Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

// ── 条目/明细 ──

func (r *planRepo) CreateItem(ctx context.Context, item *model.PlanItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *planRepo) GetItem(ctx context.Context, itemID string) (*model.PlanItem, error) {
	var item model.PlanItem
	err := r.db.WithContext(ctx).
		Preload("Details", func(db *gorm.DB) *gorm.DB { return db.Order("plan_item_details.sort_no") }).
		Where("item_id = ?", itemID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *planRepo) UpdateItem(ctx context.Context, item *model.PlanItem) error {
	return r.db.WithContext(ctx).
		Omit("Details", "Category", "SubProject").
		Save(item).Error
}

func (r *planRepo) DeleteItem(ctx context.Context, itemID string) error {
	return r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Delete(&model.PlanItem{}).Error
}

func (r *planRepo) MaxItemSortNo(ctx context.Context, planID string) (int, error) {
	var maxSort int
	err := r.db.WithContext(ctx).
		Model(&model.PlanItem{}).
		Where("plan_id = ?", planID).
		Select("COALESCE(MAX(sort_no), 0)").
		Scan(&maxSort).Error
	return maxSort, err
}

func (r *planRepo) DeleteItemsByPlan(ctx context.Context, planID string) error {
	return r.db.WithContext(ctx).
		Where("plan_id = ?", planID).
		Delete(&model.PlanItem{}).Error
}

func (r *planRepo) ListItemsByPlanIDs(ctx context.Context, planIDs []string) ([]model.PlanItem, error) {
	if len(planIDs) == 0 {
		return nil, nil
	}
	var items []model.PlanItem
	err := r.db.WithContext(ctx).
		Preload("Details").
		Where("plan_id IN ?", planIDs).
		Find(&items).Error
	return items, err
}

// ReplaceItemDetails 整体替换条目明细（清空后按给定顺序重建）
func (r *planRepo) ReplaceItemDetails(ctx context.Context, itemID string, details []model.PlanItemDetail) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", itemID).Delete(&model.PlanItemDetail{}).Error; err != nil {
			return err
		}
		for i := range details {
			details[i].ItemID = itemID
			details[i].SortNo = i + 1
		}
		if len(details) == 0 {
			return nil
		}
		return tx.Create(&details).Error
	})
}
