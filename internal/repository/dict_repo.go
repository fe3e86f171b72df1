package repository

import (
	"context"

	"gorm.io/gorm"

	"weekly-plan/backend/internal/model"
)

// CategoryRepository 工作大类字典数据访问接口
type CategoryRepository interface {
	Create(ctx context.Context, cat *model.Category) error
	GetByID(ctx context.Context, id string) (*model.Category, error)
	GetEnabledByName(ctx context.Context, name string) (*model.Category, error)
	ListEnabled(ctx context.Context) ([]model.Category, error)
	MaxSortNo(ctx context.Context) (int, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, cat *model.Category) error
}

type categoryRepo struct {
	db *gorm.DB
}

// NewCategoryRepo 创建 CategoryRepository 实例
func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) Create(ctx context.Context, cat *model.Category) error {
	return r.db.WithContext(ctx).Create(cat).Error
}

func (r *categoryRepo) GetByID(ctx context.Context, id string) (*model.Category, error) {
	var cat model.Category
	err := r.db.WithContext(ctx).
		Where("category_id = ?", id).
		First(&cat).Error
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *categoryRepo) GetEnabledByName(ctx context.Context, name string) (*model.Category, error) {
	var cat model.Category
	err := r.db.WithContext(ctx).
		Where("name = ? AND enabled = ?", name, true).
		First(&cat).Error
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *categoryRepo) ListEnabled(ctx context.Context) ([]model.Category, error) {
	var cats []model.Category
	err := r.db.WithContext(ctx).
		Where("enabled = ?", true).
		Order("sort_no, category_id").
		Find(&cats).Error
	return cats, err
}

func (r *categoryRepo) MaxSortNo(ctx context.Context) (int, error) {
	var maxSort int
	err := r.db.WithContext(ctx).
		Model(&model.Category{}).
		Select("COALESCE(MAX(sort_no), 0)").
		Scan(&maxSort).Error
	return maxSort, err
}

func (r *categoryRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Category{}).Count(&n).Error
	return n, err
}

func (r *categoryRepo) Update(ctx context.Context, cat *model.Category) error {
	return r.db.WithContext(ctx).Save(cat).Error
}

// SubProjectRepository 子项目字典数据访问接口
type SubProjectRepository interface {
	Create(ctx context.Context, sub *model.SubProject) error
	GetByID(ctx context.Context, id string) (*model.SubProject, error)
	GetEnabledByName(ctx context.Context, categoryID, name string) (*model.SubProject, error)
	ListEnabled(ctx context.Context, categoryID string) ([]model.SubProject, error)
	MaxSortNo(ctx context.Context, categoryID string) (int, error)
	Update(ctx context.Context, sub *model.SubProject) error
}

type subProjectRepo struct {
	db *gorm.DB
}

// NewSubProjectRepo 创建 SubProjectRepository 实例
func NewSubProjectRepo(db *gorm.DB) SubProjectRepository {
	return &subProjectRepo{db: db}
}

func (r *subProjectRepo) Create(ctx context.Context, sub *model.SubProject) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *subProjectRepo) GetByID(ctx context.Context, id string) (*model.SubProject, error) {
	var sub model.SubProject
	err := r.db.WithContext(ctx).
		Where("sub_project_id = ?", id).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subProjectRepo) GetEnabledByName(ctx context.Context, categoryID, name string) (*model.SubProject, error) {
	var sub model.SubProject
	err := r.db.WithContext(ctx).
		Where("category_id = ? AND name = ? AND enabled = ?", categoryID, name, true).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListEnabled categoryID 为空时返回全部启用的子项目
func (r *subProjectRepo) ListEnabled(ctx context.Context, categoryID string) ([]model.SubProject, error) {
	var subs []model.SubProject
	q := r.db.WithContext(ctx).Where("enabled = ?", true)
	if categoryID != "" {
		q = q.Where("category_id = ?", categoryID)
	}
	err := q.Order("sort_no, sub_project_id").Find(&subs).Error
	return subs, err
}

func (r *subProjectRepo) MaxSortNo(ctx context.Context, categoryID string) (int, error) {
	var maxSort int
	err := r.db.WithContext(ctx).
		Model(&model.SubProject{}).
		Where("category_id = ?", categoryID).
		Select("COALESCE(MAX(sort_no), 0)").
		Scan(&maxSort).Error
	return maxSort, err
}

func (r *subProjectRepo) Update(ctx context.Context, sub *model.SubProject) error {
	return r.db.WithContext(ctx).Save(sub).Error
}
