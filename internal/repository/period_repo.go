package repository

import (
	"context"

	"gorm.io/gorm"

	"weekly-plan/backend/internal/model"
)

// PeriodRepository ISO 周期数据访问接口
type PeriodRepository interface {
	Create(ctx context.Context, period *model.WeekPeriod) error
	GetByID(ctx context.Context, id string) (*model.WeekPeriod, error)
	GetByYearWeek(ctx context.Context, year, weekNo int) (*model.WeekPeriod, error)
	UpdateMonth(ctx context.Context, id string, month int) error
	ListAll(ctx context.Context) ([]model.WeekPeriod, error)
}

type periodRepo struct {
	db *gorm.DB
}

// NewPeriodRepo 创建 PeriodRepository 实例
func NewPeriodRepo(db *gorm.DB) PeriodRepository {
	return &periodRepo{db: db}
}

func (r *periodRepo) Create(ctx context.Context, period *model.WeekPeriod) error {
	return r.db.WithContext(ctx).Create(period).Error
}

func (r *periodRepo) GetByID(ctx context.Context, id string) (*model.WeekPeriod, error) {
	var period model.WeekPeriod
	err := r.db.WithContext(ctx).
		Where("period_id = ?", id).
		First(&period).Error
	if err != nil {
		return nil, err
	}
	return &period, nil
}

func (r *periodRepo) GetByYearWeek(ctx context.Context, year, weekNo int) (*model.WeekPeriod, error) {
	var period model.WeekPeriod
	err := r.db.WithContext(ctx).
		Where("year = ? AND week_no = ?", year, weekNo).
		First(&period).Error
	if err != nil {
		return nil, err
	}
	return &period, nil
}

func (r *periodRepo) UpdateMonth(ctx context.Context, id string, month int) error {
	return r.db.WithContext(ctx).
		Model(&model.WeekPeriod{}).
		Where("period_id = ?", id).
		Update("month", month).Error
}

func (r *periodRepo) ListAll(ctx context.Context) ([]model.WeekPeriod, error) {
	var periods []model.WeekPeriod
	err := r.db.WithContext(ctx).
		Order("start_date").
		Find(&periods).Error
	return periods, err
}
