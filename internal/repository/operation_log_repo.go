package repository

import (
	"context"

	"gorm.io/gorm"

	"weekly-plan/backend/internal/model"
)

// OperationLogRepository 操作日志数据访问接口（只增不改）
type OperationLogRepository interface {
	Create(ctx context.Context, log *model.OperationLog) error
	List(ctx context.Context, userID, action string, limit, offset int) ([]model.OperationLog, error)
}

type operationLogRepo struct {
	db *gorm.DB
}

// NewOperationLogRepo 创建 OperationLogRepository 实例
func NewOperationLogRepo(db *gorm.DB) OperationLogRepository {
	return &operationLogRepo{db: db}
}

func (r *operationLogRepo) Create(ctx context.Context, log *model.OperationLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *operationLogRepo) List(ctx context.Context, userID, action string, limit, offset int) ([]model.OperationLog, error) {
	var logs []model.OperationLog
	q := r.db.WithContext(ctx).
		Order("created_at DESC, log_id DESC")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if action != "" {
		q = q.Where("action = ?", action)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit <= 0 || limit > 500 {
		limit = 200
	}
	err := q.Limit(limit).Find(&logs).Error
	return logs, err
}
