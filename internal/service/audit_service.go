package service

import (
	"context"

	"go.uber.org/zap"

	"weekly-plan/backend/internal/model"
	"weekly-plan/backend/internal/repository"
)

// AuditService 操作审计业务接口（追加写，查询仅限管理员）
type AuditService interface {
	Record(ctx context.Context, entry *model.OperationLog)
	List(ctx context.Context, userID, action string, limit, offset int) ([]model.OperationLog, error)
}

type auditService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAuditService 创建 AuditService 实例
func NewAuditService(repo *repository.Repository, logger *zap.Logger) AuditService {
	return &auditService{repo: repo, logger: logger}
}

// Record 审计写入失败只记日志，不中断业务请求
func (s *auditService) Record(ctx context.Context, entry *model.OperationLog) {
	if err := s.repo.OperationLog.Create(ctx, entry); err != nil {
		s.logger.Warn("写入操作日志失败", zap.Error(err), zap.String("action", entry.Action))
	}
}

func (s *auditService) List(ctx context.Context, userID, action string, limit, offset int) ([]model.OperationLog, error) {
	return s.repo.OperationLog.List(ctx, userID, action, limit, offset)
}
