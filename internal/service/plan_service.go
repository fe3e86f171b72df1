package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"weekly-plan/backend/internal/dto"
	"weekly-plan/backend/internal/model"
	"weekly-plan/backend/internal/repository"
)

// ── 计划模块业务错误 ──

var (
	ErrPlanNotFound      = errors.New("周计划不存在")
	ErrPlanForbidden     = errors.New("无权操作他人的周计划")
	ErrPlanItemNotFound  = errors.New("计划条目不存在")
	ErrPlanStatusInvalid = errors.New("计划状态无效")
)

// PlanService 周计划业务接口
type PlanService interface {
	Ensure(ctx context.Context, ownerID string, req *dto.EnsurePlanRequest) (*dto.PlanResponse, error)
	Get(ctx context.Context, planID, callerID, callerRole string) (*dto.PlanResponse, error)
	ListMine(ctx context.Context, ownerID string, limit int) ([]dto.PlanResponse, error)
	SetStatus(ctx context.Context, planID, callerID, callerRole, status string) error

	AddItem(ctx context.Context, planID, callerID, callerRole string, req *dto.CreateItemRequest) (*dto.ItemResponse, error)
	UpdateItem(ctx context.Context, itemID, callerID, callerRole string, req *dto.UpdateItemRequest) (*dto.ItemResponse, error)
	DeleteItem(ctx context.Context, itemID, callerID, callerRole string) error
	ReplaceDetails(ctx context.Context, itemID, callerID, callerRole string, req *dto.ReplaceDetailsRequest) (*dto.ItemResponse, error)
}

type planService struct {
	repo    *repository.Repository
	periods PeriodService
	logger  *zap.Logger
}

// NewPlanService 创建 PlanService 实例
func NewPlanService(repo *repository.Repository, periods PeriodService, logger *zap.Logger) PlanService {
	return &planService{repo: repo, periods: periods, logger: logger}
}

// ────────────────────── Ensure ──────────────────────

// Ensure 确保归属人在目标周期有且仅有一份计划，幂等语义与周期 ensure 一致
func (s *planService) Ensure(ctx context.Context, ownerID string, req *dto.EnsurePlanRequest) (*dto.PlanResponse, error) {
	period, err := s.periods.Resolve(ctx, req.Year, req.WeekNo, req.Date)
	if err != nil {
		return nil, err
	}

	plan, err := s.repo.Plan.GetByPeriodOwner(ctx, period.PeriodID, ownerID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询周计划失败", zap.Error(err))
			return nil, err
		}
		plan = &model.WeeklyPlan{
			PeriodID:    period.PeriodID,
			OwnerUserID: ownerID,
			Status:      model.PlanStatusDraft,
		}
		if err := s.repo.Plan.Create(ctx, plan); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				plan, err = s.repo.Plan.GetByPeriodOwner(ctx, period.PeriodID, ownerID)
				if err != nil {
					return nil, err
				}
			} else {
				s.logger.Error("创建周计划失败", zap.Error(err),
					zap.String("owner", ownerID), zap.String("period", period.PeriodID))
				return nil, err
			}
		}
	}

	return s.Get(ctx, plan.PlanID, ownerID, model.RoleUser)
}

// ────────────────────── 查询 ──────────────────────

func (s *planService) Get(ctx context.Context, planID, callerID, callerRole string) (*dto.PlanResponse, error) {
	plan, err := s.repo.Plan.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if err := checkPlanAccess(plan, callerID, callerRole); err != nil {
		return nil, err
	}
	resp := toPlanResponse(plan)
	return &resp, nil
}

func (s *planService) ListMine(ctx context.Context, ownerID string, limit int) ([]dto.PlanResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	plans, err := s.repo.Plan.ListByOwner(ctx, ownerID, limit)
	if err != nil {
		s.logger.Error("查询我的计划列表失败", zap.Error(err))
		return nil, err
	}

	planIDs := make([]string, len(plans))
	for i := range plans {
		planIDs[i] = plans[i].PlanID
	}
	items, err := s.repo.Plan.ListItemsByPlanIDs(ctx, planIDs)
	if err != nil {
		return nil, err
	}
	itemsByPlan := make(map[string][]model.PlanItem)
	for _, item := range items {
		itemsByPlan[item.PlanID] = append(itemsByPlan[item.PlanID], item)
	}

	resps := make([]dto.PlanResponse, 0, len(plans))
	for i := range plans {
		plans[i].Items = itemsByPlan[plans[i].PlanID]
		resps = append(resps, toPlanResponse(&plans[i]))
	}
	return resps, nil
}

func (s *planService) SetStatus(ctx context.Context, planID, callerID, callerRole, status string) error {
	if !model.ValidPlanStatus(status) {
		return ErrPlanStatusInvalid
	}
	plan, err := s.getBare(ctx, planID)
	if err != nil {
		return err
	}
	if err := checkPlanAccess(plan, callerID, callerRole); err != nil {
		return err
	}
	return s.repo.Plan.UpdateStatus(ctx, planID, status)
}

// ────────────────────── 条目 ──────────────────────

func (s *planService) AddItem(ctx context.Context, planID, callerID, callerRole string, req *dto.CreateItemRequest) (*dto.ItemResponse, error) {
	plan, err := s.getBare(ctx, planID)
	if err != nil {
		return nil, err
	}
	if err := checkPlanAccess(plan, callerID, callerRole); err != nil {
		return nil, err
	}

	maxSort, err := s.repo.Plan.MaxItemSortNo(ctx, planID)
	if err != nil {
		return nil, err
	}

	item := &model.PlanItem{
		PlanID:          planID,
		CategoryID:      req.CategoryID,
		SubProjectID:    req.SubProjectID,
		WeeklyGoal:      req.WeeklyGoal,
		ProgressPercent: req.ProgressPercent,
		ProgressText:    req.ProgressText,
		DetailText:      req.DetailText,
		EstimatedHours:  req.EstimatedHours,
		SortNo:          maxSort + 1,
	}
	for i, d := range req.Details {
		item.Details = append(item.Details, model.PlanItemDetail{
			Content: d.Content,
			Hours:   d.Hours,
			SortNo:  i + 1,
		})
	}

	if err := s.repo.Plan.CreateItem(ctx, item); err != nil {
		s.logger.Error("创建计划条目失败", zap.Error(err), zap.String("plan_id", planID))
		return nil, err
	}
	if err := s.repo.Plan.Touch(ctx, planID); err != nil {
		s.logger.Warn("刷新计划更新时间失败", zap.Error(err))
	}

	resp := toItemResponse(item)
	return &resp, nil
}

func (s *planService) UpdateItem(ctx context.Context, itemID, callerID, callerRole string, req *dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, plan, err := s.getItemWithPlan(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := checkPlanAccess(plan, callerID, callerRole); err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		item.CategoryID = req.CategoryID
	}
	if req.SubProjectID != nil {
		item.SubProjectID = req.SubProjectID
	}
	if req.WeeklyGoal != nil {
		item.WeeklyGoal = *req.WeeklyGoal
	}
	if req.ProgressPercent != nil {
		item.ProgressPercent = req.ProgressPercent
	}
	if req.ProgressText != nil {
		item.ProgressText = req.ProgressText
	}
	if req.DetailText != nil {
		item.DetailText = req.DetailText
	}
	if req.EstimatedHours != nil {
		item.EstimatedHours = req.EstimatedHours
	}
	if req.SortNo != nil {
		item.SortNo = *req.SortNo
	}

	if err := s.repo.Plan.UpdateItem(ctx, item); err != nil {
		s.logger.Error("更新计划条目失败", zap.Error(err), zap.String("item_id", itemID))
		return nil, err
	}
	if err := s.repo.Plan.Touch(ctx, item.PlanID); err != nil {
		s.logger.Warn("刷新计划更新时间失败", zap.Error(err))
	}

	resp := toItemResponse(item)
	return &resp, nil
}

func (s *planService) DeleteItem(ctx context.Context, itemID, callerID, callerRole string) error {
	item, plan, err := s.getItemWithPlan(ctx, itemID)
	if err != nil {
		return err
	}
	if err := checkPlanAccess(plan, callerID, callerRole); err != nil {
		return err
	}
	if err := s.repo.Plan.DeleteItem(ctx, itemID); err != nil {
		s.logger.Error("删除计划条目失败", zap.Error(err), zap.String("item_id", itemID))
		return err
	}
	if err := s.repo.Plan.Touch(ctx, item.PlanID); err != nil {
		s.logger.Warn("刷新计划更新时间失败", zap.Error(err))
	}
	return nil
}

// ReplaceDetails 整体替换条目明细，保持调用方给定的顺序
func (s *planService) ReplaceDetails(ctx context.Context, itemID, callerID, callerRole string, req *dto.ReplaceDetailsRequest) (*dto.ItemResponse, error) {
	item, plan, err := s.getItemWithPlan(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := checkPlanAccess(plan, callerID, callerRole); err != nil {
		return nil, err
	}

	details := make([]model.PlanItemDetail, len(req.Details))
	for i, d := range req.Details {
		details[i] = model.PlanItemDetail{Content: d.Content, Hours: d.Hours}
	}
	if err := s.repo.Plan.ReplaceItemDetails(ctx, itemID, details); err != nil {
		s.logger.Error("替换条目明细失败", zap.Error(err), zap.String("item_id", itemID))
		return nil, err
	}
	if err := s.repo.Plan.Touch(ctx, item.PlanID); err != nil {
		s.logger.Warn("刷新计划更新时间失败", zap.Error(err))
	}

	item, err = s.repo.Plan.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	resp := toItemResponse(item)
	return &resp, nil
}

// ────────────────────── 内部辅助 ──────────────────────

func (s *planService) getItemWithPlan(ctx context.Context, itemID string) (*model.PlanItem, *model.WeeklyPlan, error) {
	item, err := s.repo.Plan.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrPlanItemNotFound
		}
		return nil, nil, err
	}
	plan, err := s.getBare(ctx, item.PlanID)
	if err != nil {
		return nil, nil, err
	}
	return item, plan, nil
}

func (s *planService) getBare(ctx context.Context, planID string) (*model.WeeklyPlan, error) {
	plan, err := s.repo.Plan.GetBare(ctx, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

// checkPlanAccess 归属人本人或管理员可操作
func checkPlanAccess(plan *model.WeeklyPlan, callerID, callerRole string) error {
	if callerRole == model.RoleAdmin || plan.OwnerUserID == callerID {
		return nil
	}
	return ErrPlanForbidden
}

func toItemResponse(item *model.PlanItem) dto.ItemResponse {
	resp := dto.ItemResponse{
		ItemID:          item.ItemID,
		PlanID:          item.PlanID,
		CategoryID:      item.CategoryID,
		SubProjectID:    item.SubProjectID,
		WeeklyGoal:      item.WeeklyGoal,
		ProgressPercent: item.ProgressPercent,
		ProgressText:    item.ProgressText,
		DetailText:      item.DetailText,
		EstimatedHours:  item.EstimatedHours,
		ActualHours:     ItemActualHours(item),
		SortNo:          item.SortNo,
		Details:         make([]dto.DetailResponse, 0, len(item.Details)),
	}
	if item.Category != nil {
		resp.CategoryName = item.Category.Name
	}
	if item.SubProject != nil {
		resp.SubProjectName = item.SubProject.Name
	}
	for i := range item.Details {
		resp.Details = append(resp.Details, dto.ToDetailResponse(&item.Details[i]))
	}
	return resp
}

func toPlanResponse(plan *model.WeeklyPlan) dto.PlanResponse {
	resp := dto.PlanResponse{
		PlanID:     plan.PlanID,
		Status:     plan.Status,
		Items:      make([]dto.ItemResponse, 0, len(plan.Items)),
		TotalHours: PlanTotalHours(plan.Items),
		UpdatedAt:  plan.UpdatedAt,
	}
	if plan.Owner != nil {
		owner := dto.ToUserResponse(plan.Owner)
		resp.Owner = &owner
	}
	if plan.Period != nil {
		period := ToPeriodResponse(plan.Period)
		resp.Period = &period
	}
	for i := range plan.Items {
		resp.Items = append(resp.Items, toItemResponse(&plan.Items[i]))
	}
	return resp
}
