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

// ── 模板模块业务错误 ──

var (
	ErrTemplateNotFound  = errors.New("计划模板不存在")
	ErrTemplateNameTaken = errors.New("模板名称已存在")
)

// 套用模式
const (
	ApplyModeAppend  = "append"
	ApplyModeReplace = "replace"
)

// TemplateService 计划模板业务接口
type TemplateService interface {
	CreateFromPlan(ctx context.Context, callerID string, req *dto.CreateTemplateRequest) (*dto.TemplateResponse, error)
	Get(ctx context.Context, id string) (*dto.TemplateResponse, error)
	List(ctx context.Context) ([]dto.TemplateResponse, error)
	Apply(ctx context.Context, templateID, callerID, callerRole string, req *dto.ApplyTemplateRequest) (*dto.PlanResponse, error)
	Delete(ctx context.Context, id string) error
}

type templateService struct {
	repo   *repository.Repository
	plans  PlanService
	logger *zap.Logger
}

// NewTemplateService 创建 TemplateService 实例
func NewTemplateService(repo *repository.Repository, plans PlanService, logger *zap.Logger) TemplateService {
	return &templateService{repo: repo, plans: plans, logger: logger}
}

// ────────────────────── CreateFromPlan ──────────────────────

// CreateFromPlan 把现有计划的条目/明细快照为可复用模板
func (s *templateService) CreateFromPlan(ctx context.Context, callerID string, req *dto.CreateTemplateRequest) (*dto.TemplateResponse, error) {
	plan, err := s.repo.Plan.GetByID(ctx, req.PlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	tpl := &model.PlanTemplate{
		Name:            req.Name,
		CreatedByUserID: &callerID,
	}
	for i := range plan.Items {
		item := &plan.Items[i]
		tplItem := model.PlanTemplateItem{
			CategoryID:      item.CategoryID,
			SubProjectID:    item.SubProjectID,
			WeeklyGoal:      item.WeeklyGoal,
			ProgressPercent: item.ProgressPercent,
			ProgressText:    item.ProgressText,
			DetailText:      item.DetailText,
			EstimatedHours:  item.EstimatedHours,
			SortNo:          item.SortNo,
		}
		for _, d := range item.Details {
			tplItem.Details = append(tplItem.Details, model.PlanTemplateItemDetail{
				Content: d.Content,
				Hours:   d.Hours,
				SortNo:  d.SortNo,
			})
		}
		tpl.Items = append(tpl.Items, tplItem)
	}

	if err := s.repo.Template.Create(ctx, tpl); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTemplateNameTaken
		}
		s.logger.Error("创建模板失败", zap.Error(err), zap.String("name", req.Name))
		return nil, err
	}

	resp := s.toResponse(tpl, true)
	return &resp, nil
}

// ────────────────────── 查询 ──────────────────────

func (s *templateService) Get(ctx context.Context, id string) (*dto.TemplateResponse, error) {
	tpl, err := s.repo.Template.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	resp := s.toResponse(tpl, true)
	return &resp, nil
}

func (s *templateService) List(ctx context.Context) ([]dto.TemplateResponse, error) {
	tpls, err := s.repo.Template.List(ctx)
	if err != nil {
		return nil, err
	}
	resps := make([]dto.TemplateResponse, 0, len(tpls))
	for i := range tpls {
		resps = append(resps, s.toResponse(&tpls[i], false))
	}
	return resps, nil
}

// ────────────────────── Apply ──────────────────────

// Apply 套用模板到计划：append 在现有条目后追加，replace 先清空再写入
func (s *templateService) Apply(ctx context.Context, templateID, callerID, callerRole string, req *dto.ApplyTemplateRequest) (*dto.PlanResponse, error) {
	tpl, err := s.repo.Template.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	plan, err := s.repo.Plan.GetBare(ctx, req.PlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if err := checkPlanAccess(plan, callerID, callerRole); err != nil {
		return nil, err
	}

	mode := req.Mode
	if mode == "" {
		mode = ApplyModeAppend
	}

	base := 0
	if mode == ApplyModeReplace {
		if err := s.repo.Plan.DeleteItemsByPlan(ctx, plan.PlanID); err != nil {
			s.logger.Error("清空计划条目失败", zap.Error(err), zap.String("plan_id", plan.PlanID))
			return nil, err
		}
	} else {
		base, err = s.repo.Plan.MaxItemSortNo(ctx, plan.PlanID)
		if err != nil {
			return nil, err
		}
	}

	for i := range tpl.Items {
		src := &tpl.Items[i]
		item := &model.PlanItem{
			PlanID:          plan.PlanID,
			CategoryID:      src.CategoryID,
			SubProjectID:    src.SubProjectID,
			WeeklyGoal:      src.WeeklyGoal,
			ProgressPercent: src.ProgressPercent,
			ProgressText:    src.ProgressText,
			DetailText:      src.DetailText,
			EstimatedHours:  src.EstimatedHours,
			SortNo:          base + i + 1,
		}
		for j, d := range src.Details {
			item.Details = append(item.Details, model.PlanItemDetail{
				Content: d.Content,
				Hours:   d.Hours,
				SortNo:  j + 1,
			})
		}
		if err := s.repo.Plan.CreateItem(ctx, item); err != nil {
			s.logger.Error("套用模板写入条目失败", zap.Error(err),
				zap.String("template_id", templateID), zap.String("plan_id", plan.PlanID))
			return nil, err
		}
	}
	if err := s.repo.Plan.Touch(ctx, plan.PlanID); err != nil {
		s.logger.Warn("刷新计划更新时间失败", zap.Error(err))
	}

	return s.plans.Get(ctx, plan.PlanID, callerID, callerRole)
}

func (s *templateService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Template.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTemplateNotFound
		}
		return err
	}
	return s.repo.Template.Delete(ctx, id)
}

func (s *templateService) toResponse(tpl *model.PlanTemplate, withItems bool) dto.TemplateResponse {
	resp := dto.TemplateResponse{
		TemplateID: tpl.TemplateID,
		Name:       tpl.Name,
		ItemCount:  len(tpl.Items),
		UpdatedAt:  tpl.UpdatedAt,
	}
	if !withItems {
		return resp
	}
	for i := range tpl.Items {
		src := &tpl.Items[i]
		item := dto.ItemResponse{
			ItemID:          src.TemplateItemID,
			CategoryID:      src.CategoryID,
			SubProjectID:    src.SubProjectID,
			WeeklyGoal:      src.WeeklyGoal,
			ProgressPercent: src.ProgressPercent,
			ProgressText:    src.ProgressText,
			DetailText:      src.DetailText,
			EstimatedHours:  src.EstimatedHours,
			SortNo:          src.SortNo,
			Details:         make([]dto.DetailResponse, 0, len(src.Details)),
		}
		for j := range src.Details {
			d := &src.Details[j]
			item.Details = append(item.Details, dto.DetailResponse{
				DetailID: d.TemplateDetailID,
				Content:  d.Content,
				Hours:    d.Hours,
				SortNo:   d.SortNo,
			})
		}
		resp.Items = append(resp.Items, item)
	}
	return resp
}
