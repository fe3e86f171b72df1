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

// ── 字典模块业务错误 ──

var (
	ErrCategoryNotFound   = errors.New("工作大类不存在")
	ErrSubProjectNotFound = errors.New("子项目不存在")
)

// 首次启动时写入的默认大类
var defaultCategories = []string{"项目工作", "日常事务", "学习提升", "会议沟通", "其他"}

// DictService 字典业务接口（大类/子项目），创建按名称幂等复用
type DictService interface {
	EnsureCategory(ctx context.Context, name string) (*dto.CategoryResponse, error)
	EnsureSubProject(ctx context.Context, categoryID, name string) (*dto.SubProjectResponse, error)
	ListTree(ctx context.Context) ([]dto.CategoryResponse, error)
	DisableCategory(ctx context.Context, id string) error
	DisableSubProject(ctx context.Context, id string) error
	SeedDefaults(ctx context.Context) error
}

type dictService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDictService 创建 DictService 实例
func NewDictService(repo *repository.Repository, logger *zap.Logger) DictService {
	return &dictService{repo: repo, logger: logger}
}

// ────────────────────── EnsureCategory ──────────────────────

func (s *dictService) EnsureCategory(ctx context.Context, name string) (*dto.CategoryResponse, error) {
	cat, err := s.repo.Category.GetEnabledByName(ctx, name)
	if err == nil {
		resp := dto.ToCategoryResponse(cat)
		return &resp, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	maxSort, err := s.repo.Category.MaxSortNo(ctx)
	if err != nil {
		return nil, err
	}
	cat = &model.Category{Name: name, SortNo: maxSort + 1, Enabled: true}
	if err := s.repo.Category.Create(ctx, cat); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			cat, err = s.repo.Category.GetEnabledByName(ctx, name)
			if err != nil {
				return nil, err
			}
			resp := dto.ToCategoryResponse(cat)
			return &resp, nil
		}
		s.logger.Error("创建工作大类失败", zap.Error(err), zap.String("name", name))
		return nil, err
	}

	resp := dto.ToCategoryResponse(cat)
	return &resp, nil
}

// ────────────────────── EnsureSubProject ──────────────────────

func (s *dictService) EnsureSubProject(ctx context.Context, categoryID, name string) (*dto.SubProjectResponse, error) {
	if _, err := s.repo.Category.GetByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	sub, err := s.repo.SubProject.GetEnabledByName(ctx, categoryID, name)
	if err == nil {
		resp := dto.ToSubProjectResponse(sub)
		return &resp, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	maxSort, err := s.repo.SubProject.MaxSortNo(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	sub = &model.SubProject{CategoryID: categoryID, Name: name, SortNo: maxSort + 1, Enabled: true}
	if err := s.repo.SubProject.Create(ctx, sub); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			sub, err = s.repo.SubProject.GetEnabledByName(ctx, categoryID, name)
			if err != nil {
				return nil, err
			}
			resp := dto.ToSubProjectResponse(sub)
			return &resp, nil
		}
		s.logger.Error("创建子项目失败", zap.Error(err),
			zap.String("category_id", categoryID), zap.String("name", name))
		return nil, err
	}

	resp := dto.ToSubProjectResponse(sub)
	return &resp, nil
}

// ────────────────────── 查询 / 停用 ──────────────────────

// ListTree 启用中的大类及其子项目，按 sort_no 排序
func (s *dictService) ListTree(ctx context.Context) ([]dto.CategoryResponse, error) {
	cats, err := s.repo.Category.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}
	subs, err := s.repo.SubProject.ListEnabled(ctx, "")
	if err != nil {
		return nil, err
	}

	subsByCat := make(map[string][]dto.SubProjectResponse)
	for i := range subs {
		subsByCat[subs[i].CategoryID] = append(subsByCat[subs[i].CategoryID], dto.ToSubProjectResponse(&subs[i]))
	}

	resps := make([]dto.CategoryResponse, 0, len(cats))
	for i := range cats {
		resp := dto.ToCategoryResponse(&cats[i])
		resp.SubProjects = subsByCat[cats[i].CategoryID]
		resps = append(resps, resp)
	}
	return resps, nil
}

func (s *dictService) DisableCategory(ctx context.Context, id string) error {
	cat, err := s.repo.Category.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	cat.Enabled = false
	return s.repo.Category.Update(ctx, cat)
}

func (s *dictService) DisableSubProject(ctx context.Context, id string) error {
	sub, err := s.repo.SubProject.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubProjectNotFound
		}
		return err
	}
	sub.Enabled = false
	return s.repo.SubProject.Update(ctx, sub)
}

// SeedDefaults 空字典时写入默认大类（只在首次启动生效）
func (s *dictService) SeedDefaults(ctx context.Context) error {
	n, err := s.repo.Category.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for _, name := range defaultCategories {
		if _, err := s.EnsureCategory(ctx, name); err != nil {
			return err
		}
	}
	s.logger.Info("默认工作大类初始化完成", zap.Int("count", len(defaultCategories)))
	return nil
}
