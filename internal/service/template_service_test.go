package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"weekly-plan/backend/internal/dto"
	"weekly-plan/backend/internal/model"
	"weekly-plan/backend/internal/repository"
)

// ── 测试辅助 ──

type templateEnv struct {
	svc      TemplateService
	plans    PlanService
	planRepo *mockPlanRepo
}

func setupTestTemplateService() *templateEnv {
	planRepo := newMockPlanRepo()
	repo := &repository.Repository{
		Plan:     planRepo,
		Period:   newMockPeriodRepo(),
		Template: newMockTemplateRepo(),
	}
	periods := NewPeriodService(repo, &stubHolidayService{}, zap.NewNop())
	plans := NewPlanService(repo, periods, zap.NewNop())
	return &templateEnv{
		svc:      NewTemplateService(repo, plans, zap.NewNop()),
		plans:    plans,
		planRepo: planRepo,
	}
}

func (e *templateEnv) seedPlan(t *testing.T, owner string, week int) *dto.PlanResponse {
	t.Helper()
	year := 2024
	plan, err := e.plans.Ensure(context.Background(), owner, &dto.EnsurePlanRequest{Year: &year, WeekNo: &week})
	if err != nil {
		t.Fatalf("准备计划失败: %v", err)
	}
	return plan
}

// ── 测试 ──

func TestTemplateService_CreateFromPlan_Snapshot(t *testing.T) {
	env := setupTestTemplateService()
	ctx := context.Background()

	plan := env.seedPlan(t, "user-1", 10)
	_, _ = env.plans.AddItem(ctx, plan.PlanID, "user-1", model.RoleUser, &dto.CreateItemRequest{
		WeeklyGoal:     "例行周会",
		EstimatedHours: f64(1),
		Details:        []dto.ItemDetailInput{{Content: "部门周会", Hours: f64(1)}},
	})

	tpl, err := env.svc.CreateFromPlan(ctx, "user-1", &dto.CreateTemplateRequest{
		Name:   "每周例行",
		PlanID: plan.PlanID,
	})
	if err != nil {
		t.Fatalf("CreateFromPlan 应成功: %v", err)
	}
	if tpl.ItemCount != 1 || len(tpl.Items) != 1 {
		t.Fatalf("模板应快照 1 个条目，实际=%d", tpl.ItemCount)
	}
	if len(tpl.Items[0].Details) != 1 {
		t.Errorf("明细应一并快照，实际=%d", len(tpl.Items[0].Details))
	}

	// 同名模板拒绝
	if _, err := env.svc.CreateFromPlan(ctx, "user-1", &dto.CreateTemplateRequest{
		Name: "每周例行", PlanID: plan.PlanID,
	}); !errors.Is(err, ErrTemplateNameTaken) {
		t.Errorf("期望 ErrTemplateNameTaken，实际: %v", err)
	}
}

func TestTemplateService_Apply_Append(t *testing.T) {
	env := setupTestTemplateService()
	ctx := context.Background()

	source := env.seedPlan(t, "user-1", 10)
	_, _ = env.plans.AddItem(ctx, source.PlanID, "user-1", model.RoleUser, &dto.CreateItemRequest{
		WeeklyGoal: "例行周会", EstimatedHours: f64(1),
	})
	tpl, _ := env.svc.CreateFromPlan(ctx, "user-1", &dto.CreateTemplateRequest{Name: "每周例行", PlanID: source.PlanID})

	target := env.seedPlan(t, "user-1", 11)
	_, _ = env.plans.AddItem(ctx, target.PlanID, "user-1", model.RoleUser, &dto.CreateItemRequest{
		WeeklyGoal: "已有条目", EstimatedHours: f64(2),
	})

	applied, err := env.svc.Apply(ctx, tpl.TemplateID, "user-1", model.RoleUser, &dto.ApplyTemplateRequest{
		PlanID: target.PlanID,
		Mode:   ApplyModeAppend,
	})
	if err != nil {
		t.Fatalf("Apply append 应成功: %v", err)
	}
	if len(applied.Items) != 2 {
		t.Fatalf("追加后应有 2 个条目，实际=%d", len(applied.Items))
	}
	if applied.Items[0].WeeklyGoal != "已有条目" || applied.Items[1].WeeklyGoal != "例行周会" {
		t.Errorf("追加应排在现有条目之后: %s, %s",
			applied.Items[0].WeeklyGoal, applied.Items[1].WeeklyGoal)
	}
	if applied.Items[1].SortNo <= applied.Items[0].SortNo {
		t.Errorf("追加条目排序号应更大: %d <= %d", applied.Items[1].SortNo, applied.Items[0].SortNo)
	}
}

func TestTemplateService_Apply_Replace(t *testing.T) {
	env := setupTestTemplateService()
	ctx := context.Background()

	source := env.seedPlan(t, "user-1", 10)
	_, _ = env.plans.AddItem(ctx, source.PlanID, "user-1", model.RoleUser, &dto.CreateItemRequest{
		WeeklyGoal: "例行周会", EstimatedHours: f64(1),
	})
	tpl, _ := env.svc.CreateFromPlan(ctx, "user-1", &dto.CreateTemplateRequest{Name: "每周例行", PlanID: source.PlanID})

	target := env.seedPlan(t, "user-1", 11)
	_, _ = env.plans.AddItem(ctx, target.PlanID, "user-1", model.RoleUser, &dto.CreateItemRequest{
		WeeklyGoal: "要被清掉的条目",
	})

	applied, err := env.svc.Apply(ctx, tpl.TemplateID, "user-1", model.RoleUser, &dto.ApplyTemplateRequest{
		PlanID: target.PlanID,
		Mode:   ApplyModeReplace,
	})
	if err != nil {
		t.Fatalf("Apply replace 应成功: %v", err)
	}
	if len(applied.Items) != 1 {
		t.Fatalf("替换后应只剩模板条目，实际=%d", len(applied.Items))
	}
	if applied.Items[0].WeeklyGoal != "例行周会" {
		t.Errorf("条目应来自模板，实际=%s", applied.Items[0].WeeklyGoal)
	}
}

func TestTemplateService_Apply_ForbiddenForOthers(t *testing.T) {
	env := setupTestTemplateService()
	ctx := context.Background()

	source := env.seedPlan(t, "user-1", 10)
	tpl, _ := env.svc.CreateFromPlan(ctx, "user-1", &dto.CreateTemplateRequest{Name: "每周例行", PlanID: source.PlanID})

	if _, err := env.svc.Apply(ctx, tpl.TemplateID, "user-2", model.RoleUser, &dto.ApplyTemplateRequest{
		PlanID: source.PlanID,
	}); !errors.Is(err, ErrPlanForbidden) {
		t.Errorf("期望 ErrPlanForbidden，实际: %v", err)
	}
}

func TestTemplateService_Delete(t *testing.T) {
	env := setupTestTemplateService()
	ctx := context.Background()

	source := env.seedPlan(t, "user-1", 10)
	tpl, _ := env.svc.CreateFromPlan(ctx, "user-1", &dto.CreateTemplateRequest{Name: "每周例行", PlanID: source.PlanID})

	if err := env.svc.Delete(ctx, tpl.TemplateID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if err := env.svc.Delete(ctx, tpl.TemplateID); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("期望 ErrTemplateNotFound，实际: %v", err)
	}
}
