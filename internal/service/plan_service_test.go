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

func setupTestPlanService() (PlanService, *mockPlanRepo, *mockPeriodRepo) {
	planRepo := newMockPlanRepo()
	periodRepo := newMockPeriodRepo()
	repo := &repository.Repository{
		Plan:   planRepo,
		Period: periodRepo,
	}
	periods := NewPeriodService(repo, &stubHolidayService{}, zap.NewNop())
	svc := NewPlanService(repo, periods, zap.NewNop())
	return svc, planRepo, periodRepo
}

// ── Ensure 测试 ──

func TestPlanService_Ensure_CreatesDraft(t *testing.T) {
	svc, planRepo, _ := setupTestPlanService()

	year, week := 2024, 15
	req := &dto.EnsurePlanRequest{Year: &year, WeekNo: &week}
	plan, err := svc.Ensure(context.Background(), "user-1", req)
	if err != nil {
		t.Fatalf("Ensure 应成功: %v", err)
	}
	if plan.Status != model.PlanStatusDraft {
		t.Errorf("新计划应为草稿，实际=%s", plan.Status)
	}
	if len(planRepo.plans) != 1 {
		t.Errorf("应创建 1 份计划，实际=%d", len(planRepo.plans))
	}
}

func TestPlanService_Ensure_Idempotent(t *testing.T) {
	svc, planRepo, _ := setupTestPlanService()

	year, week := 2024, 15
	req := &dto.EnsurePlanRequest{Year: &year, WeekNo: &week}
	first, err := svc.Ensure(context.Background(), "user-1", req)
	if err != nil {
		t.Fatalf("首次 Ensure 应成功: %v", err)
	}
	second, err := svc.Ensure(context.Background(), "user-1", req)
	if err != nil {
		t.Fatalf("重复 Ensure 应成功: %v", err)
	}
	if first.PlanID != second.PlanID {
		t.Errorf("同人同周应复用同一计划: %s vs %s", first.PlanID, second.PlanID)
	}
	if len(planRepo.plans) != 1 {
		t.Errorf("应只有 1 份计划，实际=%d", len(planRepo.plans))
	}

	// 不同人不冲突
	other, err := svc.Ensure(context.Background(), "user-2", req)
	if err != nil {
		t.Fatalf("他人 Ensure 应成功: %v", err)
	}
	if other.PlanID == first.PlanID {
		t.Error("不同归属人应各自有计划")
	}
}

// ── 条目测试 ──

func TestPlanService_AddItem_AppendsSortNo(t *testing.T) {
	svc, _, _ := setupTestPlanService()
	ctx := context.Background()

	year, week := 2024, 20
	plan, err := svc.Ensure(ctx, "user-1", &dto.EnsurePlanRequest{Year: &year, WeekNo: &week})
	if err != nil {
		t.Fatalf("Ensure 应成功: %v", err)
	}

	first, err := svc.AddItem(ctx, plan.PlanID, "user-1", model.RoleUser, &dto.CreateItemRequest{
		WeeklyGoal:     "完成模块设计",
		EstimatedHours: f64(8),
	})
	if err != nil {
		t.Fatalf("AddItem 应成功: %v", err)
	}
	second, err := svc.AddItem(ctx, plan.PlanID, "user-1", model.RoleUser, &dto.CreateItemRequest{
		WeeklyGoal: "评审会议",
		Details: []dto.ItemDetailInput{
			{Content: "方案评审", Hours: f64(1.5)},
			{Content: "结论整理", Hours: f64(0.5)},
		},
	})
	if err != nil {
		t.Fatalf("AddItem 应成功: %v", err)
	}

	if first.SortNo != 1 || second.SortNo != 2 {
		t.Errorf("排序号应递增，实际 %d, %d", first.SortNo, second.SortNo)
	}
	if second.ActualHours != 2.0 {
		t.Errorf("带明细条目实际工时期望 2.0，实际=%v", second.ActualHours)
	}

	got, err := svc.Get(ctx, plan.PlanID, "user-1", model.RoleUser)
	if err != nil {
		t.Fatalf("Get 应成功: %v", err)
	}
	if got.TotalHours != 10.0 {
		t.Errorf("计划总工时期望 10.0，实际=%v", got.TotalHours)
	}
}

func TestPlanService_AddItem_ForbiddenForOthers(t *testing.T) {
	svc, _, _ := setupTestPlanService()
	ctx := context.Background()

	year, week := 2024, 20
	plan, _ := svc.Ensure(ctx, "user-1", &dto.EnsurePlanRequest{Year: &year, WeekNo: &week})

	_, err := svc.AddItem(ctx, plan.PlanID, "user-2", model.RoleUser, &dto.CreateItemRequest{WeeklyGoal: "x"})
	if !errors.Is(err, ErrPlanForbidden) {
		t.Errorf("期望 ErrPlanForbidden，实际: %v", err)
	}

	// 管理员可以代操作
	if _, err := svc.AddItem(ctx, plan.PlanID, "admin-1", model.RoleAdmin, &dto.CreateItemRequest{WeeklyGoal: "x"}); err != nil {
		t.Errorf("管理员应可操作: %v", err)
	}
}

func TestPlanService_UpdateItem_PartialUpdate(t *testing.T) {
	svc, _, _ := setupTestPlanService()
	ctx := context.Background()

	year, week := 2024, 21
	plan, _ := svc.Ensure(ctx, "user-1", &dto.EnsurePlanRequest{Year: &year, WeekNo: &week})
	item, _ := svc.AddItem(ctx, plan.PlanID, "user-1", model.RoleUser, &dto.CreateItemRequest{
		WeeklyGoal:     "初稿",
		EstimatedHours: f64(3),
	})

	goal := "终稿"
	updated, err := svc.UpdateItem(ctx, item.ItemID, "user-1", model.RoleUser, &dto.UpdateItemRequest{
		WeeklyGoal: &goal,
	})
	if err != nil {
		t.Fatalf("UpdateItem 应成功: %v", err)
	}
	if updated.WeeklyGoal != "终稿" {
		t.Errorf("目标应更新，实际=%s", updated.WeeklyGoal)
	}
	if updated.EstimatedHours == nil || *updated.EstimatedHours != 3 {
		t.Error("未提交的字段不应被覆盖")
	}
}

func TestPlanService_ReplaceDetails(t *testing.T) {
	svc, _, _ := setupTestPlanService()
	ctx := context.Background()

	year, week := 2024, 22
	plan, _ := svc.Ensure(ctx, "user-1", &dto.EnsurePlanRequest{Year: &year, WeekNo: &week})
	item, _ := svc.AddItem(ctx, plan.PlanID, "user-1", model.RoleUser, &dto.CreateItemRequest{
		WeeklyGoal: "联调",
		Details:    []dto.ItemDetailInput{{Content: "旧明细", Hours: f64(5)}},
	})

	updated, err := svc.ReplaceDetails(ctx, item.ItemID, "user-1", model.RoleUser, &dto.ReplaceDetailsRequest{
		Details: []dto.ItemDetailInput{
			{Content: "接口联调", Hours: f64(2)},
			{Content: "回归测试", Hours: f64(1)},
		},
	})
	if err != nil {
		t.Fatalf("ReplaceDetails 应成功: %v", err)
	}
	if len(updated.Details) != 2 {
		t.Fatalf("明细应整体替换为 2 条，实际=%d", len(updated.Details))
	}
	if updated.Details[0].Content != "接口联调" || updated.Details[0].SortNo != 1 {
		t.Errorf("明细顺序应按提交顺序重排，实际=%+v", updated.Details[0])
	}
	if updated.ActualHours != 3 {
		t.Errorf("替换后实际工时期望 3，实际=%v", updated.ActualHours)
	}
}

func TestPlanService_DeleteItem(t *testing.T) {
	svc, planRepo, _ := setupTestPlanService()
	ctx := context.Background()

	year, week := 2024, 23
	plan, _ := svc.Ensure(ctx, "user-1", &dto.EnsurePlanRequest{Year: &year, WeekNo: &week})
	item, _ := svc.AddItem(ctx, plan.PlanID, "user-1", model.RoleUser, &dto.CreateItemRequest{WeeklyGoal: "x"})

	if err := svc.DeleteItem(ctx, item.ItemID, "user-1", model.RoleUser); err != nil {
		t.Fatalf("DeleteItem 应成功: %v", err)
	}
	if len(planRepo.items) != 0 {
		t.Errorf("条目应被删除，剩余=%d", len(planRepo.items))
	}
	if err := svc.DeleteItem(ctx, item.ItemID, "user-1", model.RoleUser); !errors.Is(err, ErrPlanItemNotFound) {
		t.Errorf("期望 ErrPlanItemNotFound，实际: %v", err)
	}
}

// ── 状态测试 ──

func TestPlanService_SetStatus(t *testing.T) {
	svc, _, _ := setupTestPlanService()
	ctx := context.Background()

	year, week := 2024, 24
	plan, _ := svc.Ensure(ctx, "user-1", &dto.EnsurePlanRequest{Year: &year, WeekNo: &week})

	if err := svc.SetStatus(ctx, plan.PlanID, "user-1", model.RoleUser, model.PlanStatusSubmitted); err != nil {
		t.Fatalf("SetStatus 应成功: %v", err)
	}
	got, _ := svc.Get(ctx, plan.PlanID, "user-1", model.RoleUser)
	if got.Status != model.PlanStatusSubmitted {
		t.Errorf("状态应为 submitted，实际=%s", got.Status)
	}

	if err := svc.SetStatus(ctx, plan.PlanID, "user-1", model.RoleUser, "archived"); !errors.Is(err, ErrPlanStatusInvalid) {
		t.Errorf("期望 ErrPlanStatusInvalid，实际: %v", err)
	}
	if err := svc.SetStatus(ctx, plan.PlanID, "user-2", model.RoleUser, model.PlanStatusDraft); !errors.Is(err, ErrPlanForbidden) {
		t.Errorf("期望 ErrPlanForbidden，实际: %v", err)
	}
}
