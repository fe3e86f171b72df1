package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/zap"

	"weekly-plan/backend/internal/dto"
	"weekly-plan/backend/internal/repository"
)

// ── 测试辅助 ──

func setupTestEmailConfigService() (EmailConfigService, *mockEmailConfigRepo) {
	cfgRepo := newMockEmailConfigRepo()
	repo := &repository.Repository{EmailConfig: cfgRepo}
	return NewEmailConfigService(repo, zap.NewNop()), cfgRepo
}

func saveReq() *dto.SaveEmailConfigRequest {
	pwd := "secret"
	return &dto.SaveEmailConfigRequest{
		SMTPHost:     "smtp.example.com",
		SMTPPort:     465,
		SMTPUsername: "me@example.com",
		SMTPPassword: &pwd,
		Sender:       "me@example.com",
		Recipients:   "boss@example.com",
		UseSSL:       true,
	}
}

// ── 测试 ──

func TestEmailConfigService_Get_NotFound(t *testing.T) {
	svc, _ := setupTestEmailConfigService()
	if _, err := svc.Get(context.Background(), "user-1"); !errors.Is(err, ErrEmailConfigNotFound) {
		t.Errorf("期望 ErrEmailConfigNotFound，实际: %v", err)
	}
}

func TestEmailConfigService_Save_VersionIncrements(t *testing.T) {
	svc, _ := setupTestEmailConfigService()
	ctx := context.Background()

	first, err := svc.Save(ctx, "user-1", saveReq())
	if err != nil {
		t.Fatalf("Save 应成功: %v", err)
	}
	if first.Version != 1 {
		t.Errorf("首次保存 version=1，实际=%d", first.Version)
	}

	second, err := svc.Save(ctx, "user-1", saveReq())
	if err != nil {
		t.Fatalf("重复 Save 应成功: %v", err)
	}
	if second.Version != 2 {
		t.Errorf("再次保存 version 应递增为 2，实际=%d", second.Version)
	}
	if second.ConfigID != first.ConfigID {
		t.Error("同一用户应复用同一配置行")
	}
}

func TestEmailConfigService_Save_KeepsPasswordWhenOmitted(t *testing.T) {
	svc, cfgRepo := setupTestEmailConfigService()
	ctx := context.Background()

	if _, err := svc.Save(ctx, "user-1", saveReq()); err != nil {
		t.Fatalf("Save 应成功: %v", err)
	}

	// 第二次保存不带密码
	req := saveReq()
	req.SMTPPassword = nil
	resp, err := svc.Save(ctx, "user-1", req)
	if err != nil {
		t.Fatalf("Save 应成功: %v", err)
	}
	if !resp.HasPassword {
		t.Error("缺省密码应沿用已存值")
	}
	stored, _ := cfgRepo.GetByUserID(ctx, "user-1")
	if stored.SMTPPassword != "secret" {
		t.Errorf("底层密码应保持不变，实际=%q", stored.SMTPPassword)
	}
}

func TestEmailConfigService_Save_ExtraPassthrough(t *testing.T) {
	svc, _ := setupTestEmailConfigService()
	ctx := context.Background()

	// 旧客户端写入了当前版本不认识的键
	req := saveReq()
	req.Extra = json.RawMessage(`{"legacy_signature":"best regards"}`)
	if _, err := svc.Save(ctx, "user-1", req); err != nil {
		t.Fatalf("Save 应成功: %v", err)
	}

	// 新客户端不带 Extra 的读改写不应丢失未知键
	req2 := saveReq()
	resp, err := svc.Save(ctx, "user-1", req2)
	if err != nil {
		t.Fatalf("Save 应成功: %v", err)
	}
	var extra map[string]string
	if err := json.Unmarshal(resp.Extra, &extra); err != nil {
		t.Fatalf("Extra 应为合法 JSON: %v", err)
	}
	if extra["legacy_signature"] != "best regards" {
		t.Errorf("未知键应原样透传，实际=%v", extra)
	}
}

func TestEmailConfigService_Save_ScheduleDefaults(t *testing.T) {
	svc, _ := setupTestEmailConfigService()
	resp, err := svc.Save(context.Background(), "user-1", saveReq())
	if err != nil {
		t.Fatalf("Save 应成功: %v", err)
	}
	if resp.ScheduleWeekday != 1 || resp.ScheduleTime != "09:00" {
		t.Errorf("调度字段应有缺省值，实际 weekday=%d time=%s",
			resp.ScheduleWeekday, resp.ScheduleTime)
	}
}
