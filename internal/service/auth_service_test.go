package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"weekly-plan/backend/config"
	"weekly-plan/backend/internal/dto"
	"weekly-plan/backend/internal/model"
	"weekly-plan/backend/internal/repository"
	"weekly-plan/backend/pkg/jwt"
)

// ── 测试辅助 ──

func setupTestAuthService() (AuthService, *mockUserRepo) {
	userRepo := newMockUserRepo()
	repo := &repository.Repository{User: userRepo}
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret-at-least-16-chars",
			AccessTokenTTL:          15 * time.Minute,
			RefreshTokenTTLDefault:  24 * time.Hour,
			RefreshTokenTTLRemember: 30 * 24 * time.Hour,
		},
	}
	jwtMgr := jwt.NewManager(&cfg.Auth)
	// Login/ChangePassword 不经过 Redis 黑名单
	svc := NewAuthService(cfg, repo, jwtMgr, nil, zap.NewNop())
	return svc, userRepo
}

func seedUser(t *testing.T, userRepo *mockUserRepo, username, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("生成密码哈希失败: %v", err)
	}
	user := &model.User{
		Username:     username,
		Name:         "测试用户",
		Role:         model.RoleUser,
		PasswordHash: string(hash),
	}
	if err := userRepo.Create(context.Background(), user); err != nil {
		t.Fatalf("准备用户失败: %v", err)
	}
	return user
}

// ── Login 测试 ──

func TestAuthService_Login_Success(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	seedUser(t, userRepo, "alice", "password123")

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "alice",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("应签发 Token 对")
	}
	if resp.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("expires_in 期望 900，实际=%d", resp.ExpiresIn)
	}
	if resp.User.Username != "alice" {
		t.Errorf("响应用户名期望 alice，实际=%s", resp.User.Username)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	seedUser(t, userRepo, "alice", "password123")

	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "alice",
		Password: "wrong",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc, _ := setupTestAuthService()

	// 不存在的用户与密码错误返回同一错误，避免枚举
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "ghost",
		Password: "password123",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

// ── ChangePassword 测试 ──

func TestAuthService_ChangePassword(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	user := seedUser(t, userRepo, "alice", "password123")

	if err := svc.ChangePassword(context.Background(), user.UserID, &dto.ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "newpassword",
	}); !errors.Is(err, ErrOldPasswordWrong) {
		t.Errorf("期望 ErrOldPasswordWrong，实际: %v", err)
	}

	if err := svc.ChangePassword(context.Background(), user.UserID, &dto.ChangePasswordRequest{
		OldPassword: "password123",
		NewPassword: "newpassword",
	}); err != nil {
		t.Fatalf("ChangePassword 应成功: %v", err)
	}

	// 新密码可登录
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "alice",
		Password: "newpassword",
	}); err != nil {
		t.Errorf("新密码登录应成功: %v", err)
	}
}
