package dto

import (
	"time"

	"weekly-plan/backend/internal/model"
)

// ── 用户 / 团队 DTO ──

// CreateUserRequest 创建用户请求（管理员）
type CreateUserRequest struct {
	Username string  `json:"username" binding:"required,min=2,max=64"`
	Password string  `json:"password" binding:"required,min=6,max=64"`
	Name     string  `json:"name"     binding:"required,max=128"`
	Role     string  `json:"role"     binding:"omitempty,oneof=user admin"`
	TeamID   *string `json:"team_id"  binding:"omitempty,uuid"`
}

// UpdateUserRequest 更新用户请求，指针字段表示部分更新
type UpdateUserRequest struct {
	Name   *string `json:"name"    binding:"omitempty,max=128"`
	Role   *string `json:"role"    binding:"omitempty,oneof=user admin"`
	TeamID *string `json:"team_id" binding:"omitempty,uuid"`
}

// UserResponse 用户响应
type UserResponse struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	TeamID    *string   `json:"team_id,omitempty"`
	TeamName  string    `json:"team_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToUserResponse 模型转响应
func ToUserResponse(u *model.User) UserResponse {
	resp := UserResponse{
		UserID:    u.UserID,
		Username:  u.Username,
		Name:      u.Name,
		Role:      u.Role,
		TeamID:    u.TeamID,
		CreatedAt: u.CreatedAt,
	}
	if u.Team != nil {
		resp.TeamName = u.Team.Name
	}
	return resp
}

// CreateTeamRequest 创建团队请求
type CreateTeamRequest struct {
	Name string `json:"name" binding:"required,max=128"`
}

// TeamResponse 团队响应
type TeamResponse struct {
	TeamID      string `json:"team_id"`
	Name        string `json:"name"`
	Enabled     bool   `json:"enabled"`
	MemberCount int64  `json:"member_count"`
}
