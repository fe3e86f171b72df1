package dto

import "weekly-plan/backend/internal/model"

// ── 字典 DTO ──

// CreateCategoryRequest 创建工作大类请求（同名幂等复用）
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=128"`
}

// CreateSubProjectRequest 创建子项目请求（同大类同名幂等复用）
type CreateSubProjectRequest struct {
	CategoryID string `json:"category_id" binding:"required,uuid"`
	Name       string `json:"name"        binding:"required,max=128"`
}

// CategoryResponse 工作大类响应
type CategoryResponse struct {
	CategoryID  string               `json:"category_id"`
	Name        string               `json:"name"`
	SortNo      int                  `json:"sort_no"`
	SubProjects []SubProjectResponse `json:"sub_projects,omitempty"`
}

// SubProjectResponse 子项目响应
type SubProjectResponse struct {
	SubProjectID string `json:"sub_project_id"`
	CategoryID   string `json:"category_id"`
	Name         string `json:"name"`
	SortNo       int    `json:"sort_no"`
}

// ToCategoryResponse 模型转响应
func ToCategoryResponse(c *model.Category) CategoryResponse {
	return CategoryResponse{
		CategoryID: c.CategoryID,
		Name:       c.Name,
		SortNo:     c.SortNo,
	}
}

// ToSubProjectResponse 模型转响应
func ToSubProjectResponse(s *model.SubProject) SubProjectResponse {
	return SubProjectResponse{
		SubProjectID: s.SubProjectID,
		CategoryID:   s.CategoryID,
		Name:         s.Name,
		SortNo:       s.SortNo,
	}
}
