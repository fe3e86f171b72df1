package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"weekly-plan/backend/internal/dto"
	"weekly-plan/backend/internal/service"
	"weekly-plan/backend/pkg/response"
)

// DictHandler 工作大类 / 子项目字典 HTTP 处理器
type DictHandler struct {
	dictSvc service.DictService
}

// NewDictHandler 创建 DictHandler
func NewDictHandler(dictSvc service.DictService) *DictHandler {
	return &DictHandler{dictSvc: dictSvc}
}

// ListTree 字典树（大类及其子项目）
// GET /api/v1/dict/categories
func (h *DictHandler) ListTree(c *gin.Context) {
	result, err := h.dictSvc.ListTree(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// EnsureCategory 登记工作大类（同名幂等）
// POST /api/v1/dict/categories
func (h *DictHandler) EnsureCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.dictSvc.EnsureCategory(c.Request.Context(), req.Name)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// EnsureSubProject 登记子项目（同大类下同名幂等）
// POST /api/v1/dict/categories/:id/sub-projects
func (h *DictHandler) EnsureSubProject(c *gin.Context) {
	var req dto.CreateSubProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.dictSvc.EnsureSubProject(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		h.handleDictError(c, err)
		return
	}

	response.OK(c, result)
}

// DisableCategory 停用工作大类（管理员）
// DELETE /api/v1/dict/categories/:id
func (h *DictHandler) DisableCategory(c *gin.Context) {
	if err := h.dictSvc.DisableCategory(c.Request.Context(), c.Param("id")); err != nil {
		h.handleDictError(c, err)
		return
	}

	response.OK(c, nil)
}

// DisableSubProject 停用子项目（管理员）
// DELETE /api/v1/dict/sub-projects/:id
func (h *DictHandler) DisableSubProject(c *gin.Context) {
	if err := h.dictSvc.DisableSubProject(c.Request.Context(), c.Param("id")); err != nil {
		h.handleDictError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *DictHandler) handleDictError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		response.NotFound(c, 16001, "工作大类不存在")
	case errors.Is(err, service.ErrSubProjectNotFound):
		response.NotFound(c, 16002, "子项目不存在")
	default:
		response.InternalError(c)
	}
}
