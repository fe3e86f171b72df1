package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"weekly-plan/backend/internal/service"
	"weekly-plan/backend/pkg/response"
)

// AuditHandler 操作日志查询 HTTP 处理器（管理员）
type AuditHandler struct {
	auditSvc service.AuditService
}

// NewAuditHandler 创建 AuditHandler
func NewAuditHandler(auditSvc service.AuditService) *AuditHandler {
	return &AuditHandler{auditSvc: auditSvc}
}

// List 操作日志列表
// GET /api/v1/audit-logs?user_id=&action=&limit=&offset=
func (h *AuditHandler) List(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 200 {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.auditSvc.List(c.Request.Context(), c.Query("user_id"), c.Query("action"), limit, offset)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
