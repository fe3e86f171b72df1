package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"weekly-plan/backend/internal/dto"
	"weekly-plan/backend/internal/service"
	"weekly-plan/backend/pkg/response"
)

// PlanHandler 周计划 HTTP 处理器
type PlanHandler struct {
	planSvc  service.PlanService
	statsSvc service.StatsService
}

// NewPlanHandler 创建 PlanHandler
func NewPlanHandler(planSvc service.PlanService, statsSvc service.StatsService) *PlanHandler {
	return &PlanHandler{planSvc: planSvc, statsSvc: statsSvc}
}

// Ensure 登记本人某周期的周计划（幂等）
// POST /api/v1/plans/ensure
func (h *PlanHandler) Ensure(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.EnsurePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.planSvc.Ensure(c.Request.Context(), userID, &req)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}

	response.OK(c, result)
}

// Get 查询周计划（含条目与明细）
// GET /api/v1/plans/:id
func (h *PlanHandler) Get(c *gin.Context) {
	userID, role, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.planSvc.Get(c.Request.Context(), c.Param("id"), userID, role)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}

	response.OK(c, result)
}

// ListMine 本人最近的周计划列表
// GET /api/v1/plans/mine?limit=
func (h *PlanHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "12"))
	if err != nil || limit < 1 || limit > 100 {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.planSvc.ListMine(c.Request.Context(), userID, limit)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// SetStatus 更新周计划状态
// PUT /api/v1/plans/:id/status
func (h *PlanHandler) SetStatus(c *gin.Context) {
	userID, role, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdatePlanStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.planSvc.SetStatus(c.Request.Context(), c.Param("id"), userID, role, req.Status); err != nil {
		h.handlePlanError(c, err)
		return
	}

	response.OK(c, nil)
}

// AddItem 向周计划追加条目
// POST /api/v1/plans/:id/items
func (h *PlanHandler) AddItem(c *gin.Context) {
	userID, role, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.planSvc.AddItem(c.Request.Context(), c.Param("id"), userID, role, &req)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateItem 更新计划条目（部分字段）
// PUT /api/v1/plans/items/:item_id
func (h *PlanHandler) UpdateItem(c *gin.Context) {
	userID, role, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.planSvc.UpdateItem(c.Request.Context(), c.Param("item_id"), userID, role, &req)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteItem 删除计划条目
// DELETE /api/v1/plans/items/:item_id
func (h *PlanHandler) DeleteItem(c *gin.Context) {
	userID, role, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	if err := h.planSvc.DeleteItem(c.Request.Context(), c.Param("item_id"), userID, role); err != nil {
		h.handlePlanError(c, err)
		return
	}

	response.OK(c, nil)
}

// ReplaceDetails 整体替换条目的工作明细
// PUT /api/v1/plans/items/:item_id/details
func (h *PlanHandler) ReplaceDetails(c *gin.Context) {
	userID, role, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.ReplaceDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.planSvc.ReplaceDetails(c.Request.Context(), c.Param("item_id"), userID, role, &req)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}

	response.OK(c, result)
}

// Stats 周计划分类工时统计
// GET /api/v1/plans/:id/stats
func (h *PlanHandler) Stats(c *gin.Context) {
	userID, role, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	// 先做访问检查再统计，避免越权读他人计划的工时
	if _, err := h.planSvc.Get(c.Request.Context(), c.Param("id"), userID, role); err != nil {
		h.handlePlanError(c, err)
		return
	}

	result, err := h.statsSvc.PlanItemStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handlePlanError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *PlanHandler) handlePlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound):
		response.NotFound(c, 15001, "周计划不存在")
	case errors.Is(err, service.ErrPlanItemNotFound):
		response.NotFound(c, 15002, "计划条目不存在")
	case errors.Is(err, service.ErrPlanForbidden):
		response.Forbidden(c, 15003, "无权操作他人的周计划")
	case errors.Is(err, service.ErrPlanStatusInvalid):
		response.BadRequest(c, 15004, "计划状态无效")
	case errors.Is(err, service.ErrPeriodWeekInvalid),
		errors.Is(err, service.ErrPeriodDateInvalid),
		errors.Is(err, service.ErrPeriodNotFound),
		errors.Is(err, service.ErrMonthInvalid):
		handlePeriodError(c, err)
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/plan_handler.go
