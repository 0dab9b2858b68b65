package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"timeclock/backend/internal/dto"
	"timeclock/backend/internal/service"
	"timeclock/backend/pkg/response"
)

// SettingsHandler 服务器配置管理 HTTP 处理器（部门 / 角色 / 计时语音频道）
type SettingsHandler struct {
	settingsSvc service.SettingsService
}

// NewSettingsHandler 创建 SettingsHandler
func NewSettingsHandler(settingsSvc service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsSvc: settingsSvc}
}

// ── 部门 ──

// CreateDepartment 创建部门
// POST /api/admin/departments
func (h *SettingsHandler) CreateDepartment(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	dept, err := h.settingsSvc.CreateDepartment(c.Request.Context(), userID, req.Name)
	if err != nil {
		h.handleSettingsError(c, err)
		return
	}

	response.Created(c, dept)
}

// ListDepartments 部门列表
// GET /api/admin/departments
func (h *SettingsHandler) ListDepartments(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	depts, err := h.settingsSvc.ListDepartments(c.Request.Context(), userID)
	if err != nil {
		h.handleSettingsError(c, err)
		return
	}

	response.OK(c, gin.H{"departments": depts})
}

// DeleteDepartment 删除部门
// DELETE /api/admin/departments/:id
func (h *SettingsHandler) DeleteDepartment(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "部门ID不能为空")
		return
	}

	if err := h.settingsSvc.DeleteDepartment(c.Request.Context(), userID, id); err != nil {
		h.handleSettingsError(c, err)
		return
	}

	response.OK(c, nil)
}

// ── 工作角色 ──

// CreateRole 创建角色
// POST /api/admin/roles
func (h *SettingsHandler) CreateRole(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	role, err := h.settingsSvc.CreateRole(c.Request.Context(), userID, req.Name)
	if err != nil {
		h.handleSettingsError(c, err)
		return
	}

	response.Created(c, role)
}

// ListRoles 角色列表
// GET /api/admin/roles
func (h *SettingsHandler) ListRoles(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	roles, err := h.settingsSvc.ListRoles(c.Request.Context(), userID)
	if err != nil {
		h.handleSettingsError(c, err)
		return
	}

	response.OK(c, gin.H{"roles": roles})
}

// DeleteRole 删除角色
// DELETE /api/admin/roles/:id
func (h *SettingsHandler) DeleteRole(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "角色ID不能为空")
		return
	}

	if err := h.settingsSvc.DeleteRole(c.Request.Context(), userID, id); err != nil {
		h.handleSettingsError(c, err)
		return
	}

	response.OK(c, nil)
}

// ── 计时语音频道 ──

// AddVoiceChannel 登记计时语音频道
// POST /api/admin/voice-channels
func (h *SettingsHandler) AddVoiceChannel(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateVoiceChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	vc, err := h.settingsSvc.AddVoiceChannel(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleSettingsError(c, err)
		return
	}

	response.Created(c, vc)
}

// ListVoiceChannels 计时语音频道列表
// GET /api/admin/voice-channels
func (h *SettingsHandler) ListVoiceChannels(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	channels, err := h.settingsSvc.ListVoiceChannels(c.Request.Context(), userID)
	if err != nil {
		h.handleSettingsError(c, err)
		return
	}

	response.OK(c, gin.H{"voiceChannels": channels})
}

// DeleteVoiceChannel 删除计时语音频道
// DELETE /api/admin/voice-channels/:id
func (h *SettingsHandler) DeleteVoiceChannel(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "频道ID不能为空")
		return
	}

	if err := h.settingsSvc.DeleteVoiceChannel(c.Request.Context(), userID, id); err != nil {
		h.handleSettingsError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleSettingsError 配置管理业务错误映射
func (h *SettingsHandler) handleSettingsError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoSelectedGuild):
		response.BadRequest(c, 12001, "请先选择一个服务器")
	case errors.Is(err, service.ErrDepartmentExists):
		response.Error(c, http.StatusConflict, 18001, "同名部门已存在")
	case errors.Is(err, service.ErrDepartmentNotFound):
		response.NotFound(c, 18002, "部门不存在")
	case errors.Is(err, service.ErrDepartmentInUse):
		response.Error(c, http.StatusConflict, 18003, "部门下仍有成员，无法删除")
	case errors.Is(err, service.ErrRoleExists):
		response.Error(c, http.StatusConflict, 18004, "同名角色已存在")
	case errors.Is(err, service.ErrRoleNotFound):
		response.NotFound(c, 18005, "角色不存在")
	case errors.Is(err, service.ErrVoiceChannelExists):
		response.Error(c, http.StatusConflict, 18006, "该语音频道已登记")
	case errors.Is(err, service.ErrVoiceChanNotFound):
		response.NotFound(c, 18007, "语音频道不存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/settings_handler.go
