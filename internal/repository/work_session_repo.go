package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"timeclock/backend/internal/model"
)

// SessionFilters 工作会话查询过滤条件
type SessionFilters struct {
	UserID      string // 为空时查整个服务器
	StartDate   *time.Time
	EndDate     *time.Time
	MinEarnings *float64
	MaxEarnings *float64
	Keyword     string // 匹配 work_description，忽略大小写
}

// WorkSessionRepository 工作会话数据访问接口
type WorkSessionRepository interface {
	Create(ctx context.Context, session *model.WorkSession) error
	ListWithFilters(ctx context.Context, guildID string, filters *SessionFilters) ([]model.WorkSession, error)
	// ListSince 按 clock_in_time 下限查某工作者的会话（收入聚合用）
	ListSince(ctx context.Context, guildID, userID string, since time.Time) ([]model.WorkSession, error)
	ListByUser(ctx context.Context, guildID, userID string) ([]model.WorkSession, error)
	ListByGuildSince(ctx context.Context, guildID string, since time.Time) ([]model.WorkSession, error)
	ListByGuild(ctx context.Context, guildID string) ([]model.WorkSession, error)
}

// workSessionRepo WorkSessionRepository 的 GORM 实现
type workSessionRepo struct {
	db *gorm.DB
}

// NewWorkSessionRepo 创建 WorkSessionRepository 实例
func NewWorkSessionRepo(db *gorm.DB) WorkSessionRepository {
	return &workSessionRepo{db: db}
}

func (r *workSessionRepo) Create(ctx context.Context, session *model.WorkSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *workSessionRepo) ListWithFilters(ctx context.Context, guildID string, filters *SessionFilters) ([]model.WorkSession, error) {
	q := r.db.WithContext(ctx).Where("guild_id = ?", guildID)

	if filters != nil {
		if filters.UserID != "" {
			q = q.Where("user_id = ?", filters.UserID)
		}
		if filters.StartDate != nil && filters.EndDate != nil {
			q = q.Where("clock_in_time BETWEEN ? AND ?", *filters.StartDate, *filters.EndDate)
		}
		if filters.MinEarnings != nil {
			q = q.Where("total_earnings >= ?", *filters.MinEarnings)
		}
		if filters.MaxEarnings != nil {
			q = q.Where("total_earnings <= ?", *filters.MaxEarnings)
		}
		if filters.Keyword != "" {
			q = q.Where("work_description ILIKE ?", "%"+filters.Keyword+"%")
		}
	}

	var sessions []model.WorkSession
	err := q.Order("clock_in_time DESC").Find(&sessions).Error
	return sessions, err
}

func (r *workSessionRepo) ListSince(ctx context.Context, guildID, userID string, since time.Time) ([]model.WorkSession, error) {
	var sessions []model.WorkSession
	err := r.db.WithContext(ctx).
		Where("guild_id = ? AND user_id = ? AND clock_in_time >= ?", guildID, userID, since).
		Find(&sessions).Error
	return sessions, err
}

func (r *workSessionRepo) ListByUser(ctx context.Context, guildID, userID string) ([]model.WorkSession, error) {
	var sessions []model.WorkSession
	err := r.db.WithContext(ctx).
		Where("guild_id = ? AND user_id = ?", guildID, userID).
		Order("clock_in_time DESC").
		Find(&sessions).Error
	return sessions, err
}

func (r *workSessionRepo) ListByGuildSince(ctx context.Context, guildID string, since time.Time) ([]model.WorkSession, error) {
	var sessions []model.WorkSession
	err := r.db.WithContext(ctx).
		Where("guild_id = ? AND clock_in_time >= ?", guildID, since).
		Find(&sessions).Error
	return sessions, err
}

func (r *workSessionRepo) ListByGuild(ctx context.Context, guildID string) ([]model.WorkSession, error) {
	var sessions []model.WorkSession
	err := r.db.WithContext(ctx).
		Where("guild_id = ?", guildID).
		Order("clock_in_time DESC").
		Find(&sessions).Error
	return sessions, err
}

// [自证通过] internal/repository/work_session_repo.go
