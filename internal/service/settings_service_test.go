package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"timeclock/backend/internal/dto"
	"timeclock/backend/internal/repository"
)

type settingsFixture struct {
	svc         SettingsService
	departments *mockDepartmentRepo
	roles       *mockRoleRepo
	channels    *mockVoiceChannelRepo
}

func setupSettingsService(t *testing.T) *settingsFixture {
	t.Helper()

	departments := newMockDepartmentRepo()
	roles := newMockRoleRepo()
	channels := newMockVoiceChannelRepo()
	selected := newMockSelectedGuildRepo()
	repo := &repository.Repository{
		SelectedGuild: selected,
		Department:    departments,
		Role:          roles,
		VoiceChannel:  channels,
	}
	if _, err := selected.Upsert(context.Background(), "admin", "g1"); err != nil {
		t.Fatalf("预置选中服务器失败: %v", err)
	}

	return &settingsFixture{
		svc:         NewSettingsService(repo, nil, zap.NewNop()),
		departments: departments,
		roles:       roles,
		channels:    channels,
	}
}

func TestCreateDepartment_Duplicate(t *testing.T) {
	f := setupSettingsService(t)

	if _, err := f.svc.CreateDepartment(context.Background(), "admin", "研发部"); err != nil {
		t.Fatalf("创建部门失败: %v", err)
	}

	_, err := f.svc.CreateDepartment(context.Background(), "admin", "研发部")
	if !errors.Is(err, ErrDepartmentExists) {
		t.Errorf("期望 ErrDepartmentExists，实际: %v", err)
	}
}

func TestDeleteDepartment_InUse(t *testing.T) {
	f := setupSettingsService(t)

	dept, err := f.svc.CreateDepartment(context.Background(), "admin", "研发部")
	if err != nil {
		t.Fatalf("创建部门失败: %v", err)
	}
	f.departments.memberCount[dept.DepartmentID] = 3

	err = f.svc.DeleteDepartment(context.Background(), "admin", dept.DepartmentID)
	if !errors.Is(err, ErrDepartmentInUse) {
		t.Errorf("期望 ErrDepartmentInUse，实际: %v", err)
	}
}

func TestDeleteDepartment_NotFound(t *testing.T) {
	f := setupSettingsService(t)

	err := f.svc.DeleteDepartment(context.Background(), "admin", "missing")
	if !errors.Is(err, ErrDepartmentNotFound) {
		t.Errorf("期望 ErrDepartmentNotFound，实际: %v", err)
	}
}

func TestCreateRole_Duplicate(t *testing.T) {
	f := setupSettingsService(t)

	if _, err := f.svc.CreateRole(context.Background(), "admin", "后端工程师"); err != nil {
		t.Fatalf("创建角色失败: %v", err)
	}

	_, err := f.svc.CreateRole(context.Background(), "admin", "后端工程师")
	if !errors.Is(err, ErrRoleExists) {
		t.Errorf("期望 ErrRoleExists，实际: %v", err)
	}
}

func TestAddVoiceChannel_Duplicate(t *testing.T) {
	f := setupSettingsService(t)

	req := &dto.CreateVoiceChannelRequest{ChannelID: "vc1", ChannelName: "工作间"}
	if _, err := f.svc.AddVoiceChannel(context.Background(), "admin", req); err != nil {
		t.Fatalf("登记语音频道失败: %v", err)
	}

	_, err := f.svc.AddVoiceChannel(context.Background(), "admin", req)
	if !errors.Is(err, ErrVoiceChannelExists) {
		t.Errorf("期望 ErrVoiceChannelExists，实际: %v", err)
	}
}

func TestDeleteVoiceChannel(t *testing.T) {
	f := setupSettingsService(t)

	vc, err := f.svc.AddVoiceChannel(context.Background(), "admin", &dto.CreateVoiceChannelRequest{
		ChannelID: "vc1", ChannelName: "工作间",
	})
	if err != nil {
		t.Fatalf("登记语音频道失败: %v", err)
	}

	if err := f.svc.DeleteVoiceChannel(context.Background(), "admin", vc.VoiceChannelID); err != nil {
		t.Fatalf("删除语音频道失败: %v", err)
	}

	err = f.svc.DeleteVoiceChannel(context.Background(), "admin", vc.VoiceChannelID)
	if !errors.Is(err, ErrVoiceChanNotFound) {
		t.Errorf("重复删除期望 ErrVoiceChanNotFound，实际: %v", err)
	}
}

func TestSettings_NoSelectedGuild(t *testing.T) {
	f := setupSettingsService(t)

	_, err := f.svc.CreateDepartment(context.Background(), "stranger", "研发部")
	if !errors.Is(err, ErrNoSelectedGuild) {
		t.Errorf("期望 ErrNoSelectedGuild，实际: %v", err)
	}
}

// [自证通过] internal/service/settings_service_test.go
