package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"gorm.io/gorm"

	"timeclock/backend/internal/discord"
	"timeclock/backend/internal/model"
	"timeclock/backend/internal/repository"
	apperrors "timeclock/backend/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, userID string) (*model.User, error) {
	if u, ok := m.users[userID]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock GuildRepository ──

type mockGuildRepo struct {
	guilds map[string]*model.Guild
}

func newMockGuildRepo() *mockGuildRepo {
	return &mockGuildRepo{guilds: make(map[string]*model.Guild)}
}

func (m *mockGuildRepo) GetByID(_ context.Context, guildID string) (*model.Guild, error) {
	if g, ok := m.guilds[guildID]; ok {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGuildRepo) Upsert(_ context.Context, guild *model.Guild) error {
	m.guilds[guild.GuildID] = guild
	return nil
}

// ── Mock SelectedGuildRepository ──

type mockSelectedGuildRepo struct {
	selected map[string]string // userID → guildID
}

func newMockSelectedGuildRepo() *mockSelectedGuildRepo {
	return &mockSelectedGuildRepo{selected: make(map[string]string)}
}

func (m *mockSelectedGuildRepo) GetByUser(_ context.Context, userID string) (*model.SelectedGuild, error) {
	if g, ok := m.selected[userID]; ok {
		return &model.SelectedGuild{UserID: userID, GuildID: g}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSelectedGuildRepo) Upsert(_ context.Context, userID, guildID string) (*model.SelectedGuild, error) {
	m.selected[userID] = guildID
	return &model.SelectedGuild{UserID: userID, GuildID: guildID}, nil
}

// ── Mock WorkerRepository ──

type mockWorkerRepo struct {
	workers map[string]*model.Worker
	// forceConflicts 模拟并发写入：前 N 次 UpdateTimerState 返回乐观锁冲突
	forceConflicts int
}

func newMockWorkerRepo() *mockWorkerRepo {
	return &mockWorkerRepo{workers: make(map[string]*model.Worker)}
}

func workerKey(guildID, userID string) string {
	return guildID + ":" + userID
}

// copyWorker 返回独立副本，模拟数据库读取语义
func copyWorker(w *model.Worker) *model.Worker {
	cp := *w
	cp.Breaks = slices.Clone(w.Breaks)
	return &cp
}

func (m *mockWorkerRepo) Create(_ context.Context, worker *model.Worker) error {
	if worker.WorkerID == "" {
		worker.WorkerID = "w-" + worker.GuildID + "-" + worker.UserID
	}
	m.workers[workerKey(worker.GuildID, worker.UserID)] = copyWorker(worker)
	return nil
}

func (m *mockWorkerRepo) GetByGuildAndUser(_ context.Context, guildID, userID string) (*model.Worker, error) {
	if w, ok := m.workers[workerKey(guildID, userID)]; ok {
		return copyWorker(w), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkerRepo) GetOrCreate(ctx context.Context, guildID, userID string) (*model.Worker, error) {
	if w, ok := m.workers[workerKey(guildID, userID)]; ok {
		return copyWorker(w), nil
	}
	worker := &model.Worker{
		GuildID: guildID,
		UserID:  userID,
		Status:  model.StatusOffline,
		Breaks:  model.BreakList{},
		Version: 1,
	}
	if err := m.Create(ctx, worker); err != nil {
		return nil, err
	}
	return m.GetByGuildAndUser(ctx, guildID, userID)
}

func (m *mockWorkerRepo) List(_ context.Context, guildID string) ([]model.Worker, error) {
	var result []model.Worker
	for _, w := range m.workers {
		if w.GuildID == guildID {
			result = append(result, *copyWorker(w))
		}
	}
	return result, nil
}

func (m *mockWorkerRepo) ListActive(_ context.Context, guildID string) ([]model.Worker, error) {
	var result []model.Worker
	for _, w := range m.workers {
		if w.GuildID == guildID && w.ProfileStatus == "Active" {
			result = append(result, *copyWorker(w))
		}
	}
	return result, nil
}

func (m *mockWorkerRepo) CountActive(_ context.Context, guildID string) (int64, error) {
	var count int64
	for _, w := range m.workers {
		if w.GuildID == guildID && w.ProfileStatus == "Active" {
			count++
		}
	}
	return count, nil
}

func (m *mockWorkerRepo) Update(_ context.Context, worker *model.Worker) error {
	m.workers[workerKey(worker.GuildID, worker.UserID)] = copyWorker(worker)
	return nil
}

func (m *mockWorkerRepo) UpdateTimerState(_ context.Context, worker *model.Worker) error {
	stored, ok := m.workers[workerKey(worker.GuildID, worker.UserID)]
	if !ok {
		return apperrors.ErrOptimisticLock
	}
	if m.forceConflicts > 0 {
		m.forceConflicts--
		// 模拟另一写入者抢先提交
		stored.Version++
		return apperrors.ErrOptimisticLock
	}
	if stored.Version != worker.Version {
		return apperrors.ErrOptimisticLock
	}
	stored.Status = worker.Status
	stored.ClockInTime = worker.ClockInTime
	stored.IsTimerPaused = worker.IsTimerPaused
	stored.PauseStartTime = worker.PauseStartTime
	stored.AccumulatedPauseDuration = worker.AccumulatedPauseDuration
	stored.BreaksCount = worker.BreaksCount
	stored.Breaks = slices.Clone(worker.Breaks)
	stored.Version++
	worker.Version++
	return nil
}

// ── Mock VoiceChannelRepository ──

type mockVoiceChannelRepo struct {
	channels map[string]*model.VoiceChannel
}

func newMockVoiceChannelRepo() *mockVoiceChannelRepo {
	return &mockVoiceChannelRepo{channels: make(map[string]*model.VoiceChannel)}
}

func (m *mockVoiceChannelRepo) Create(_ context.Context, vc *model.VoiceChannel) error {
	if vc.VoiceChannelID == "" {
		vc.VoiceChannelID = "vc-" + vc.ChannelID
	}
	m.channels[vc.VoiceChannelID] = vc
	return nil
}

func (m *mockVoiceChannelRepo) ListByGuild(_ context.Context, guildID string) ([]model.VoiceChannel, error) {
	var result []model.VoiceChannel
	for _, vc := range m.channels {
		if vc.GuildID == guildID {
			result = append(result, *vc)
		}
	}
	return result, nil
}

func (m *mockVoiceChannelRepo) ListChannelIDs(_ context.Context, guildID string) ([]string, error) {
	var ids []string
	for _, vc := range m.channels {
		if vc.GuildID == guildID {
			ids = append(ids, vc.ChannelID)
		}
	}
	return ids, nil
}

func (m *mockVoiceChannelRepo) Delete(_ context.Context, guildID, id string) error {
	vc, ok := m.channels[id]
	if !ok || vc.GuildID != guildID {
		return gorm.ErrRecordNotFound
	}
	delete(m.channels, id)
	return nil
}

// ── Mock WorkSessionRepository ──

type mockWorkSessionRepo struct {
	sessions []model.WorkSession
}

func newMockWorkSessionRepo() *mockWorkSessionRepo {
	return &mockWorkSessionRepo{}
}

func (m *mockWorkSessionRepo) Create(_ context.Context, session *model.WorkSession) error {
	if session.SessionID == "" {
		session.SessionID = fmt.Sprintf("sess-%d", len(m.sessions)+1)
	}
	m.sessions = append(m.sessions, *session)
	return nil
}

func (m *mockWorkSessionRepo) ListWithFilters(_ context.Context, guildID string, filters *repository.SessionFilters) ([]model.WorkSession, error) {
	var result []model.WorkSession
	for _, s := range m.sessions {
		if s.GuildID != guildID {
			continue
		}
		if filters != nil {
			if filters.UserID != "" && s.UserID != filters.UserID {
				continue
			}
			if filters.StartDate != nil && s.ClockInTime.Before(*filters.StartDate) {
				continue
			}
			if filters.EndDate != nil && s.ClockInTime.After(*filters.EndDate) {
				continue
			}
			if filters.MinEarnings != nil && s.TotalEarnings < *filters.MinEarnings {
				continue
			}
			if filters.MaxEarnings != nil && s.TotalEarnings > *filters.MaxEarnings {
				continue
			}
			if filters.Keyword != "" && !strings.Contains(strings.ToLower(s.WorkDescription), strings.ToLower(filters.Keyword)) {
				continue
			}
		}
		result = append(result, s)
	}
	return result, nil
}

func (m *mockWorkSessionRepo) ListSince(_ context.Context, guildID, userID string, since time.Time) ([]model.WorkSession, error) {
	var result []model.WorkSession
	for _, s := range m.sessions {
		if s.GuildID == guildID && s.UserID == userID && !s.ClockInTime.Before(since) {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *mockWorkSessionRepo) ListByUser(_ context.Context, guildID, userID string) ([]model.WorkSession, error) {
	var result []model.WorkSession
	for _, s := range m.sessions {
		if s.GuildID == guildID && s.UserID == userID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *mockWorkSessionRepo) ListByGuildSince(_ context.Context, guildID string, since time.Time) ([]model.WorkSession, error) {
	var result []model.WorkSession
	for _, s := range m.sessions {
		if s.GuildID == guildID && !s.ClockInTime.Before(since) {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *mockWorkSessionRepo) ListByGuild(_ context.Context, guildID string) ([]model.WorkSession, error) {
	var result []model.WorkSession
	for _, s := range m.sessions {
		if s.GuildID == guildID {
			result = append(result, s)
		}
	}
	return result, nil
}

// ── Mock TaskRepository ──

type mockTaskRepo struct {
	tasks map[string]*model.Task
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[string]*model.Task)}
}

func (m *mockTaskRepo) Create(_ context.Context, task *model.Task) error {
	if task.TaskID == "" {
		task.TaskID = fmt.Sprintf("task-%d", len(m.tasks)+1)
	}
	m.tasks[task.TaskID] = task
	return nil
}

func (m *mockTaskRepo) GetByID(_ context.Context, id string) (*model.Task, error) {
	if t, ok := m.tasks[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTaskRepo) ListByUser(_ context.Context, guildID, userID string) ([]model.Task, error) {
	var result []model.Task
	for _, t := range m.tasks {
		if t.GuildID == guildID && t.UserID == userID {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (m *mockTaskRepo) ListByGuild(_ context.Context, guildID string) ([]model.Task, error) {
	var result []model.Task
	for _, t := range m.tasks {
		if t.GuildID == guildID {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (m *mockTaskRepo) ListActiveByUser(_ context.Context, guildID, userID string) ([]model.Task, error) {
	var result []model.Task
	for _, t := range m.tasks {
		if t.GuildID == guildID && t.UserID == userID &&
			(t.Status == model.TaskStatusInProgress || t.Status == model.TaskStatusStart) {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (m *mockTaskRepo) Update(_ context.Context, task *model.Task) error {
	cp := *task
	m.tasks[task.TaskID] = &cp
	return nil
}

// ── Mock TimeOffRepository ──

type mockTimeOffRepo struct {
	requests map[string]*model.TimeOffRequest
}

func newMockTimeOffRepo() *mockTimeOffRepo {
	return &mockTimeOffRepo{requests: make(map[string]*model.TimeOffRequest)}
}

func (m *mockTimeOffRepo) Create(_ context.Context, req *model.TimeOffRequest) error {
	if req.RequestID == "" {
		req.RequestID = fmt.Sprintf("to-%d", len(m.requests)+1)
	}
	if req.SubmittedAt.IsZero() {
		req.SubmittedAt = time.Now()
	}
	m.requests[req.RequestID] = req
	return nil
}

func (m *mockTimeOffRepo) GetByID(_ context.Context, id string) (*model.TimeOffRequest, error) {
	if r, ok := m.requests[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimeOffRepo) ListByUser(_ context.Context, guildID, userID string) ([]model.TimeOffRequest, error) {
	var result []model.TimeOffRequest
	for _, r := range m.requests {
		if r.GuildID == guildID && r.UserID == userID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockTimeOffRepo) ListByGuild(_ context.Context, guildID string) ([]model.TimeOffRequest, error) {
	var result []model.TimeOffRequest
	for _, r := range m.requests {
		if r.GuildID == guildID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockTimeOffRepo) Update(_ context.Context, req *model.TimeOffRequest) error {
	cp := *req
	m.requests[req.RequestID] = &cp
	return nil
}

// ── Mock DepartmentRepository ──

type mockDepartmentRepo struct {
	departments map[string]*model.Department
	memberCount map[string]int64
}

func newMockDepartmentRepo() *mockDepartmentRepo {
	return &mockDepartmentRepo{
		departments: make(map[string]*model.Department),
		memberCount: make(map[string]int64),
	}
}

func (m *mockDepartmentRepo) Create(_ context.Context, dept *model.Department) error {
	if dept.DepartmentID == "" {
		dept.DepartmentID = "dept-" + dept.Name
	}
	m.departments[dept.DepartmentID] = dept
	return nil
}

func (m *mockDepartmentRepo) GetByName(_ context.Context, guildID, name string) (*model.Department, error) {
	for _, d := range m.departments {
		if d.GuildID == guildID && d.Name == name {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) ListByGuild(_ context.Context, guildID string) ([]model.Department, error) {
	var result []model.Department
	for _, d := range m.departments {
		if d.GuildID == guildID {
			result = append(result, *d)
		}
	}
	return result, nil
}

func (m *mockDepartmentRepo) Delete(_ context.Context, guildID, id string) error {
	d, ok := m.departments[id]
	if !ok || d.GuildID != guildID {
		return gorm.ErrRecordNotFound
	}
	delete(m.departments, id)
	return nil
}

func (m *mockDepartmentRepo) CountMembers(_ context.Context, departmentID string) (int64, error) {
	return m.memberCount[departmentID], nil
}

// ── Mock RoleRepository ──

type mockRoleRepo struct {
	roles map[string]*model.Role
}

func newMockRoleRepo() *mockRoleRepo {
	return &mockRoleRepo{roles: make(map[string]*model.Role)}
}

func (m *mockRoleRepo) Create(_ context.Context, role *model.Role) error {
	if role.RoleID == "" {
		role.RoleID = "role-" + role.Name
	}
	m.roles[role.RoleID] = role
	return nil
}

func (m *mockRoleRepo) GetByName(_ context.Context, guildID, name string) (*model.Role, error) {
	for _, r := range m.roles {
		if r.GuildID == guildID && r.Name == name {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoleRepo) ListByGuild(_ context.Context, guildID string) ([]model.Role, error) {
	var result []model.Role
	for _, r := range m.roles {
		if r.GuildID == guildID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockRoleRepo) Delete(_ context.Context, guildID, id string) error {
	r, ok := m.roles[id]
	if !ok || r.GuildID != guildID {
		return gorm.ErrRecordNotFound
	}
	delete(m.roles, id)
	return nil
}

// ── Mock Discord Gateway ──

type mockGateway struct {
	// guilds 机器人可访问的服务器集合
	guilds map[string]bool
	// voice "guildID:userID" → 当前语音频道 ID；缺失表示不在语音频道
	voice map[string]string
	// members 服务器成员集合，键与 voice 相同
	members map[string]bool
	dms     []string
	failDM  bool
}

func newMockGateway() *mockGateway {
	return &mockGateway{
		guilds:  make(map[string]bool),
		voice:   make(map[string]string),
		members: make(map[string]bool),
	}
}

func (m *mockGateway) GuildAccessible(_ context.Context, guildID string) error {
	if m.guilds[guildID] {
		return nil
	}
	return discord.ErrGuildUnavailable
}

func (m *mockGateway) MemberVoiceChannel(_ context.Context, guildID, userID string) (string, error) {
	key := guildID + ":" + userID
	if !m.members[key] {
		return "", discord.ErrMemberNotFound
	}
	return m.voice[key], nil
}

func (m *mockGateway) SendDirectMessage(_ context.Context, userID, content string) error {
	if m.failDM {
		return fmt.Errorf("mock: dm failed")
	}
	m.dms = append(m.dms, userID+": "+content)
	return nil
}

// [自证通过] internal/service/mock_repos_test.go
