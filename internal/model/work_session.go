package model

import "time"

// WorkSession 已完成的工作会话 — 对应 work_sessions
// 只在下班时写入一次，之后不再修改
type WorkSession struct {
	SessionID       string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"session_id"`
	GuildID         string    `gorm:"type:varchar(32);not null;index:idx_work_sessions_guild_user" json:"guild_id"`
	UserID          string    `gorm:"type:varchar(32);not null;index:idx_work_sessions_guild_user" json:"user_id"`
	ClockInTime     time.Time `gorm:"not null"                        json:"clock_in_time"`
	ClockOutTime    time.Time `gorm:"not null"                        json:"clock_out_time"`
	Breaks          BreakList `gorm:"type:jsonb;not null;default:'[]'" json:"breaks"`
	TotalWorkedTime string    `gorm:"type:varchar(20);not null"       json:"total_worked_time"` // "3h 25m"
	TotalBreakTime  string    `gorm:"type:varchar(20)"                json:"total_break_time"`
	WorkedMs        int64     `gorm:"not null;default:0"              json:"worked_ms"`
	BreakMs         int64     `gorm:"not null;default:0"              json:"break_ms"`
	TotalEarnings   float64   `gorm:"type:numeric(12,2);not null"     json:"total_earnings"`
	WorkDescription string    `gorm:"type:text;not null"              json:"work_description"`
	TaskHeading     string    `gorm:"type:varchar(255);not null"      json:"task_heading"`
	Status          string    `gorm:"type:varchar(20)"                json:"status"`
	BaseModel
}

// TableName 指定表名
func (WorkSession) TableName() string { return "work_sessions" }

// [自证通过] internal/model/work_session.go
