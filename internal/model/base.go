package model

import (
	"time"
)

// Base 基础模型，创建时间写入后不可修改
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime;<-:create" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
