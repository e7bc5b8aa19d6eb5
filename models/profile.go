package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxProfileNameLen 档案名称最大长度
const MaxProfileNameLen = 100

// Profile 资产档案，一个档案下挂若干按日期记录的资产快照
type Profile struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"size:100;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (Profile) TableName() string {
	return "profiles"
}
