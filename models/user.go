package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	// RolePending 待审核：注册后的默认状态，不可登录
	RolePending = "pending"
	// RoleApproved 已审核：可按 Link 授权访问档案
	RoleApproved = "approved"
	// RoleAdmin 管理员：绕过 Link 授权，并负责审批用户
	RoleAdmin = "admin"
	// RoleRejected 已拒绝：不可登录
	RoleRejected = "rejected"
)

// User 用户模型
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Username  string         `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Password  string         `json:"-" gorm:"size:255;not null"`
	Email     string         `json:"email" gorm:"size:100"`
	Role      string         `json:"role" gorm:"size:20;default:pending;index"` // pending/approved/admin/rejected
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (User) TableName() string {
	return "users"
}

// IsAdmin 是否管理员。角色是管理员绕过的唯一依据
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
