package models

import "time"

const (
	// PermissionRead 只读权限
	PermissionRead = "read"
	// PermissionEdit 编辑权限（包含只读）
	PermissionEdit = "edit"
)

// ValidPermission 校验权限取值
func ValidPermission(p string) bool {
	return p == PermissionRead || p == PermissionEdit
}

// Link 用户对档案的授权记录。非管理员用户没有对应 Link 即完全无权访问该档案
// 仅由管理员在审批用户时创建，或在用户自建档案时隐式创建（edit）
type Link struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"uniqueIndex:idx_user_profile;not null"`
	ProfileID  uint      `json:"profile_id" gorm:"uniqueIndex:idx_user_profile;not null"`
	Permission string    `json:"permission" gorm:"size:10;not null"` // read/edit
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName 设置表名
func (Link) TableName() string {
	return "links"
}
