package service

import "financetracker/models"

// Level 操作所需的权限级别
type Level string

const (
	// LevelRead 读取档案数据
	LevelRead Level = "read"
	// LevelEdit 修改档案数据（包含读取）
	LevelEdit Level = "edit"
)

// Decision 授权结果。Denied 时 Reason 为面向用户的拒绝说明
type Decision struct {
	Allowed bool
	Reason  string
}

func allowed() Decision {
	return Decision{Allowed: true}
}

func denied(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Authorize 判定用户能否以 required 级别访问某档案
// 纯决策函数，不做任何 I/O：link 为调用方查到的该用户对该档案的授权记录，无则传 nil
// 规则：管理员无条件放行；非管理员必须角色为 approved 且持有 Link；edit 蕴含 read
func Authorize(user *models.User, link *models.Link, required Level) Decision {
	if user == nil {
		return denied("用户不存在")
	}
	if user.IsAdmin() {
		return allowed()
	}
	switch user.Role {
	case models.RoleApproved:
		// 继续检查 Link
	case models.RolePending:
		return denied("账号待管理员审核，暂无法访问")
	case models.RoleRejected:
		return denied("账号未通过审核")
	default:
		return denied("账号状态异常")
	}
	if link == nil {
		return denied("无权访问该档案")
	}
	if required == LevelEdit && link.Permission != models.PermissionEdit {
		return denied("当前为只读权限，该操作需要编辑权限")
	}
	return allowed()
}
