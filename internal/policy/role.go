package policy

import "github.com/nsxzhou1114/author-blog/internal/model"

// Role 用户角色，由用户标志位统一解析得到
type Role string

const (
	RoleAnonymous Role = "anonymous"
	RoleUser      Role = "user"
	RoleAuthor    Role = "author"
	RoleSuperuser Role = "superuser"
)

// Roles 全部角色，按权限从低到高排列
var Roles = []Role{RoleAnonymous, RoleUser, RoleAuthor, RoleSuperuser}

// ResolveRole 把用户的标志位映射为唯一角色
// 未登录或已停用的用户视为匿名用户
func ResolveRole(u *model.User) Role {
	switch {
	case u == nil || u.ID == 0 || !u.IsActive:
		return RoleAnonymous
	case u.IsSuperuser:
		return RoleSuperuser
	case u.IsAuthor:
		return RoleAuthor
	default:
		return RoleUser
	}
}

// Valid 是否为已知角色
func (r Role) Valid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}
