package policy

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
	"go.uber.org/zap"
)

// Capability 能力，对应casbin中的 (obj, act)
type Capability struct {
	Object string
	Action string
}

func (c Capability) String() string {
	return c.Object + ":" + c.Action
}

// IsZero 是否为空能力
func (c Capability) IsZero() bool {
	return c.Object == "" && c.Action == ""
}

var (
	ArticleRead   = Capability{"article", "read"}
	ArticleManage = Capability{"article", "manage"}
	ArticleLike   = Capability{"article", "like"}
	CategoryRead  = Capability{"category", "read"}
	CategoryWrite = Capability{"category", "write"}
	CommentRead   = Capability{"comment", "read"}
	CommentWrite  = Capability{"comment", "write"}
	UserSelf      = Capability{"user", "self"}
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// grants 角色直接拥有的能力，继承关系见 inherits
var grants = map[Role][]Capability{
	RoleAnonymous: {ArticleRead},
	RoleUser:      {CommentRead, CommentWrite, UserSelf},
	RoleAuthor:    {CategoryRead, CategoryWrite, ArticleManage, ArticleLike},
}

// inherits 角色继承：superuser ⊇ author ⊇ user ⊇ anonymous
var inherits = [][2]Role{
	{RoleUser, RoleAnonymous},
	{RoleAuthor, RoleUser},
	{RoleSuperuser, RoleAuthor},
}

// Requirement 端点的访问要求
type Requirement struct {
	authenticated bool
	capability    Capability
}

var (
	// Public 任何人可访问
	Public = Requirement{}
	// Authenticated 仅要求已登录
	Authenticated = Requirement{authenticated: true}
)

// Allow 匿名可访问，但仍需角色具备该能力
func Allow(c Capability) Requirement {
	return Requirement{capability: c}
}

// Require 需要登录且角色具备该能力
func Require(c Capability) Requirement {
	return Requirement{authenticated: true, capability: c}
}

func (r Requirement) String() string {
	switch {
	case !r.authenticated && r.capability.IsZero():
		return "public"
	case r.capability.IsZero():
		return "authenticated"
	default:
		return r.capability.String()
	}
}

// Authorizer 基于casbin的权限判定
type Authorizer struct {
	enforcer *casbin.SyncedEnforcer
	log      *zap.SugaredLogger
}

// NewAuthorizer 创建权限判定器并写入默认策略
func NewAuthorizer(log *zap.SugaredLogger) (*Authorizer, error) {
	m, err := casbinmodel.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("加载权限模型失败: %w", err)
	}
	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("创建权限判定器失败: %w", err)
	}

	for role, caps := range grants {
		for _, c := range caps {
			if _, err := e.AddPolicy(string(role), c.Object, c.Action); err != nil {
				return nil, fmt.Errorf("添加策略 %s %s 失败: %w", role, c, err)
			}
		}
	}
	for _, pair := range inherits {
		if _, err := e.AddGroupingPolicy(string(pair[0]), string(pair[1])); err != nil {
			return nil, fmt.Errorf("添加角色继承 %s -> %s 失败: %w", pair[0], pair[1], err)
		}
	}

	return &Authorizer{enforcer: e, log: log}, nil
}

// Can 角色是否具备某能力
func (a *Authorizer) Can(role Role, c Capability) (bool, error) {
	return a.enforcer.Enforce(string(role), c.Object, c.Action)
}

// Check 判定调用者是否满足端点要求
// 匿名调用者被拒绝时返回 ErrNotAuthenticated，已登录调用者返回 ErrPermissionDenied
func (a *Authorizer) Check(actor Actor, req Requirement) error {
	if req.authenticated && actor.IsAnonymous() {
		return ErrNotAuthenticated
	}
	if req.capability.IsZero() {
		return nil
	}

	role := actor.Role
	if actor.IsAnonymous() {
		role = RoleAnonymous
	}
	ok, err := a.Can(role, req.capability)
	if err != nil {
		a.log.Errorf("权限判定失败: role=%s capability=%s err=%v", role, req.capability, err)
		ok = false
	}
	if ok {
		return nil
	}
	if actor.IsAnonymous() {
		return ErrNotAuthenticated
	}
	return ErrPermissionDenied
}

// CheckOwnership 调用者是对象所有者或超级用户时放行
func CheckOwnership(actor Actor, ownerID uint) error {
	if actor.IsAnonymous() {
		return ErrNotAuthenticated
	}
	if actor.UserID == ownerID || actor.IsSuperuser() {
		return nil
	}
	return ErrPermissionDenied
}
