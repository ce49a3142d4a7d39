package policy

import (
	"context"

	"github.com/nsxzhou1114/author-blog/internal/model"
)

// Actor 当前请求的调用者
type Actor struct {
	UserID uint
	Role   Role
}

type actorKey struct{}

// Anonymous 匿名调用者
func Anonymous() Actor {
	return Actor{Role: RoleAnonymous}
}

// NewActor 根据用户构造调用者
func NewActor(u *model.User) Actor {
	role := ResolveRole(u)
	if role == RoleAnonymous {
		return Anonymous()
	}
	return Actor{UserID: u.ID, Role: role}
}

// IsAnonymous 是否匿名
func (a Actor) IsAnonymous() bool {
	return a.UserID == 0 || a.Role == RoleAnonymous
}

// IsSuperuser 是否超级用户
func (a Actor) IsSuperuser() bool {
	return !a.IsAnonymous() && a.Role == RoleSuperuser
}

// WithActor 把调用者写入上下文
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFrom 从上下文读取调用者，缺省为匿名
func ActorFrom(ctx context.Context) Actor {
	if a, ok := ctx.Value(actorKey{}).(Actor); ok {
		return a
	}
	return Anonymous()
}
