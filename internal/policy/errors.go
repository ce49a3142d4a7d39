package policy

import "errors"

var (
	// ErrNotAuthenticated 未认证，对应 401
	ErrNotAuthenticated = errors.New("身份认证信息未提供或无效")
	// ErrPermissionDenied 已认证但角色或归属不满足，对应 403
	ErrPermissionDenied = errors.New("没有执行该操作的权限")
)
