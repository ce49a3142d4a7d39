package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound 资源不存在或不在调用者可见范围内
	ErrNotFound = errors.New("资源不存在")
	// ErrInvalidCredentials 邮箱或密码错误
	ErrInvalidCredentials = errors.New("无法使用提供的凭据登录")
)

// ValidationError 校验失败，Fields 为 字段 -> 提示
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "参数校验失败: " + strings.Join(parts, "; ")
}

func fieldError(field, message string) error {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// IsValidation 判断是否为校验错误
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
