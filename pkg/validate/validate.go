// Package validate 注册自定义校验规则并把校验错误整理成字段级信息
package validate

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	slugPattern  = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	registerOnce sync.Once
)

// Register 向gin的校验器注册 slug 规则，并使用json标签作为字段名
func Register() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonTagName)
		_ = v.RegisterValidation("slug", isSlug)
	})
}

func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

func isSlug(fl validator.FieldLevel) bool {
	return slugPattern.MatchString(fl.Field().String())
}

// IsSlug 校验字符串是否只包含字母、数字、下划线和连字符
func IsSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// FieldErrors 把校验错误转换为 字段 -> 提示 的映射，非校验错误返回 nil
func FieldErrors(err error) map[string]string {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return nil
	}

	fields := make(map[string]string, len(ves))
	for _, fe := range ves {
		fields[fe.Field()] = message(fe)
	}
	return fields
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "该字段不能为空"
	case "email":
		return "请输入有效的邮箱地址"
	case "min":
		return "长度不能小于" + fe.Param()
	case "max":
		return "长度不能超过" + fe.Param()
	case "slug":
		return "只能包含字母、数字、下划线和连字符"
	default:
		return "字段校验失败: " + fe.Tag()
	}
}
