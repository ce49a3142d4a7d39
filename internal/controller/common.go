package controller

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/author-blog/internal/logger"
	"github.com/nsxzhou1114/author-blog/internal/policy"
	"github.com/nsxzhou1114/author-blog/internal/service"
	"github.com/nsxzhou1114/author-blog/pkg/response"
	"github.com/nsxzhou1114/author-blog/pkg/validate"
)

// actorFrom 当前请求的调用者
func actorFrom(c *gin.Context) policy.Actor {
	return policy.ActorFrom(c.Request.Context())
}

// parseID 解析路径中的 :id
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, http.StatusNotFound, "资源不存在", err)
		return 0, false
	}
	return uint(id), true
}

// bindJSON 绑定请求体，失败时返回字段级错误
func bindJSON(c *gin.Context, req any) bool {
	return checkBind(c, c.ShouldBindJSON(req))
}

// bindOptionalJSON 同 bindJSON，但允许空请求体（含分块传输的空请求体）
func bindOptionalJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if errors.Is(err, io.EOF) {
		return true
	}
	return checkBind(c, err)
}

func checkBind(c *gin.Context, err error) bool {
	if err == nil {
		return true
	}
	fields := validate.FieldErrors(err)
	if fields == nil {
		fields = map[string]string{"non_field_errors": "请求体格式错误"}
	}
	response.ValidationError(c, "参数错误", fields, err)
	return false
}

// handleServiceError 把服务层错误映射为HTTP状态码
func handleServiceError(c *gin.Context, err error, message string) {
	if ve, ok := service.IsValidation(err); ok {
		response.ValidationError(c, "参数错误", ve.Fields, err)
		return
	}

	switch {
	case errors.Is(err, policy.ErrNotAuthenticated):
		response.Unauthorized(c, "身份认证信息未提供或无效", err)
	case errors.Is(err, policy.ErrPermissionDenied):
		response.Forbidden(c, "没有执行该操作的权限", err)
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, "资源不存在", err)
	default:
		logger.Errorf("%s: %v", message, err)
		response.InternalServerError(c, message, err)
	}
}
