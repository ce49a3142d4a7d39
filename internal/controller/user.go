package controller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/author-blog/internal/dto"
	"github.com/nsxzhou1114/author-blog/internal/middleware"
	"github.com/nsxzhou1114/author-blog/internal/service"
	"github.com/nsxzhou1114/author-blog/pkg/response"
)

// UserApi 用户控制器
type UserApi struct {
	userService *service.UserService
}

// NewUserApi 创建用户控制器实例
func NewUserApi(userService *service.UserService) *UserApi {
	return &UserApi{userService: userService}
}

// CreateUser 注册普通用户
func (api *UserApi) CreateUser(c *gin.Context) {
	api.register(c, false)
}

// CreateAuthor 注册作者用户
func (api *UserApi) CreateAuthor(c *gin.Context) {
	api.register(c, true)
}

func (api *UserApi) register(c *gin.Context, author bool) {
	var req dto.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := api.userService.Register(c.Request.Context(), &req, author)
	if err != nil {
		handleServiceError(c, err, "注册失败")
		return
	}
	response.Created(c, "注册成功", user)
}

// Token 使用邮箱和密码获取令牌
func (api *UserApi) Token(c *gin.Context) {
	var req dto.TokenRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := api.userService.ObtainToken(c.Request.Context(), &req)
	if errors.Is(err, service.ErrInvalidCredentials) {
		response.BadRequest(c, err.Error(), err)
		return
	}
	if err != nil {
		handleServiceError(c, err, "获取令牌失败")
		return
	}
	response.Success(c, "登录成功", token)
}

// Me 获取当前用户信息
func (api *UserApi) Me(c *gin.Context) {
	user, err := api.userService.Me(c.Request.Context(), actorFrom(c))
	if err != nil {
		handleServiceError(c, err, "获取用户信息失败")
		return
	}
	response.Success(c, "获取成功", user)
}

// Logout 撤销当前令牌
func (api *UserApi) Logout(c *gin.Context) {
	claims, _ := middleware.GetClaims(c)
	if err := api.userService.Logout(c.Request.Context(), claims); err != nil {
		handleServiceError(c, err, "登出失败")
		return
	}
	response.Success(c, "登出成功", nil)
}
