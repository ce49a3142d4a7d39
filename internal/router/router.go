package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/author-blog/internal/config"
	"github.com/nsxzhou1114/author-blog/internal/controller"
	"github.com/nsxzhou1114/author-blog/internal/logger"
	"github.com/nsxzhou1114/author-blog/internal/middleware"
	"github.com/nsxzhou1114/author-blog/internal/policy"
	"github.com/nsxzhou1114/author-blog/internal/service"
	"github.com/nsxzhou1114/author-blog/internal/storage"
	"github.com/nsxzhou1114/author-blog/pkg/auth"
	"github.com/nsxzhou1114/author-blog/pkg/validate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies 路由所需的外部依赖
type Dependencies struct {
	Config     *config.Config
	DB         *gorm.DB
	Logger     *zap.SugaredLogger
	Tokens     *auth.TokenManager
	Authorizer *policy.Authorizer
	Storage    storage.Storage
}

// endpoint 一条路由及其访问要求
type endpoint struct {
	method      string
	path        string
	requirement policy.Requirement
	handler     gin.HandlerFunc
}

// apis 各模块控制器
type apis struct {
	user     *controller.UserApi
	category *controller.CategoryApi
	article  *controller.ArticleApi
	comment  *controller.CommentApi
}

// endpoints 所有 /api 下的端点
func endpoints(h apis) []endpoint {
	return []endpoint{
		// 用户
		{http.MethodPost, "/user/create_user", policy.Public, h.user.CreateUser},
		{http.MethodPost, "/user/create_author", policy.Public, h.user.CreateAuthor},
		{http.MethodPost, "/user/token", policy.Public, h.user.Token},
		{http.MethodGet, "/user/me", policy.Require(policy.UserSelf), h.user.Me},
		{http.MethodPost, "/user/logout", policy.Require(policy.UserSelf), h.user.Logout},

		// 分类
		{http.MethodGet, "/article/categories", policy.Require(policy.CategoryRead), h.category.List},
		{http.MethodPost, "/article/categories", policy.Require(policy.CategoryWrite), h.category.Create},

		// 公开文章
		{http.MethodGet, "/article/articles", policy.Allow(policy.ArticleRead), h.article.PublicList},
		{http.MethodGet, "/article/articles/:id", policy.Allow(policy.ArticleRead), h.article.PublicDetail},

		// 作者文章
		{http.MethodGet, "/article/authors-articles", policy.Require(policy.ArticleManage), h.article.List},
		{http.MethodPost, "/article/authors-articles", policy.Require(policy.ArticleManage), h.article.Create},
		{http.MethodGet, "/article/authors-articles/:id", policy.Require(policy.ArticleManage), h.article.Detail},
		{http.MethodPut, "/article/authors-articles/:id", policy.Require(policy.ArticleManage), h.article.Update},
		{http.MethodPatch, "/article/authors-articles/:id", policy.Require(policy.ArticleManage), h.article.Patch},
		{http.MethodDelete, "/article/authors-articles/:id", policy.Require(policy.ArticleManage), h.article.Delete},
		{http.MethodPost, "/article/authors-articles/:id/upload-image", policy.Require(policy.ArticleManage), h.article.UploadImage},
		{http.MethodPatch, "/article/authors-articles/:id/like", policy.Require(policy.ArticleLike), h.article.Like},

		// 评论
		{http.MethodGet, "/article/comments", policy.Require(policy.CommentRead), h.comment.List},
		{http.MethodPost, "/article/comments", policy.Require(policy.CommentWrite), h.comment.Create},
		{http.MethodGet, "/article/comments/:id", policy.Require(policy.CommentRead), h.comment.Detail},
		{http.MethodPut, "/article/comments/:id", policy.Require(policy.CommentWrite), h.comment.Update},
		{http.MethodPatch, "/article/comments/:id", policy.Require(policy.CommentWrite), h.comment.Patch},
		{http.MethodDelete, "/article/comments/:id", policy.Require(policy.CommentWrite), h.comment.Delete},
	}
}

// New 创建gin引擎并注册全部路由
func New(deps Dependencies) *gin.Engine {
	validate.Register()
	cfg := deps.Config

	r := gin.New()
	r.Use(middleware.RequestID(), logger.GinLogger(), logger.GinRecovery(), middleware.Cors(), middleware.Metrics())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 本地存储时提供图片的静态访问
	if local, ok := deps.Storage.(*storage.Local); ok && local.URLPrefix() != "" {
		r.Static(local.URLPrefix(), local.Root())
	}

	userService := service.NewUserService(deps.DB, deps.Logger, deps.Tokens, cfg.Auth.PasswordMinLength)
	h := apis{
		user:     controller.NewUserApi(userService),
		category: controller.NewCategoryApi(service.NewCategoryService(deps.DB, deps.Logger, deps.Authorizer)),
		article:  controller.NewArticleApi(service.NewArticleService(deps.DB, deps.Logger, deps.Authorizer, deps.Storage, cfg.Image.MaxFileSize)),
		comment:  controller.NewCommentApi(service.NewCommentService(deps.DB, deps.Logger)),
	}

	api := r.Group("/api", middleware.Authenticate(userService))
	for _, e := range endpoints(h) {
		api.Handle(e.method, e.path, middleware.Enforce(deps.Authorizer, e.requirement), e.handler)
	}

	deps.Logger.Infof("已注册 %d 个API端点", len(endpoints(h)))
	return r
}
