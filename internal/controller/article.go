package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/author-blog/internal/dto"
	"github.com/nsxzhou1114/author-blog/internal/service"
	"github.com/nsxzhou1114/author-blog/pkg/response"
)

// ArticleApi 文章控制器
type ArticleApi struct {
	articleService *service.ArticleService
}

// NewArticleApi 创建文章控制器实例
func NewArticleApi(articleService *service.ArticleService) *ArticleApi {
	return &ArticleApi{articleService: articleService}
}

// PublicList 公开文章列表
func (api *ArticleApi) PublicList(c *gin.Context) {
	list, err := api.articleService.ListPublic(c.Request.Context(), c.Query("categories"))
	if err != nil {
		handleServiceError(c, err, "获取文章列表失败")
		return
	}
	response.Success(c, "获取成功", list)
}

// PublicDetail 公开文章详情
func (api *ArticleApi) PublicDetail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	article, err := api.articleService.GetPublic(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err, "获取文章详情失败")
		return
	}
	response.Success(c, "获取成功", article)
}

// List 当前作者的文章列表
func (api *ArticleApi) List(c *gin.Context) {
	list, err := api.articleService.ListOwn(c.Request.Context(), actorFrom(c), c.Query("categories"))
	if err != nil {
		handleServiceError(c, err, "获取文章列表失败")
		return
	}
	response.Success(c, "获取成功", list)
}

// Detail 当前作者的文章详情
func (api *ArticleApi) Detail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	article, err := api.articleService.GetOwn(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		handleServiceError(c, err, "获取文章详情失败")
		return
	}
	response.Success(c, "获取成功", article)
}

// Create 创建文章
func (api *ArticleApi) Create(c *gin.Context) {
	var req dto.ArticleRequest
	if !bindJSON(c, &req) {
		return
	}

	article, err := api.articleService.Create(c.Request.Context(), actorFrom(c), &req)
	if err != nil {
		handleServiceError(c, err, "创建文章失败")
		return
	}
	response.Created(c, "创建成功", article)
}

// Update 整体更新文章
func (api *ArticleApi) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ArticleRequest
	if !bindJSON(c, &req) {
		return
	}

	article, err := api.articleService.Update(c.Request.Context(), actorFrom(c), id, &req)
	if err != nil {
		handleServiceError(c, err, "更新文章失败")
		return
	}
	response.Success(c, "更新成功", article)
}

// Patch 部分更新文章
func (api *ArticleApi) Patch(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ArticlePatchRequest
	if !bindJSON(c, &req) {
		return
	}

	article, err := api.articleService.Patch(c.Request.Context(), actorFrom(c), id, &req)
	if err != nil {
		handleServiceError(c, err, "更新文章失败")
		return
	}
	response.Success(c, "更新成功", article)
}

// Delete 删除文章
func (api *ArticleApi) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := api.articleService.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		handleServiceError(c, err, "删除文章失败")
		return
	}
	response.NoContent(c)
}

// Like 点赞或取消点赞
func (api *ArticleApi) Like(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.LikeRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	likes, err := api.articleService.ApplyLike(c.Request.Context(), actorFrom(c), id, &req)
	if err != nil {
		handleServiceError(c, err, "点赞失败")
		return
	}
	response.Success(c, "操作成功", likes)
}

// UploadImage 上传文章图片
func (api *ArticleApi) UploadImage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			response.ValidationError(c, "参数错误", map[string]string{"image": "请上传图片文件"}, err)
			return
		}
		response.ValidationError(c, "参数错误", map[string]string{"image": "请求格式错误，需要 multipart/form-data"}, err)
		return
	}

	result, err := api.articleService.UploadImage(c.Request.Context(), actorFrom(c), id, file)
	if err != nil {
		handleServiceError(c, err, "上传图片失败")
		return
	}
	response.Success(c, "上传成功", result)
}
