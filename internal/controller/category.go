package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/author-blog/internal/dto"
	"github.com/nsxzhou1114/author-blog/internal/service"
	"github.com/nsxzhou1114/author-blog/pkg/response"
)

// CategoryApi 分类控制器
type CategoryApi struct {
	categoryService *service.CategoryService
}

// NewCategoryApi 创建分类控制器实例
func NewCategoryApi(categoryService *service.CategoryService) *CategoryApi {
	return &CategoryApi{categoryService: categoryService}
}

// List 当前作者的分类列表
func (api *CategoryApi) List(c *gin.Context) {
	list, err := api.categoryService.List(c.Request.Context(), actorFrom(c))
	if err != nil {
		handleServiceError(c, err, "获取分类列表失败")
		return
	}
	response.Success(c, "获取成功", list)
}

// Create 创建分类
func (api *CategoryApi) Create(c *gin.Context) {
	var req dto.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := api.categoryService.Create(c.Request.Context(), actorFrom(c), &req)
	if err != nil {
		handleServiceError(c, err, "创建分类失败")
		return
	}
	response.Created(c, "创建成功", category)
}
