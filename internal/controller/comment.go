package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/author-blog/internal/dto"
	"github.com/nsxzhou1114/author-blog/internal/service"
	"github.com/nsxzhou1114/author-blog/pkg/response"
)

// CommentApi 评论控制器
type CommentApi struct {
	commentService *service.CommentService
}

// NewCommentApi 创建评论控制器实例
func NewCommentApi(commentService *service.CommentService) *CommentApi {
	return &CommentApi{commentService: commentService}
}

// List 当前用户的评论列表
func (api *CommentApi) List(c *gin.Context) {
	list, err := api.commentService.List(c.Request.Context(), actorFrom(c))
	if err != nil {
		handleServiceError(c, err, "获取评论列表失败")
		return
	}
	response.Success(c, "获取成功", list)
}

// Detail 评论详情
func (api *CommentApi) Detail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	comment, err := api.commentService.Get(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		handleServiceError(c, err, "获取评论失败")
		return
	}
	response.Success(c, "获取成功", comment)
}

// Create 发表评论
func (api *CommentApi) Create(c *gin.Context) {
	var req dto.CommentCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	comment, err := api.commentService.Create(c.Request.Context(), actorFrom(c), &req)
	if err != nil {
		handleServiceError(c, err, "发表评论失败")
		return
	}
	response.Created(c, "评论成功", comment)
}

// Update 整体更新评论
func (api *CommentApi) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.CommentUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	comment, err := api.commentService.Update(c.Request.Context(), actorFrom(c), id, &req)
	if err != nil {
		handleServiceError(c, err, "更新评论失败")
		return
	}
	response.Success(c, "更新成功", comment)
}

// Patch 部分更新评论
func (api *CommentApi) Patch(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.CommentPatchRequest
	if !bindJSON(c, &req) {
		return
	}
	comment, err := api.commentService.Patch(c.Request.Context(), actorFrom(c), id, &req)
	if err != nil {
		handleServiceError(c, err, "更新评论失败")
		return
	}
	response.Success(c, "更新成功", comment)
}

// Delete 删除评论
func (api *CommentApi) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := api.commentService.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		handleServiceError(c, err, "删除评论失败")
		return
	}
	response.NoContent(c)
}
