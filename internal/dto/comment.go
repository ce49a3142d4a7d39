package dto

import "time"

// CommentCreateRequest 发表评论请求
type CommentCreateRequest struct {
	Article uint   `json:"article" binding:"required"`
	Body    string `json:"body" binding:"required"`
}

// CommentUpdateRequest 整体更新评论请求
type CommentUpdateRequest struct {
	Body string `json:"body" binding:"required"`
}

// CommentPatchRequest 部分更新评论请求
type CommentPatchRequest struct {
	Body *string `json:"body" binding:"omitempty,min=1"`
}

// CommentResponse 评论响应
type CommentResponse struct {
	ID        uint      `json:"id"`
	Article   uint      `json:"article"`
	Author    uint      `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentDetail 评论详情，嵌套所属文章
type CommentDetail struct {
	CommentResponse
	ArticleBrief ArticleBrief `json:"article_detail"`
}
