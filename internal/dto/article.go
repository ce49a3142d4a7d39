package dto

import "time"

// ArticleRequest 创建或整体更新文章请求
type ArticleRequest struct {
	Title       string     `json:"title" binding:"required,max=155"`
	Description string     `json:"description" binding:"required"`
	Slug        string     `json:"slug" binding:"required,max=155,slug"`
	Categories  []uint     `json:"categories"`
	PublishDate *time.Time `json:"publish_date"`
}

// ArticlePatchRequest 部分更新文章请求，未提供的字段保持不变
type ArticlePatchRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1,max=155"`
	Description *string    `json:"description" binding:"omitempty,min=1"`
	Slug        *string    `json:"slug" binding:"omitempty,max=155,slug"`
	Categories  *[]uint    `json:"categories"`
	PublishDate *time.Time `json:"publish_date"`
}

// ArticleListItem 文章列表项
type ArticleListItem struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Owner       uint      `json:"owner"`
	Categories  []uint    `json:"categories"`
	Likes       []uint    `json:"likes"`
	Image       string    `json:"image"`
	PublishDate time.Time `json:"publish_date"`
}

// ArticleDetail 文章详情，嵌套分类与评论
type ArticleDetail struct {
	ID          uint               `json:"id"`
	Title       string             `json:"title"`
	Slug        string             `json:"slug"`
	Description string             `json:"description"`
	Owner       uint               `json:"owner"`
	Categories  []CategoryResponse `json:"categories"`
	Likes       []uint             `json:"likes"`
	Image       string             `json:"image"`
	PublishDate time.Time          `json:"publish_date"`
	Comments    []CommentResponse  `json:"comments"`
}

// ArticleBrief 文章摘要，嵌套在评论详情中
type ArticleBrief struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
	Owner uint   `json:"owner"`
}

// LikeRequest 点赞请求，method 为 DELETE 时取消点赞
type LikeRequest struct {
	Method string `json:"method"`
	Users  []uint `json:"users"`
}

// LikeResponse 点赞后的完整点赞用户集合
type LikeResponse struct {
	ID    uint   `json:"id"`
	Likes []uint `json:"likes"`
}

// ArticleImageResponse 上传图片响应
type ArticleImageResponse struct {
	ID    uint   `json:"id"`
	Image string `json:"image"`
}
