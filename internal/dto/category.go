package dto

// CategoryRequest 创建分类请求
type CategoryRequest struct {
	Title string `json:"title" binding:"required,max=122"`
	Slug  string `json:"slug" binding:"required,max=155,slug"`
}

// CategoryResponse 分类响应
type CategoryResponse struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}
