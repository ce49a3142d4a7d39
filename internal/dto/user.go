package dto

// CreateUserRequest 用户注册请求
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=72"`
	Name     string `json:"name" binding:"max=255"`
}

// TokenRequest 获取令牌请求
type TokenRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse 获取令牌响应
type TokenResponse struct {
	Token string `json:"token"`
}

// UserResponse 用户信息响应
type UserResponse struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	IsAuthor    bool   `json:"is_author"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
	Role        string `json:"role,omitempty"`
}
