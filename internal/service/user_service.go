package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nsxzhou1114/author-blog/internal/dto"
	"github.com/nsxzhou1114/author-blog/internal/model"
	"github.com/nsxzhou1114/author-blog/internal/policy"
	"github.com/nsxzhou1114/author-blog/pkg/auth"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService 用户与令牌服务
type UserService struct {
	db                *gorm.DB
	logger            *zap.SugaredLogger
	tokens            *auth.TokenManager
	passwordMinLength int
}

// NewUserService 创建用户服务
func NewUserService(db *gorm.DB, logger *zap.SugaredLogger, tokens *auth.TokenManager, passwordMinLength int) *UserService {
	if passwordMinLength <= 0 {
		passwordMinLength = 8
	}
	return &UserService{
		db:                db,
		logger:            logger,
		tokens:            tokens,
		passwordMinLength: passwordMinLength,
	}
}

// UserOption 创建用户时调整角色标志位
type UserOption func(*model.User)

// AsAuthor 作者用户
func AsAuthor(u *model.User) {
	u.IsAuthor = true
}

// AsSuperuser 超级用户同时拥有 staff 与 author 标志
func AsSuperuser(u *model.User) {
	u.IsSuperuser = true
	u.IsStaff = true
	u.IsAuthor = true
}

// CreateUser 创建普通用户，邮箱为空时返回 model.ErrEmailRequired
func (s *UserService) CreateUser(ctx context.Context, email, password, name string, opts ...UserOption) (*model.User, error) {
	email = model.NormalizeEmail(email)
	if email == "" {
		return nil, model.ErrEmailRequired
	}

	user := &model.User{
		Email:    email,
		Name:     strings.TrimSpace(name),
		IsActive: true,
	}
	for _, opt := range opts {
		opt(user)
	}
	if err := user.SetPassword(password); err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fieldError("password", "密码长度不能超过72字节")
		}
		return nil, fmt.Errorf("密码加密失败: %w", err)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fieldError("email", "该邮箱已被注册")
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fieldError("email", "该邮箱已被注册")
		}
		return nil, err
	}
	return user, nil
}

// CreateAuthorUser 创建作者用户
func (s *UserService) CreateAuthorUser(ctx context.Context, email, password, name string) (*model.User, error) {
	return s.CreateUser(ctx, email, password, name, AsAuthor)
}

// CreateSuperuser 创建超级用户
func (s *UserService) CreateSuperuser(ctx context.Context, email, password string) (*model.User, error) {
	return s.CreateUser(ctx, email, password, "", AsSuperuser)
}

// Register 注册用户，author 为 true 时注册为作者
func (s *UserService) Register(ctx context.Context, req *dto.CreateUserRequest, author bool) (*dto.UserResponse, error) {
	if len([]rune(req.Password)) < s.passwordMinLength {
		return nil, fieldError("password", fmt.Sprintf("密码长度不能少于%d位", s.passwordMinLength))
	}

	var opts []UserOption
	if author {
		opts = append(opts, AsAuthor)
	}
	user, err := s.CreateUser(ctx, req.Email, req.Password, req.Name, opts...)
	if errors.Is(err, model.ErrEmailRequired) {
		return nil, fieldError("email", err.Error())
	}
	if err != nil {
		return nil, err
	}

	s.logger.Infof("用户注册成功: id=%d author=%v", user.ID, author)
	return toUserResponse(user, ""), nil
}

// ObtainToken 使用邮箱和密码换取访问令牌
func (s *UserService) ObtainToken(ctx context.Context, req *dto.TokenRequest) (*dto.TokenResponse, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", model.NormalizeEmail(req.Email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive || !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("生成令牌失败: %w", err)
	}
	return &dto.TokenResponse{Token: token}, nil
}

// Authenticate 校验令牌并解析出调用者，每次都重新读取用户以反映最新的角色与状态
func (s *UserService) Authenticate(ctx context.Context, token string) (policy.Actor, *auth.Claims, error) {
	claims, err := s.tokens.Parse(ctx, token)
	if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrTokenRevoked) {
		return policy.Anonymous(), nil, fmt.Errorf("%w: %v", policy.ErrNotAuthenticated, err)
	}
	if err != nil {
		return policy.Anonymous(), nil, fmt.Errorf("校验令牌失败: %w", err)
	}

	var user model.User
	err = s.db.WithContext(ctx).First(&user, claims.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return policy.Anonymous(), nil, fmt.Errorf("%w: 用户不存在", policy.ErrNotAuthenticated)
	}
	if err != nil {
		return policy.Anonymous(), nil, err
	}

	actor := policy.NewActor(&user)
	if actor.IsAnonymous() {
		return actor, nil, fmt.Errorf("%w: 用户已停用", policy.ErrNotAuthenticated)
	}
	return actor, claims, nil
}

// Me 当前用户信息
func (s *UserService) Me(ctx context.Context, actor policy.Actor) (*dto.UserResponse, error) {
	if actor.IsAnonymous() {
		return nil, policy.ErrNotAuthenticated
	}

	var user model.User
	err := s.db.WithContext(ctx).First(&user, actor.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return toUserResponse(&user, actor.Role), nil
}

// Logout 撤销当前令牌
func (s *UserService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil {
		return policy.ErrNotAuthenticated
	}
	if err := s.tokens.Revoke(ctx, claims); err != nil {
		return fmt.Errorf("撤销令牌失败: %w", err)
	}
	s.logger.Infof("用户登出: id=%d", claims.UserID)
	return nil
}
