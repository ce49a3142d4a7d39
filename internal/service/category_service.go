package service

import (
	"context"
	"errors"
	"strings"

	"github.com/nsxzhou1114/author-blog/internal/dto"
	"github.com/nsxzhou1114/author-blog/internal/model"
	"github.com/nsxzhou1114/author-blog/internal/policy"
	"github.com/nsxzhou1114/author-blog/internal/scope"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CategoryService 分类服务
type CategoryService struct {
	db         *gorm.DB
	logger     *zap.SugaredLogger
	authorizer *policy.Authorizer
}

// NewCategoryService 创建分类服务
func NewCategoryService(db *gorm.DB, logger *zap.SugaredLogger, authz *policy.Authorizer) *CategoryService {
	return &CategoryService{db: db, logger: logger, authorizer: authz}
}

// List 调用者创建的分类
func (s *CategoryService) List(ctx context.Context, actor policy.Actor) ([]dto.CategoryResponse, error) {
	var categories []model.Category
	if err := s.db.WithContext(ctx).
		Scopes(scope.CategoriesOf(actor), scope.NewestFirst("categories")).
		Find(&categories).Error; err != nil {
		return nil, err
	}

	list := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		list = append(list, toCategoryResponse(&categories[i]))
	}
	return list, nil
}

// Create 创建分类，作者为调用者
func (s *CategoryService) Create(ctx context.Context, actor policy.Actor, req *dto.CategoryRequest) (*dto.CategoryResponse, error) {
	if err := s.authorizer.Check(actor, policy.Require(policy.CategoryWrite)); err != nil {
		return nil, err
	}

	category := &model.Category{
		Title:    strings.TrimSpace(req.Title),
		Slug:     strings.TrimSpace(req.Slug),
		AuthorID: actor.UserID,
	}
	if category.Title == "" {
		return nil, fieldError("title", "分类名称不能为空")
	}

	// 检查名称和slug是否已存在
	fields := map[string]string{}
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Category{}).Where("title = ?", category.Title).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		fields["title"] = "分类名称已存在"
	}
	if err := s.db.WithContext(ctx).Model(&model.Category{}).Where("slug = ?", category.Slug).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		fields["slug"] = "分类slug已存在"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fieldError("slug", "分类名称或slug已存在")
		}
		return nil, err
	}

	s.logger.Infof("创建分类: id=%d author=%d", category.ID, actor.UserID)
	resp := toCategoryResponse(category)
	return &resp, nil
}
