package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nsxzhou1114/author-blog/internal/dto"
	"github.com/nsxzhou1114/author-blog/internal/metrics"
	"github.com/nsxzhou1114/author-blog/internal/model"
	"github.com/nsxzhou1114/author-blog/internal/policy"
	"github.com/nsxzhou1114/author-blog/internal/scope"
	"github.com/nsxzhou1114/author-blog/internal/storage"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"
	"gorm.io/gorm"
)

// 文章图片的存储目录
const articleImageDir = "uploads/article"

// ArticleService 文章服务
type ArticleService struct {
	db           *gorm.DB
	logger       *zap.SugaredLogger
	authorizer   *policy.Authorizer
	storage      storage.Storage
	maxImageSize int64
	sanitizer    *bluemonday.Policy
}

// NewArticleService 创建文章服务
func NewArticleService(db *gorm.DB, logger *zap.SugaredLogger, authorizer *policy.Authorizer, store storage.Storage, maxImageSize int64) *ArticleService {
	return &ArticleService{
		db:           db,
		logger:       logger,
		authorizer:   authorizer,
		storage:      store,
		maxImageSize: maxImageSize,
		sanitizer:    bluemonday.UGCPolicy(),
	}
}

func orderByID(table string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(table + ".id")
	}
}

// ListPublic 公开文章列表，可按分类过滤
func (s *ArticleService) ListPublic(ctx context.Context, rawCategories string) ([]dto.ArticleListItem, error) {
	return s.list(ctx, rawCategories)
}

// ListOwn 调用者自己的文章列表，可按分类过滤
func (s *ArticleService) ListOwn(ctx context.Context, actor policy.Actor, rawCategories string) ([]dto.ArticleListItem, error) {
	return s.list(ctx, rawCategories, scope.ArticlesOwnedBy(actor))
}

func (s *ArticleService) list(ctx context.Context, rawCategories string, scopes ...func(*gorm.DB) *gorm.DB) ([]dto.ArticleListItem, error) {
	ids, err := scope.ParseCategoryFilter(rawCategories)
	if err != nil {
		return nil, fieldError("categories", err.Error())
	}
	scopes = append(scopes, scope.InCategories(ids), scope.NewestFirst("articles"))

	var articles []model.Article
	if err := s.db.WithContext(ctx).
		Scopes(scopes...).
		Preload("Categories", orderByID("categories")).
		Preload("Likes", orderByID("users")).
		Find(&articles).Error; err != nil {
		return nil, err
	}

	list := make([]dto.ArticleListItem, 0, len(articles))
	for i := range articles {
		list = append(list, toArticleListItem(&articles[i], s.storage.URL))
	}
	return list, nil
}

// GetPublic 公开文章详情
func (s *ArticleService) GetPublic(ctx context.Context, id uint) (*dto.ArticleDetail, error) {
	return s.detail(ctx, id)
}

// GetOwn 调用者自己的文章详情，其他人的文章视为不存在
func (s *ArticleService) GetOwn(ctx context.Context, actor policy.Actor, id uint) (*dto.ArticleDetail, error) {
	return s.detail(ctx, id, scope.ArticlesOwnedBy(actor))
}

func (s *ArticleService) detail(ctx context.Context, id uint, scopes ...func(*gorm.DB) *gorm.DB) (*dto.ArticleDetail, error) {
	var article model.Article
	err := s.db.WithContext(ctx).
		Scopes(scopes...).
		Preload("Categories", orderByID("categories")).
		Preload("Likes", orderByID("users")).
		Preload("Comments", orderByID("comments")).
		First(&article, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return toArticleDetail(&article, s.storage.URL), nil
}

// Create 创建文章，所有者为调用者
func (s *ArticleService) Create(ctx context.Context, actor policy.Actor, req *dto.ArticleRequest) (*dto.ArticleDetail, error) {
	if err := s.authorizer.Check(actor, policy.Require(policy.ArticleManage)); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fieldError("title", "标题不能为空")
	}
	if err := s.checkSlug(ctx, req.Slug, 0); err != nil {
		return nil, err
	}
	categories, err := s.loadCategories(ctx, req.Categories)
	if err != nil {
		return nil, err
	}

	article := &model.Article{
		Title:       title,
		Description: s.sanitizer.Sanitize(req.Description),
		Slug:        req.Slug,
		OwnerID:     actor.UserID,
		PublishDate: time.Now(),
		Categories:  categories,
	}
	if req.PublishDate != nil {
		article.PublishDate = *req.PublishDate
	}

	if err := s.db.WithContext(ctx).Omit("Owner", "Categories.*").Create(article).Error; err != nil {
		return nil, translateArticleError(err)
	}

	s.logger.Infof("创建文章: id=%d owner=%d", article.ID, actor.UserID)
	return s.detail(ctx, article.ID)
}

// Update 整体更新文章，未提供分类时清空分类
func (s *ArticleService) Update(ctx context.Context, actor policy.Actor, id uint, req *dto.ArticleRequest) (*dto.ArticleDetail, error) {
	categories := req.Categories
	if categories == nil {
		categories = []uint{}
	}
	return s.Patch(ctx, actor, id, &dto.ArticlePatchRequest{
		Title:       &req.Title,
		Description: &req.Description,
		Slug:        &req.Slug,
		Categories:  &categories,
		PublishDate: req.PublishDate,
	})
}

// Patch 部分更新文章，需要是所有者或超级用户
func (s *ArticleService) Patch(ctx context.Context, actor policy.Actor, id uint, req *dto.ArticlePatchRequest) (*dto.ArticleDetail, error) {
	article, err := s.ownedForMutation(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fieldError("title", "标题不能为空")
		}
		updates["title"] = title
	}
	if req.Description != nil {
		updates["description"] = s.sanitizer.Sanitize(*req.Description)
	}
	if req.Slug != nil {
		if err := s.checkSlug(ctx, *req.Slug, article.ID); err != nil {
			return nil, err
		}
		updates["slug"] = *req.Slug
	}
	if req.PublishDate != nil {
		updates["publish_date"] = *req.PublishDate
	}

	var categories []model.Category
	if req.Categories != nil {
		if categories, err = s.loadCategories(ctx, *req.Categories); err != nil {
			return nil, err
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(article).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.Categories == nil {
			return nil
		}
		assoc := tx.Model(article).Association("Categories")
		if len(categories) == 0 {
			return assoc.Clear()
		}
		return assoc.Replace(&categories)
	})
	if err != nil {
		return nil, translateArticleError(err)
	}

	return s.detail(ctx, article.ID)
}

// Delete 删除文章及其评论、分类和点赞关系
func (s *ArticleService) Delete(ctx context.Context, actor policy.Actor, id uint) error {
	article, err := s.ownedForMutation(ctx, actor, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", article.ID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Model(article).Association("Categories").Clear(); err != nil {
			return err
		}
		if err := tx.Model(article).Association("Likes").Clear(); err != nil {
			return err
		}
		return tx.Delete(article).Error
	})
	if err != nil {
		return fmt.Errorf("删除文章失败: %w", err)
	}

	s.logger.Infof("删除文章: id=%d by=%d", article.ID, actor.UserID)
	return nil
}

// ApplyLike 为调用者点赞或取消点赞，返回完整的点赞用户集合
// users 字段只能包含调用者自己
func (s *ArticleService) ApplyLike(ctx context.Context, actor policy.Actor, id uint, req *dto.LikeRequest) (*dto.LikeResponse, error) {
	if err := s.authorizer.Check(actor, policy.Require(policy.ArticleLike)); err != nil {
		return nil, err
	}
	for _, uid := range req.Users {
		if uid != actor.UserID {
			return nil, policy.ErrPermissionDenied
		}
	}

	var article model.Article
	err := s.db.WithContext(ctx).First(&article, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var liker model.User
	if err := s.db.WithContext(ctx).First(&liker, actor.UserID).Error; err != nil {
		return nil, err
	}

	action := "add"
	assoc := s.db.WithContext(ctx).Model(&article).Association("Likes")
	if isRemoval(req.Method) {
		action = "remove"
		err = assoc.Delete(&liker)
	} else {
		err = assoc.Append(&liker)
	}
	if err != nil {
		return nil, fmt.Errorf("更新点赞失败: %w", err)
	}
	metrics.LikesToggled.WithLabelValues(action).Inc()

	likes, err := s.likerIDs(ctx, article.ID)
	if err != nil {
		return nil, err
	}
	return &dto.LikeResponse{ID: article.ID, Likes: likes}, nil
}

func isRemoval(method string) bool {
	method = strings.TrimSpace(method)
	return strings.EqualFold(method, "DELETE") || strings.EqualFold(method, "REMOVE")
}

func (s *ArticleService) likerIDs(ctx context.Context, articleID uint) ([]uint, error) {
	var ids []uint
	if err := s.db.WithContext(ctx).
		Table("article_likes").
		Where("article_id = ?", articleID).
		Order("user_id").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []uint{}
	}
	return ids, nil
}

// UploadImage 上传文章图片，非图片内容不会修改已有图片
func (s *ArticleService) UploadImage(ctx context.Context, actor policy.Actor, id uint, file *multipart.FileHeader) (*dto.ArticleImageResponse, error) {
	article, err := s.ownedForMutation(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, fieldError("image", "请上传图片文件")
	}

	data, format, err := s.readImage(file)
	if err != nil {
		metrics.ImagesUploaded.WithLabelValues("invalid").Inc()
		return nil, err
	}

	key := path.Join(articleImageDir, uuid.NewString()+imageExt(file.Filename, format))
	if err := s.storage.Put(ctx, key, data, "image/"+format); err != nil {
		metrics.ImagesUploaded.WithLabelValues("error").Inc()
		return nil, err
	}

	previous := article.Image
	if err := s.db.WithContext(ctx).Model(article).Update("image", key).Error; err != nil {
		metrics.ImagesUploaded.WithLabelValues("error").Inc()
		return nil, err
	}
	if previous != "" {
		s.logger.Warnf("文章 %d 的旧图片未删除: %s", article.ID, previous)
	}

	metrics.ImagesUploaded.WithLabelValues("success").Inc()
	return &dto.ArticleImageResponse{ID: article.ID, Image: s.storage.URL(key)}, nil
}

// readImage 读取上传内容并确认是可解码的图片
func (s *ArticleService) readImage(file *multipart.FileHeader) ([]byte, string, error) {
	if s.maxImageSize > 0 && file.Size > s.maxImageSize {
		return nil, "", fieldError("image", fmt.Sprintf("文件大小超过限制，最大允许 %d KB", s.maxImageSize/1024))
	}

	f, err := file.Open()
	if err != nil {
		return nil, "", fmt.Errorf("读取上传文件失败: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", fmt.Errorf("读取上传文件失败: %w", err)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fieldError("image", "上传的文件不是有效的图片")
	}
	return data, format, nil
}

// imageExt 保留原始扩展名，没有时按图片格式补全
func imageExt(filename, format string) string {
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" {
		return ext
	}
	if format == "jpeg" {
		return ".jpg"
	}
	return "." + format
}

// ownedForMutation 读取文章并校验调用者是作者且为所有者（或超级用户）
func (s *ArticleService) ownedForMutation(ctx context.Context, actor policy.Actor, id uint) (*model.Article, error) {
	if err := s.authorizer.Check(actor, policy.Require(policy.ArticleManage)); err != nil {
		return nil, err
	}

	var article model.Article
	err := s.db.WithContext(ctx).First(&article, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := policy.CheckOwnership(actor, article.OwnerID); err != nil {
		return nil, err
	}
	return &article, nil
}

func (s *ArticleService) checkSlug(ctx context.Context, slug string, exceptID uint) error {
	q := s.db.WithContext(ctx).Model(&model.Article{}).Where("slug = ?", slug)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fieldError("slug", "该slug已被使用")
	}
	return nil
}

// loadCategories 读取分类，任一ID不存在时返回校验错误
func (s *ArticleService) loadCategories(ctx context.Context, ids []uint) ([]model.Category, error) {
	unique := make([]uint, 0, len(ids))
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return nil, nil
	}

	var categories []model.Category
	if err := s.db.WithContext(ctx).Where("id IN ?", unique).Order("id").Find(&categories).Error; err != nil {
		return nil, err
	}
	if len(categories) != len(unique) {
		return nil, fieldError("categories", "包含不存在的分类")
	}
	return categories, nil
}

func translateArticleError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fieldError("slug", "该slug已被使用")
	}
	return err
}
