package service

import (
	"context"
	"errors"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/nsxzhou1114/author-blog/internal/dto"
	"github.com/nsxzhou1114/author-blog/internal/model"
	"github.com/nsxzhou1114/author-blog/internal/policy"
	"github.com/nsxzhou1114/author-blog/internal/scope"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CommentService 评论服务，所有查询都限定在调用者自己发表的评论内
type CommentService struct {
	db        *gorm.DB
	logger    *zap.SugaredLogger
	sanitizer *bluemonday.Policy
}

// NewCommentService 创建评论服务
func NewCommentService(db *gorm.DB, logger *zap.SugaredLogger) *CommentService {
	return &CommentService{
		db:        db,
		logger:    logger,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// List 调用者发表的评论
func (s *CommentService) List(ctx context.Context, actor policy.Actor) ([]dto.CommentResponse, error) {
	var comments []model.Comment
	if err := s.db.WithContext(ctx).
		Scopes(scope.CommentsBy(actor), scope.NewestFirst("comments")).
		Find(&comments).Error; err != nil {
		return nil, err
	}

	list := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		list = append(list, toCommentResponse(&comments[i]))
	}
	return list, nil
}

// Get 评论详情
func (s *CommentService) Get(ctx context.Context, actor policy.Actor, id uint) (*dto.CommentDetail, error) {
	comment, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.toDetail(ctx, comment)
}

// Create 发表评论
func (s *CommentService) Create(ctx context.Context, actor policy.Actor, req *dto.CommentCreateRequest) (*dto.CommentDetail, error) {
	if actor.IsAnonymous() {
		return nil, policy.ErrNotAuthenticated
	}

	body, err := s.cleanBody(req.Body)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Article{}).Where("id = ?", req.Article).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, fieldError("article", "文章不存在")
	}

	comment := &model.Comment{
		ArticleID: req.Article,
		AuthorID:  actor.UserID,
		Body:      body,
	}
	if err := s.db.WithContext(ctx).Omit("Article", "Author").Create(comment).Error; err != nil {
		return nil, err
	}

	s.logger.Infof("发表评论: id=%d article=%d author=%d", comment.ID, comment.ArticleID, actor.UserID)
	return s.toDetail(ctx, comment)
}

// Update 整体更新评论
func (s *CommentService) Update(ctx context.Context, actor policy.Actor, id uint, req *dto.CommentUpdateRequest) (*dto.CommentDetail, error) {
	return s.Patch(ctx, actor, id, &dto.CommentPatchRequest{Body: &req.Body})
}

// Patch 部分更新评论
func (s *CommentService) Patch(ctx context.Context, actor policy.Actor, id uint, req *dto.CommentPatchRequest) (*dto.CommentDetail, error) {
	comment, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Body != nil {
		body, err := s.cleanBody(*req.Body)
		if err != nil {
			return nil, err
		}
		if err := s.db.WithContext(ctx).Model(comment).Update("body", body).Error; err != nil {
			return nil, err
		}
		comment.Body = body
	}
	return s.toDetail(ctx, comment)
}

// Delete 删除评论
func (s *CommentService) Delete(ctx context.Context, actor policy.Actor, id uint) error {
	comment, err := s.find(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(comment).Error; err != nil {
		return err
	}
	s.logger.Infof("删除评论: id=%d author=%d", comment.ID, actor.UserID)
	return nil
}

// find 在调用者的评论范围内查找，范围外视为不存在
func (s *CommentService) find(ctx context.Context, actor policy.Actor, id uint) (*model.Comment, error) {
	var comment model.Comment
	err := s.db.WithContext(ctx).Scopes(scope.CommentsBy(actor)).First(&comment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *CommentService) cleanBody(raw string) (string, error) {
	body := strings.TrimSpace(s.sanitizer.Sanitize(raw))
	if body == "" {
		return "", fieldError("body", "评论内容不能为空")
	}
	return body, nil
}

func (s *CommentService) toDetail(ctx context.Context, comment *model.Comment) (*dto.CommentDetail, error) {
	var article model.Article
	if err := s.db.WithContext(ctx).First(&article, comment.ArticleID).Error; err != nil {
		return nil, err
	}
	return &dto.CommentDetail{
		CommentResponse: toCommentResponse(comment),
		ArticleBrief:    toArticleBrief(&article),
	}, nil
}
