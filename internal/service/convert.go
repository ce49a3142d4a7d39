package service

import (
	"github.com/nsxzhou1114/author-blog/internal/dto"
	"github.com/nsxzhou1114/author-blog/internal/model"
	"github.com/nsxzhou1114/author-blog/internal/policy"
)

func toUserResponse(u *model.User, role policy.Role) *dto.UserResponse {
	return &dto.UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		IsAuthor:    u.IsAuthor,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
		Role:        string(role),
	}
}

func toCategoryResponse(c *model.Category) dto.CategoryResponse {
	return dto.CategoryResponse{ID: c.ID, Title: c.Title, Slug: c.Slug}
}

func toCommentResponse(c *model.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:        c.ID,
		Article:   c.ArticleID,
		Author:    c.AuthorID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}

func toArticleBrief(a *model.Article) dto.ArticleBrief {
	return dto.ArticleBrief{ID: a.ID, Title: a.Title, Slug: a.Slug, Owner: a.OwnerID}
}

// imageURL 把存储 key 转换成访问地址
type imageURL func(key string) string

func toArticleListItem(a *model.Article, url imageURL) dto.ArticleListItem {
	return dto.ArticleListItem{
		ID:          a.ID,
		Title:       a.Title,
		Slug:        a.Slug,
		Description: a.Description,
		Owner:       a.OwnerID,
		Categories:  a.CategoryIDs(),
		Likes:       a.LikerIDs(),
		Image:       url(a.Image),
		PublishDate: a.PublishDate,
	}
}

func toArticleDetail(a *model.Article, url imageURL) *dto.ArticleDetail {
	categories := make([]dto.CategoryResponse, 0, len(a.Categories))
	for i := range a.Categories {
		categories = append(categories, toCategoryResponse(&a.Categories[i]))
	}
	comments := make([]dto.CommentResponse, 0, len(a.Comments))
	for i := range a.Comments {
		comments = append(comments, toCommentResponse(&a.Comments[i]))
	}

	return &dto.ArticleDetail{
		ID:          a.ID,
		Title:       a.Title,
		Slug:        a.Slug,
		Description: a.Description,
		Owner:       a.OwnerID,
		Categories:  categories,
		Likes:       a.LikerIDs(),
		Image:       url(a.Image),
		PublishDate: a.PublishDate,
		Comments:    comments,
	}
}
