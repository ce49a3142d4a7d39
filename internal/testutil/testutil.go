// Package testutil 测试辅助：内存数据库与基础数据
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/nsxzhou1114/author-blog/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// NewDB 创建独立的内存sqlite数据库并完成迁移
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=0", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, model.InitTables(db))
	return db
}

// UserOption 调整测试用户的标志位
type UserOption func(*model.User)

// Author 作者
func Author(u *model.User) { u.IsAuthor = true }

// Superuser 超级用户
func Superuser(u *model.User) {
	u.IsSuperuser = true
	u.IsStaff = true
	u.IsAuthor = true
}

// Inactive 已停用
func Inactive(u *model.User) { u.IsActive = false }

// MustUser 直接写入一个用户
func MustUser(t testing.TB, db *gorm.DB, email string, opts ...UserOption) *model.User {
	t.Helper()
	u := &model.User{Email: email, IsActive: true}
	for _, opt := range opts {
		opt(u)
	}
	require.NoError(t, u.SetPassword("testpassword"))
	require.NoError(t, db.Create(u).Error)
	return u
}

// MustCategory 直接写入一个分类
func MustCategory(t testing.TB, db *gorm.DB, author *model.User, title string) *model.Category {
	t.Helper()
	c := &model.Category{Title: title, Slug: title, AuthorID: author.ID}
	require.NoError(t, db.Create(c).Error)
	return c
}

// MustArticle 直接写入一篇文章并关联分类
func MustArticle(t testing.TB, db *gorm.DB, owner *model.User, slug string, categories ...*model.Category) *model.Article {
	t.Helper()
	a := &model.Article{
		Title:       "A test article " + slug,
		Description: "Test description for " + slug,
		Slug:        slug,
		OwnerID:     owner.ID,
	}
	for _, c := range categories {
		a.Categories = append(a.Categories, *c)
	}
	require.NoError(t, db.Create(a).Error)
	return a
}

// MustComment 直接写入一条评论
func MustComment(t testing.TB, db *gorm.DB, article *model.Article, author *model.User, body string) *model.Comment {
	t.Helper()
	c := &model.Comment{ArticleID: article.ID, AuthorID: author.ID, Body: body}
	require.NoError(t, db.Create(c).Error)
	return c
}
