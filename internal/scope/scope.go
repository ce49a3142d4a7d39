// Package scope 根据调用者和过滤参数收窄可见的数据集合
package scope

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nsxzhou1114/author-blog/internal/policy"
	"gorm.io/gorm"
)

// ErrInvalidCategoryFilter categories 参数不是逗号分隔的整数
var ErrInvalidCategoryFilter = errors.New("categories 参数必须是逗号分隔的整数ID")

// ParseCategoryFilter 解析 categories 参数，空串表示不过滤
func ParseCategoryFilter(raw string) ([]uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCategoryFilter, p)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// none 匿名调用者看不到任何需归属的数据
func none(db *gorm.DB) *gorm.DB {
	return db.Where("1 = 0")
}

// CategoriesOf 仅限调用者创建的分类
func CategoriesOf(actor policy.Actor) func(*gorm.DB) *gorm.DB {
	if actor.IsAnonymous() {
		return none
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("categories.author_id = ?", actor.UserID)
	}
}

// ArticlesOwnedBy 仅限调用者拥有的文章
func ArticlesOwnedBy(actor policy.Actor) func(*gorm.DB) *gorm.DB {
	if actor.IsAnonymous() {
		return none
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("articles.owner_id = ?", actor.UserID)
	}
}

// CommentsBy 仅限调用者发表的评论
func CommentsBy(actor policy.Actor) func(*gorm.DB) *gorm.DB {
	if actor.IsAnonymous() {
		return none
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("comments.author_id = ?", actor.UserID)
	}
}

// InCategories 文章属于任一给定分类，空列表不过滤
func InCategories(ids []uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(ids) == 0 {
			return db
		}
		sub := db.Session(&gorm.Session{NewDB: true}).
			Table("article_categories").
			Select("article_id").
			Where("category_id IN ?", ids)
		return db.Where("articles.id IN (?)", sub)
	}
}

// NewestFirst 最新创建的排在前面
func NewestFirst(table string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(table + ".id DESC")
	}
}
