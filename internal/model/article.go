package model

import (
	"time"
)

// Article 文章模型
type Article struct {
	Base
	Title       string    `gorm:"type:varchar(155);not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Slug        string    `gorm:"type:varchar(155);not null;uniqueIndex" json:"slug"`
	OwnerID     uint      `gorm:"not null;index" json:"owner_id"`
	Image       string    `gorm:"type:varchar(255)" json:"image"`
	PublishDate time.Time `gorm:"not null;index" json:"publish_date"`

	// 关联
	Owner      User       `gorm:"foreignKey:OwnerID" json:"-"`
	Categories []Category `gorm:"many2many:article_categories;" json:"categories,omitempty"`
	Likes      []User     `gorm:"many2many:article_likes;" json:"-"`
	Comments   []Comment  `gorm:"foreignKey:ArticleID" json:"-"`
}

// TableName 指定表名
func (Article) TableName() string {
	return "articles"
}

// CategoryIDs 文章所属分类ID
func (a *Article) CategoryIDs() []uint {
	ids := make([]uint, 0, len(a.Categories))
	for _, c := range a.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

// LikerIDs 点赞用户ID
func (a *Article) LikerIDs() []uint {
	ids := make([]uint, 0, len(a.Likes))
	for _, u := range a.Likes {
		ids = append(ids, u.ID)
	}
	return ids
}
