package model

// Comment 评论模型
type Comment struct {
	Base
	ArticleID uint   `gorm:"not null;index" json:"article_id"`
	AuthorID  uint   `gorm:"not null;index" json:"author_id"`
	Body      string `gorm:"type:text;not null" json:"body"`

	// 关联
	Article Article `gorm:"foreignKey:ArticleID" json:"-"`
	Author  User    `gorm:"foreignKey:AuthorID" json:"-"`
}

// TableName 指定表名
func (Comment) TableName() string {
	return "comments"
}
