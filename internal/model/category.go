package model

// Category 分类模型
type Category struct {
	Base
	Title    string `gorm:"type:varchar(122);not null;uniqueIndex" json:"title"`
	Slug     string `gorm:"type:varchar(155);not null;uniqueIndex" json:"slug"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`

	// 关联
	Author   User       `gorm:"foreignKey:AuthorID" json:"-"`
	Articles []*Article `gorm:"many2many:article_categories;" json:"-"`
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}
