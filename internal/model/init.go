package model

import (
	"fmt"

	"gorm.io/gorm"
)

// 需要自动迁移的模型列表，关联表由many2many标签生成
var models = []interface{}{
	&User{},
	&Category{},
	&Article{},
	&Comment{},
}

// InitTables 初始化数据库表
func InitTables(db *gorm.DB) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("自动迁移数据库表失败: %w", err)
	}
	return nil
}
