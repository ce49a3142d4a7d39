// Package storage 保存上传的图片文件
package storage

import (
	"context"
	"fmt"

	"github.com/nsxzhou1114/author-blog/internal/config"
)

// Storage 图片存储后端
type Storage interface {
	// Put 按 key 写入文件
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// URL 返回 key 对应的访问地址
	URL(key string) string
}

// New 根据配置创建存储后端
func New(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocal(cfg.Local.Root, cfg.Local.URLPrefix), nil
	case "cos":
		return NewCOS(cfg.COS)
	default:
		return nil, fmt.Errorf("不支持的存储类型: %s", cfg.Type)
	}
}
