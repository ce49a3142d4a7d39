package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Local 本地文件系统存储
type Local struct {
	root      string
	urlPrefix string
}

// NewLocal 创建本地存储，root 为保存目录，urlPrefix 为静态访问前缀
func NewLocal(root, urlPrefix string) *Local {
	return &Local{root: root, urlPrefix: strings.TrimRight(urlPrefix, "/")}
}

// Root 保存目录
func (l *Local) Root() string {
	return l.root
}

// URLPrefix 静态访问前缀
func (l *Local) URLPrefix() string {
	return l.urlPrefix
}

// Put 写入文件，目录不存在时自动创建
func (l *Local) Put(_ context.Context, key string, data []byte, _ string) error {
	filePath := filepath.Join(l.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("创建上传目录失败: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("保存文件失败: %w", err)
	}
	return nil
}

// URL 生成访问URL
func (l *Local) URL(key string) string {
	if key == "" {
		return ""
	}
	return l.urlPrefix + "/" + key
}
