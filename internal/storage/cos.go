package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/nsxzhou1114/author-blog/internal/config"
	"github.com/tencentyun/cos-go-sdk-v5"
)

// COS 腾讯云对象存储
type COS struct {
	client    *cos.Client
	bucketURL string
}

// NewCOS 创建COS客户端
func NewCOS(cfg config.COSStorage) (*COS, error) {
	u, err := url.Parse(cfg.BucketURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("解析COS URL失败: %q", cfg.BucketURL)
	}

	b := &cos.BaseURL{BucketURL: u}
	client := cos.NewClient(b, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  cfg.SecretID,
			SecretKey: cfg.SecretKey,
		},
	})
	return &COS{client: client, bucketURL: strings.TrimRight(cfg.BucketURL, "/")}, nil
}

// Put 上传对象
func (s *COS) Put(ctx context.Context, key string, data []byte, contentType string) error {
	opt := &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{ContentType: contentType},
	}
	if _, err := s.client.Object.Put(ctx, key, bytes.NewReader(data), opt); err != nil {
		return fmt.Errorf("上传到腾讯云失败: %w", err)
	}
	return nil
}

// URL 返回完整的访问URL
func (s *COS) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.bucketURL + "/" + key
}
