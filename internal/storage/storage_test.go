package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nsxzhou1114/author-blog/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalPut(t *testing.T) {
	root := t.TempDir()
	s := NewLocal(root, "/media/")

	require.NoError(t, s.Put(context.Background(), "uploads/article/a.png", []byte("data"), "image/png"))

	got, err := os.ReadFile(filepath.Join(root, "uploads", "article", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(got))
	assert.Equal(t, "/media/uploads/article/a.png", s.URL("uploads/article/a.png"))
	assert.Equal(t, "", s.URL(""))
}

func TestNew(t *testing.T) {
	s, err := New(config.StorageConfig{Type: "local", Local: config.LocalStorage{Root: t.TempDir(), URLPrefix: "/media"}})
	require.NoError(t, err)
	assert.IsType(t, &Local{}, s)

	c, err := New(config.StorageConfig{Type: "cos", COS: config.COSStorage{BucketURL: "https://bucket-1250000000.cos.ap-guangzhou.myqcloud.com/"}})
	require.NoError(t, err)
	assert.Equal(t, "https://bucket-1250000000.cos.ap-guangzhou.myqcloud.com/a.png", c.URL("a.png"))

	_, err = New(config.StorageConfig{Type: "cos"})
	assert.Error(t, err)

	_, err = New(config.StorageConfig{Type: "ftp"})
	assert.Error(t, err)
}
