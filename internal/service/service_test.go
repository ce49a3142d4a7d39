package service

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"testing"

	"github.com/nsxzhou1114/author-blog/internal/config"
	"github.com/nsxzhou1114/author-blog/internal/model"
	"github.com/nsxzhou1114/author-blog/internal/policy"
	"github.com/nsxzhou1114/author-blog/internal/storage"
	"github.com/nsxzhou1114/author-blog/internal/testutil"
	"github.com/nsxzhou1114/author-blog/pkg/auth"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	db         *gorm.DB
	store      *storage.Local
	users      *UserService
	categories *CategoryService
	articles   *ArticleService
	comments   *CommentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	log := zap.NewNop().Sugar()

	authz, err := policy.NewAuthorizer(log)
	require.NoError(t, err)

	store := storage.NewLocal(t.TempDir(), "/media")
	tokens := auth.NewTokenManager(config.JWTConfig{SecretKey: "test-secret", AccessExpireSeconds: 3600}, auth.NewTokenBlacklist())

	return &testEnv{
		db:         db,
		store:      store,
		users:      NewUserService(db, log, tokens, 8),
		categories: NewCategoryService(db, log, authz),
		articles:   NewArticleService(db, log, authz, store, 1<<20),
		comments:   NewCommentService(db, log),
	}
}

func actorOf(u *model.User) policy.Actor {
	return policy.NewActor(u)
}

func requireValidation(t *testing.T, err error, field string) {
	t.Helper()
	ve, ok := IsValidation(err)
	require.True(t, ok, "expected validation error, got %v", err)
	require.Contains(t, ve.Fields, field)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["image"][0]
}
