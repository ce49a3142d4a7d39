package router

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/author-blog/internal/config"
	"github.com/nsxzhou1114/author-blog/internal/dto"
	"github.com/nsxzhou1114/author-blog/internal/model"
	"github.com/nsxzhou1114/author-blog/internal/policy"
	"github.com/nsxzhou1114/author-blog/internal/storage"
	"github.com/nsxzhou1114/author-blog/internal/testutil"
	"github.com/nsxzhou1114/author-blog/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	engine *gin.Engine
	tokens *auth.TokenManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	log := zap.NewNop().Sugar()
	authz, err := policy.NewAuthorizer(log)
	require.NoError(t, err)
	tokens := auth.NewTokenManager(config.JWTConfig{SecretKey: "router-test", AccessExpireSeconds: 3600}, auth.NewTokenBlacklist())

	cfg := &config.Config{}
	cfg.Auth.PasswordMinLength = 8
	cfg.Image.MaxFileSize = 1 << 20

	engine := New(Dependencies{
		Config:     cfg,
		DB:         db,
		Logger:     log,
		Tokens:     tokens,
		Authorizer: authz,
		Storage:    storage.NewLocal(t.TempDir(), "/media"),
	})
	return &testServer{t: t, db: db, engine: engine, tokens: tokens}
}

func (s *testServer) token(u *model.User) string {
	s.t.Helper()
	tok, err := s.tokens.Issue(u.ID)
	require.NoError(s.t, err)
	return tok
}

func (s *testServer) send(req *http.Request, token string) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (s *testServer) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.send(req, token)
}

func (s *testServer) upload(path, token, filename string, content []byte) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("image", filename)
	require.NoError(s.t, err)
	_, err = part.Write(content)
	require.NoError(s.t, err)
	require.NoError(s.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return s.send(req, token)
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func articleIDs(items []dto.ArticleListItem) []uint {
	out := make([]uint, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func idPath(format string, id uint) string {
	return strings.Replace(format, ":id", strconv.FormatUint(uint64(id), 10), 1)
}

func isOpen(req policy.Requirement) bool {
	return req == policy.Public || req == policy.Allow(policy.ArticleRead)
}

func TestAnonymousCallersGetUnauthorized(t *testing.T) {
	s := newTestServer(t)

	for _, e := range endpoints(apis{}) {
		if isOpen(e.requirement) {
			continue
		}
		w, _ := s.do(e.method, "/api"+idPath(e.path, 1), "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", e.method, e.path)
	}
}

func TestNonAuthorCallersGetForbidden(t *testing.T) {
	s := newTestServer(t)
	plain := testutil.MustUser(t, s.db, "plain@example.com")
	author := testutil.MustUser(t, s.db, "author@example.com", testutil.Author)
	article := testutil.MustArticle(t, s.db, author, "existing")
	token := s.token(plain)

	for _, e := range endpoints(apis{}) {
		if !strings.HasPrefix(e.path, "/article/categories") && !strings.HasPrefix(e.path, "/article/authors-articles") {
			continue
		}
		w, _ := s.do(e.method, "/api"+idPath(e.path, article.ID), token, map[string]any{})
		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s", e.method, e.path)
	}

	w, _ := s.do(http.MethodGet, "/api/article/comments", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUserRegistrationAndToken(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(http.MethodPost, "/api/user/create_user", "", map[string]string{
		"email": "test@GMAIL.COM", "password": "testpass123", "name": "Test",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	user := decode[map[string]any](t, env)
	assert.Equal(t, "test@gmail.com", user["email"])
	assert.Equal(t, false, user["is_author"])
	assert.NotContains(t, user, "password")

	w, env = s.do(http.MethodPost, "/api/user/create_author", "", map[string]string{
		"email": "author@example.com", "password": "testpass123", "name": "Author",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, decode[map[string]any](t, env)["is_author"])

	w, env = s.do(http.MethodPost, "/api/user/create_user", "", map[string]string{
		"email": "short@example.com", "password": "pw", "name": "Short",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string]string](t, env), "password")

	w, env = s.do(http.MethodPost, "/api/user/create_user", "", map[string]string{
		"email": "long@example.com", "password": strings.Repeat("a", 100), "name": "Long",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string]string](t, env), "password")

	w, env = s.do(http.MethodPost, "/api/user/create_user", "", map[string]string{"password": "testpass123"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string]string](t, env), "email")

	w, env = s.do(http.MethodPost, "/api/user/token", "", map[string]string{"email": "test@gmail.com", "password": "wrong"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "null", string(env.Data))
	assert.NotContains(t, w.Body.String(), "token\":")

	w, env = s.do(http.MethodPost, "/api/user/token", "", map[string]string{"email": "test@gmail.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotContains(t, w.Body.String(), "token\":")

	w, env = s.do(http.MethodPost, "/api/user/token", "", map[string]string{"email": "test@gmail.com", "password": "testpass123"})
	require.Equal(t, http.StatusOK, w.Code)
	token := decode[dto.TokenResponse](t, env).Token
	require.NotEmpty(t, token)

	w, env = s.do(http.MethodGet, "/api/user/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user", decode[dto.UserResponse](t, env).Role)

	w, _ = s.do(http.MethodPost, "/api/user/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(http.MethodGet, "/api/user/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCategoriesScopedToCaller(t *testing.T) {
	s := newTestServer(t)
	a := testutil.MustUser(t, s.db, "a@example.com", testutil.Author)
	b := testutil.MustUser(t, s.db, "b@example.com", testutil.Author)

	w, _ := s.do(http.MethodPost, "/api/article/categories", s.token(a), map[string]string{"title": "Sport", "slug": "sport"})
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = s.do(http.MethodPost, "/api/article/categories", s.token(b), map[string]string{"title": "Global", "slug": "global"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := s.do(http.MethodPost, "/api/article/categories", s.token(b), map[string]string{"title": "Sport", "slug": "bad slug"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string]string](t, env), "slug")

	w, env = s.do(http.MethodGet, "/api/article/categories", s.token(a), nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]dto.CategoryResponse](t, env)
	require.Len(t, list, 1)
	assert.Equal(t, "sport", list[0].Slug)
}

func TestPublicArticlesCategoryFilter(t *testing.T) {
	s := newTestServer(t)
	a := testutil.MustUser(t, s.db, "a@example.com", testutil.Author)
	b := testutil.MustUser(t, s.db, "b@example.com", testutil.Author)
	sport := testutil.MustCategory(t, s.db, a, "sport")
	global := testutil.MustCategory(t, s.db, b, "global")
	article1 := testutil.MustArticle(t, s.db, a, "article-1", sport)
	article2 := testutil.MustArticle(t, s.db, b, "article-2", global)

	w, env := s.do(http.MethodGet, "/api/article/articles", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uint{article2.ID, article1.ID}, articleIDs(decode[[]dto.ArticleListItem](t, env)))

	w, env = s.do(http.MethodGet, "/api/article/articles?categories="+strconv.FormatUint(uint64(sport.ID), 10), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uint{article1.ID}, articleIDs(decode[[]dto.ArticleListItem](t, env)))

	w, env = s.do(http.MethodGet, "/api/article/articles?categories=1,x", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string]string](t, env), "categories")

	w, env = s.do(http.MethodGet, idPath("/api/article/articles/:id", article2.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[dto.ArticleDetail](t, env)
	require.Len(t, detail.Categories, 1)
	assert.Equal(t, "global", detail.Categories[0].Slug)

	w, _ = s.do(http.MethodGet, "/api/article/articles/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthorArticlesOwnership(t *testing.T) {
	s := newTestServer(t)
	a := testutil.MustUser(t, s.db, "a@example.com", testutil.Author)
	b := testutil.MustUser(t, s.db, "b@example.com", testutil.Author)
	sport := testutil.MustCategory(t, s.db, a, "sport")
	testutil.MustArticle(t, s.db, b, "b-article")

	w, env := s.do(http.MethodPost, "/api/article/authors-articles", s.token(a), map[string]any{
		"title": "Hello", "description": "World", "slug": "hello", "categories": []uint{sport.ID},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[dto.ArticleDetail](t, env)
	assert.Equal(t, a.ID, created.Owner)

	w, env = s.do(http.MethodGet, "/api/article/authors-articles", s.token(a), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uint{created.ID}, articleIDs(decode[[]dto.ArticleListItem](t, env)))

	path := idPath("/api/article/authors-articles/:id", created.ID)
	w, _ = s.do(http.MethodGet, path, s.token(b), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = s.do(http.MethodPatch, path, s.token(b), map[string]string{"title": "Stolen"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = s.do(http.MethodDelete, path, s.token(b), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = s.do(http.MethodPatch, path, s.token(a), map[string]string{"title": "Updated"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Updated", decode[dto.ArticleDetail](t, env).Title)

	w, _ = s.do(http.MethodPut, "/api/article/authors-articles/9999", s.token(a), map[string]any{
		"title": "X", "description": "Y", "slug": "x",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(http.MethodDelete, path, s.token(a), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w, _ = s.do(http.MethodGet, path, s.token(a), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLikeToggle(t *testing.T) {
	s := newTestServer(t)
	u1 := testutil.MustUser(t, s.db, "u1@example.com", testutil.Author)
	u2 := testutil.MustUser(t, s.db, "u2@example.com", testutil.Author)
	article := testutil.MustArticle(t, s.db, u2, "likeable")
	path := idPath("/api/article/authors-articles/:id/like", article.ID)

	w, env := s.do(http.MethodPatch, path, s.token(u1), map[string]any{"users": []uint{u1.ID}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uint{u1.ID}, decode[dto.LikeResponse](t, env).Likes)

	w, env = s.do(http.MethodPatch, path, s.token(u1), map[string]any{"users": []uint{u1.ID}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uint{u1.ID}, decode[dto.LikeResponse](t, env).Likes)

	w, env = s.do(http.MethodPatch, path, s.token(u2), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[dto.LikeResponse](t, env).Likes, 2)

	w, env = s.do(http.MethodPatch, path, s.token(u2), map[string]any{"method": "DELETE", "users": []uint{u2.ID}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uint{u1.ID}, decode[dto.LikeResponse](t, env).Likes)

	chunked := httptest.NewRequest(http.MethodPatch, path, nil)
	chunked.ContentLength = -1
	w, env = s.send(chunked, s.token(u1))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uint{u1.ID}, decode[dto.LikeResponse](t, env).Likes)

	truncated := httptest.NewRequest(http.MethodPatch, path, strings.NewReader("{"))
	truncated.Header.Set("Content-Type", "application/json")
	w, _ = s.send(truncated, s.token(u1))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPatch, path, s.token(u1), map[string]any{"users": []uint{u2.ID}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(http.MethodPatch, "/api/article/authors-articles/9999/like", s.token(u1), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadImage(t *testing.T) {
	s := newTestServer(t)
	owner := testutil.MustUser(t, s.db, "owner@example.com", testutil.Author)
	other := testutil.MustUser(t, s.db, "other@example.com", testutil.Author)
	article := testutil.MustArticle(t, s.db, owner, "pictured")
	path := idPath("/api/article/authors-articles/:id/upload-image", article.ID)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))

	w, env := s.upload(path, s.token(owner), "cover.png", buf.Bytes())
	require.Equal(t, http.StatusOK, w.Code)
	uploaded := decode[dto.ArticleImageResponse](t, env)
	require.True(t, strings.HasPrefix(uploaded.Image, "/media/uploads/article/"))

	w, _ = s.do(http.MethodGet, uploaded.Image, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var before model.Article
	require.NoError(t, s.db.First(&before, article.ID).Error)

	w, env = s.upload(path, s.token(owner), "cover.png", []byte("definitely not an image"))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string]string](t, env), "image")

	var after model.Article
	require.NoError(t, s.db.First(&after, article.ID).Error)
	assert.Equal(t, before.Image, after.Image)

	w, _ = s.upload(path, s.token(other), "cover.png", buf.Bytes())
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(http.MethodPost, path, s.token(owner), map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommentsScopedToAuthor(t *testing.T) {
	s := newTestServer(t)
	owner := testutil.MustUser(t, s.db, "owner@example.com", testutil.Author)
	a := testutil.MustUser(t, s.db, "a@example.com")
	b := testutil.MustUser(t, s.db, "b@example.com")
	article := testutil.MustArticle(t, s.db, owner, "post")

	w, env := s.do(http.MethodPost, "/api/article/comments", s.token(a), map[string]any{"article": article.ID, "body": "from a"})
	require.Equal(t, http.StatusCreated, w.Code)
	mine := decode[dto.CommentDetail](t, env)
	theirs := testutil.MustComment(t, s.db, article, b, "from b")

	w, env = s.do(http.MethodGet, "/api/article/comments", s.token(a), nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]dto.CommentResponse](t, env)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)

	w, _ = s.do(http.MethodPatch, idPath("/api/article/comments/:id", theirs.ID), s.token(a), map[string]string{"body": "edited"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = s.do(http.MethodDelete, idPath("/api/article/comments/:id", theirs.ID), s.token(a), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = s.do(http.MethodPut, idPath("/api/article/comments/:id", mine.ID), s.token(a), map[string]string{"body": "edited"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "edited", decode[dto.CommentDetail](t, env).Body)

	w, _ = s.do(http.MethodPost, "/api/article/comments", s.token(a), map[string]any{"article": 9999, "body": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodGet, "/api/article/articles", "", nil)

	w, _ := s.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "author_blog_http_requests_total")
}
