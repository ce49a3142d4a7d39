package cmd

import (
	"testing"

	"github.com/nsxzhou1114/author-blog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectStats(t *testing.T) {
	db := testutil.NewDB(t)
	author := testutil.MustUser(t, db, "author@example.com", testutil.Author)
	testutil.MustUser(t, db, "super@example.com", testutil.Superuser)
	testutil.MustUser(t, db, "off@example.com", testutil.Inactive)
	sport := testutil.MustCategory(t, db, author, "sport")
	article := testutil.MustArticle(t, db, author, "post", sport)
	testutil.MustComment(t, db, article, author, "hi")

	s, err := collectStats(db)
	require.NoError(t, err)
	assert.Equal(t, int64(3), s.Users)
	assert.Equal(t, int64(2), s.Authors)
	assert.Equal(t, int64(1), s.Superusers)
	assert.Equal(t, int64(1), s.Inactive)
	assert.Equal(t, int64(1), s.Categories)
	assert.Equal(t, int64(1), s.Articles)
	assert.Zero(t, s.WithImage)
	assert.Equal(t, int64(1), s.Comments)
	assert.Zero(t, s.Likes)
}
