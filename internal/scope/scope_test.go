package scope_test

import (
	"testing"

	"github.com/nsxzhou1114/author-blog/internal/model"
	"github.com/nsxzhou1114/author-blog/internal/policy"
	"github.com/nsxzhou1114/author-blog/internal/scope"
	"github.com/nsxzhou1114/author-blog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategoryFilter(t *testing.T) {
	ids, err := scope.ParseCategoryFilter("")
	require.NoError(t, err)
	assert.Nil(t, ids)

	ids, err = scope.ParseCategoryFilter("3")
	require.NoError(t, err)
	assert.Equal(t, []uint{3}, ids)

	ids, err = scope.ParseCategoryFilter("1, 2,5")
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 5}, ids)

	for _, bad := range []string{"a", "1,b", "1,,2", "-1", "1.5"} {
		_, err := scope.ParseCategoryFilter(bad)
		assert.ErrorIs(t, err, scope.ErrInvalidCategoryFilter, bad)
	}
}

func TestCategoriesScopedToAuthor(t *testing.T) {
	db := testutil.NewDB(t)
	a := testutil.MustUser(t, db, "a@example.com", testutil.Author)
	b := testutil.MustUser(t, db, "b@example.com", testutil.Author)
	testutil.MustCategory(t, db, b, "sport")
	mine := testutil.MustCategory(t, db, a, "casual")

	var got []model.Category
	require.NoError(t, db.Scopes(scope.CategoriesOf(policy.NewActor(a))).Find(&got).Error)
	require.Len(t, got, 1)
	assert.Equal(t, mine.ID, got[0].ID)

	got = nil
	require.NoError(t, db.Scopes(scope.CategoriesOf(policy.Anonymous())).Find(&got).Error)
	assert.Empty(t, got)
}

func TestArticlesByOwnerAndCategory(t *testing.T) {
	db := testutil.NewDB(t)
	a := testutil.MustUser(t, db, "a@example.com", testutil.Author)
	b := testutil.MustUser(t, db, "b@example.com", testutil.Author)
	sport := testutil.MustCategory(t, db, a, "sport")
	global := testutil.MustCategory(t, db, a, "global")
	casual := testutil.MustCategory(t, db, a, "casual")

	a1 := testutil.MustArticle(t, db, a, "a1", sport)
	a2 := testutil.MustArticle(t, db, a, "a2", global)
	b1 := testutil.MustArticle(t, db, b, "b1", sport, global)

	ids := func(articles []model.Article) []uint {
		out := make([]uint, 0, len(articles))
		for _, x := range articles {
			out = append(out, x.ID)
		}
		return out
	}

	var owned []model.Article
	require.NoError(t, db.Scopes(scope.ArticlesOwnedBy(policy.NewActor(a)), scope.NewestFirst("articles")).Find(&owned).Error)
	assert.Equal(t, []uint{a2.ID, a1.ID}, ids(owned))

	var bySport []model.Article
	require.NoError(t, db.Scopes(scope.InCategories([]uint{sport.ID}), scope.NewestFirst("articles")).Find(&bySport).Error)
	assert.Equal(t, []uint{b1.ID, a1.ID}, ids(bySport))

	// 多个分类是“或”的关系，且结果不重复
	var either []model.Article
	require.NoError(t, db.Scopes(scope.InCategories([]uint{sport.ID, global.ID}), scope.NewestFirst("articles")).Find(&either).Error)
	assert.Equal(t, []uint{b1.ID, a2.ID, a1.ID}, ids(either))

	var ownedSport []model.Article
	require.NoError(t, db.Scopes(scope.ArticlesOwnedBy(policy.NewActor(a)), scope.InCategories([]uint{sport.ID})).Find(&ownedSport).Error)
	assert.Equal(t, []uint{a1.ID}, ids(ownedSport))

	var empty []model.Article
	require.NoError(t, db.Scopes(scope.InCategories([]uint{casual.ID})).Find(&empty).Error)
	assert.Empty(t, empty)
}

func TestCommentsScopedToAuthor(t *testing.T) {
	db := testutil.NewDB(t)
	author := testutil.MustUser(t, db, "author@example.com", testutil.Author)
	u1 := testutil.MustUser(t, db, "u1@example.com")
	u2 := testutil.MustUser(t, db, "u2@example.com")
	article := testutil.MustArticle(t, db, author, "slug")
	mine := testutil.MustComment(t, db, article, u1, "Good")
	testutil.MustComment(t, db, article, u2, "Bad")

	var got []model.Comment
	require.NoError(t, db.Scopes(scope.CommentsBy(policy.NewActor(u1))).Find(&got).Error)
	require.Len(t, got, 1)
	assert.Equal(t, mine.ID, got[0].ID)
}
