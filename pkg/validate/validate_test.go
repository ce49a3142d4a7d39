package validate

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email string `json:"email" binding:"required,email"`
	Slug  string `json:"slug" binding:"required,slug"`
	Title string `json:"title" binding:"max=5"`
}

func TestFieldErrors(t *testing.T) {
	Register()

	err := binding.Validator.ValidateStruct(&sample{Email: "bad", Slug: "no spaces", Title: "too long"})
	require.Error(t, err)

	fields := FieldErrors(err)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "slug")
	assert.Contains(t, fields, "title")

	assert.NoError(t, binding.Validator.ValidateStruct(&sample{Email: "a@b.cn", Slug: "ok-slug_1"}))
}

func TestFieldErrorsIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, FieldErrors(errors.New("boom")))
	assert.Nil(t, FieldErrors(nil))
}

func TestIsSlug(t *testing.T) {
	assert.True(t, IsSlug("hello-world_2"))
	assert.False(t, IsSlug(""))
	assert.False(t, IsSlug("hello world"))
	assert.False(t, IsSlug("文章"))
}
