package models

import (
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestPostValidate(t *testing.T) {
	en, long := "en", "en-GB-x"
	tests := []struct {
		name    string
		post    Post
		wantErr bool
	}{
		{name: "ok", post: Post{Body: "hello"}},
		{name: "exactly 140", post: Post{Body: strings.Repeat("a", 140)}},
		{name: "140 multibyte runes", post: Post{Body: strings.Repeat("é", 140)}},
		{name: "141 rejected", post: Post{Body: strings.Repeat("a", 141)}, wantErr: true},
		{name: "empty", post: Post{Body: ""}, wantErr: true},
		{name: "blank", post: Post{Body: "   "}, wantErr: true},
		{name: "language ok", post: Post{Body: "hi", Language: &en}},
		{name: "language too long", post: Post{Body: "hi", Language: &long}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.post.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, common.ErrInvalidInput), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseTable(t *testing.T) {
	for in, want := range map[string]Table{"user": TableUser, "users": TableUser, "post": TablePost, "posts": TablePost} {
		got, err := ParseTable(in)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseTable("user; DROP TABLE post")
	assert.Error(t, err)
}

func TestTableQuoted(t *testing.T) {
	assert.Equal(t, `"user"`, TableUser.Quoted())
	assert.Equal(t, `"post"`, TablePost.Quoted())
}

func TestTableDependents(t *testing.T) {
	assert.Equal(t, []Table{TablePost}, TableUser.Dependents())
	assert.Empty(t, TablePost.Dependents())
}
