package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeedOrder(t *testing.T) {
	tests := []struct {
		filter FeedFilter
		sort   FeedSort
		want   []string
	}{
		{FeedFilterAll, FeedSortRecent, []string{"created_at DESC", "id DESC"}},
		{FeedFilterTrending, FeedSortRecent, []string{"created_at DESC", "likes DESC", "id DESC"}},
		{FeedFilterNew, FeedSortPopular, []string{"likes DESC", "created_at DESC", "id DESC"}},
		{FeedFilterNew, FeedSortRecent, []string{"created_at DESC", "id DESC"}},
		{FeedFilterTrending, FeedSortPopular, []string{"likes DESC", "id DESC"}},
		{FeedFilterAll, FeedSortViewed, []string{"views DESC", "id DESC"}},
		{FeedFilterAll, FeedSortCommented, []string{"comments DESC", "id DESC"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FeedOrder(tt.filter, tt.sort), "%s/%s", tt.filter, tt.sort)
	}
}

func TestParseFeedOptions(t *testing.T) {
	f, ok := ParseFeedFilter("")
	assert.True(t, ok)
	assert.Equal(t, FeedFilterAll, f)

	_, ok = ParseFeedFilter("hot")
	assert.False(t, ok)

	s, ok := ParseFeedSort("")
	assert.True(t, ok)
	assert.Equal(t, FeedSortRecent, s)

	s, ok = ParseFeedSort("viewed")
	assert.True(t, ok)
	assert.Equal(t, FeedSortViewed, s)

	_, ok = ParseFeedSort("random")
	assert.False(t, ok)
}
