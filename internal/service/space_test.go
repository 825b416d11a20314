package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CommunitySpaces/internal/cache"
	"CommunitySpaces/internal/catalog"
	"CommunitySpaces/internal/model"
	"CommunitySpaces/pkg/errors"
)

func TestSpace_ListAddsJoinedMembers(t *testing.T) {
	members := &memSpaceMembers{counts: map[string]int64{"1": 3}}
	c := newMemCache()
	svc := NewSpaceService(members, c)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, len(catalog.Spaces()))

	base, _ := catalog.SpaceByID("1")
	assert.Equal(t, "1", list[0].ID)
	assert.Equal(t, int64(base.BaseMembers)+3, list[0].Members)

	// 第二次读取走缓存
	_, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, members.calls)
	assert.Contains(t, c.values, cache.SpaceMemberCountKey)
}

func TestSpace_Get(t *testing.T) {
	members := &memSpaceMembers{
		counts:   map[string]int64{"2": 1},
		profiles: map[string][]model.Profile{"2": {newTestProfile(7, "jane")}},
	}
	svc := NewSpaceService(members, newMemCache())

	got, err := svc.Get(context.Background(), "2")
	require.NoError(t, err)

	base, _ := catalog.SpaceByID("2")
	assert.Equal(t, int64(base.BaseMembers)+1, got.Members)
	require.Len(t, got.RecentMembers, 1)
	assert.Equal(t, "jane", got.RecentMembers[0].Handle)
	assert.Empty(t, got.RecentMembers[0].Email)

	_, err = svc.Get(context.Background(), "404")
	assert.ErrorIs(t, err, errors.SpaceNotFound)
}
