package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CommunitySpaces/internal/model"
	"CommunitySpaces/internal/model/dto"
	"CommunitySpaces/pkg/errors"
)

func newTestProfile(publicID int64, handle string) model.Profile {
	return model.Profile{
		PublicID:      publicID,
		Name:          "Jane Doe",
		Handle:        handle,
		Email:         handle + "@example.com",
		SocialHandles: model.SocialHandles{"github": handle},
		Interests:     model.StringList{"Web Development"},
		JoinedSpaces:  model.StringList{"1"},
	}
}

func TestProfile_GetByHandleHidesEmailAndCaches(t *testing.T) {
	repo := newMemProfiles()
	repo.add(newTestProfile(7, "jane"))
	c := newMemCache()
	svc := NewProfileService(repo, c)

	got, err := svc.GetByHandle(context.Background(), "jane")
	require.NoError(t, err)
	assert.Equal(t, "7", got.ID)
	assert.Empty(t, got.Email)
	assert.Equal(t, []string{}, got.Skills)
	assert.Contains(t, c.values, "jane")

	// 缓存命中时不再读库
	repo.byID = map[int64]*model.Profile{}
	got, err = svc.GetByHandle(context.Background(), "jane")
	require.NoError(t, err)
	assert.Equal(t, "jane", got.Handle)
}

func TestProfile_GetByHandleCachesMiss(t *testing.T) {
	c := newMemCache()
	svc := NewProfileService(newMemProfiles(), c)

	_, err := svc.GetByHandle(context.Background(), "ghost")
	assert.ErrorIs(t, err, errors.ProfileNotFound)

	v, ok := c.values["ghost"]
	require.True(t, ok)
	assert.Nil(t, v)

	_, err = svc.GetByHandle(context.Background(), "ghost")
	assert.ErrorIs(t, err, errors.ProfileNotFound)
}

func TestProfile_GetMe(t *testing.T) {
	repo := newMemProfiles()
	repo.add(newTestProfile(7, "jane"))
	svc := NewProfileService(repo, newMemCache())

	got, err := svc.GetMe(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", got.Email)

	_, err = svc.GetMe(context.Background(), "not-a-number")
	assert.ErrorIs(t, err, errors.InvalidProfileID)

	_, err = svc.GetMe(context.Background(), "8")
	assert.ErrorIs(t, err, errors.ProfileNotFound)
}

func TestProfile_UpdateMe(t *testing.T) {
	repo := newMemProfiles()
	repo.add(newTestProfile(7, "jane"))
	c := newMemCache()
	c.values["jane"] = model.Profile{Handle: "jane", Name: "stale"}
	svc := NewProfileService(repo, c)

	got, err := svc.UpdateMe(context.Background(), "7", &dto.UpdateProfileRequest{
		Title:         strPtr("Staff Engineer"),
		SocialHandles: map[string]string{"github": "", "twitter": "jane_d"},
		Skills:        &[]string{"Go", "SQL"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Staff Engineer", got.Title)
	assert.Equal(t, map[string]string{"twitter": "jane_d"}, got.SocialHandles)
	assert.Equal(t, []string{"Go", "SQL"}, got.Skills)
	assert.Equal(t, "Jane Doe", got.Name)
	assert.NotContains(t, c.values, "jane")
}

func TestProfile_UpdateMeValidation(t *testing.T) {
	repo := newMemProfiles()
	repo.add(newTestProfile(7, "jane"))
	svc := NewProfileService(repo, newMemCache())

	_, err := svc.UpdateMe(context.Background(), "7", &dto.UpdateProfileRequest{
		Name:          strPtr("  "),
		Email:         strPtr("nope"),
		SocialHandles: map[string]string{"myspace": "x"},
		Interests:     &[]string{"Knitting"},
	})
	require.ErrorIs(t, err, errors.ProfileInvalid)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	fields := make([]string, 0, len(verr.Violations))
	for _, v := range verr.Violations {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{"name", "email", "social_handles", "interests"}, fields)

	me, err := svc.GetMe(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", me.Name)
}

func TestProfile_GetByHandleNormalizesInput(t *testing.T) {
	repo := newMemProfiles()
	repo.add(newTestProfile(7, "jane"))
	svc := NewProfileService(repo, newMemCache())

	got, err := svc.GetByHandle(context.Background(), " Jane ")
	require.NoError(t, err)
	assert.Equal(t, "jane", got.Handle)
}
