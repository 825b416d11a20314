package onboarding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggle(t *testing.T) {
	var interests []string

	interests = Toggle(interests, "AI")
	assert.Equal(t, []string{"AI"}, interests)

	interests = Toggle(interests, "AI")
	assert.Empty(t, interests)

	interests = Toggle(interests, "AI")
	interests = Toggle(interests, "Design")
	assert.ElementsMatch(t, []string{"Design", "AI"}, interests)
	// 展示顺序按插入顺序
	assert.Equal(t, []string{"AI", "Design"}, interests)
}

func TestToggle_PairIsIdentity(t *testing.T) {
	base := []string{"Web Development", "Blockchain", "IoT"}

	for _, v := range []string{"Blockchain", "Startups"} {
		got := Toggle(Toggle(base, v), v)
		assert.ElementsMatch(t, base, got)
	}
}

func TestToggle_DoesNotMutateInput(t *testing.T) {
	base := []string{"a", "b", "c"}

	_ = Toggle(base, "b")
	_ = Toggle(base, "d")

	assert.Equal(t, []string{"a", "b", "c"}, base)
}

func TestMerge_LastWriteWins(t *testing.T) {
	d := Draft{Name: "Jane", Handle: "jane"}

	d.Merge(DraftPatch{Name: strPtr("Janet")})
	d.Merge(DraftPatch{ShortBio: strPtr("builder")})

	assert.Equal(t, "Janet", d.Name)
	assert.Equal(t, "jane", d.Handle)
	assert.Equal(t, "builder", d.ShortBio)
}

func TestMerge_DoesNotValidate(t *testing.T) {
	var d Draft
	d.Merge(DraftPatch{ContactEmail: strPtr("not-an-email")})

	assert.Equal(t, "not-an-email", d.ContactEmail)
}

func TestMerge_SocialHandlesPerPlatform(t *testing.T) {
	var d Draft
	d.Merge(DraftPatch{SocialHandles: map[string]string{
		PlatformGitHub:  "janedev",
		PlatformTwitter: "jane",
	}})
	d.Merge(DraftPatch{SocialHandles: map[string]string{
		PlatformTwitter:  "",
		PlatformLinkedIn: "jane-doe",
	}})

	assert.Equal(t, map[string]string{
		PlatformGitHub:   "janedev",
		PlatformLinkedIn: "jane-doe",
	}, d.SocialHandles)
}

func TestMerge_SetsReplaceWholeSet(t *testing.T) {
	d := Draft{Interests: []string{"AI"}}
	next := []string{"Design", "Writing"}

	d.Merge(DraftPatch{Interests: &next})
	next[0] = "mutated"

	assert.Equal(t, []string{"Design", "Writing"}, d.Interests)
}

func TestDraftPatch_IsZero(t *testing.T) {
	assert.True(t, DraftPatch{}.IsZero())
	assert.False(t, DraftPatch{Handle: strPtr("")}.IsZero())
}

func TestKnownPlatform(t *testing.T) {
	for _, p := range Platforms() {
		assert.True(t, KnownPlatform(p), p)
	}
	assert.False(t, KnownPlatform("myspace"))
}

func TestNormalizeHandle(t *testing.T) {
	assert.Equal(t, "jane", NormalizeHandle(" Jane\t"))
	assert.Equal(t, "", NormalizeHandle("   "))
}

func TestDraft_Normalized(t *testing.T) {
	d := Draft{
		Name:          " Jane Doe ",
		Handle:        " JaneDoe",
		ContactEmail:  "jane@example.com ",
		SocialHandles: map[string]string{"github": "janedoe"},
		Interests:     []string{"AI"},
	}

	n := d.Normalized()
	assert.Equal(t, "Jane Doe", n.Name)
	assert.Equal(t, "janedoe", n.Handle)
	assert.Equal(t, "jane@example.com", n.ContactEmail)
	assert.Equal(t, []string{"AI"}, n.Interests)

	n.SocialHandles["github"] = "other"
	assert.Equal(t, "janedoe", d.SocialHandles["github"])
}
