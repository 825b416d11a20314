package service

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CommunitySpaces/internal/cache"
	"CommunitySpaces/internal/model/dto"
	"CommunitySpaces/internal/onboarding"
	"CommunitySpaces/pkg/errors"
)

type onboardingFixture struct {
	svc       *OnboardingService
	sessions  *memSessions
	locker    *memLocker
	profiles  *memProfiles
	publisher *recordingPublisher
	refresh   *memRefresh
	clock     time.Time
}

func newOnboardingFixture() *onboardingFixture {
	f := &onboardingFixture{
		sessions:  newMemSessions(),
		locker:    &memLocker{},
		profiles:  newMemProfiles(),
		publisher: &recordingPublisher{},
		refresh:   newMemRefresh(),
		clock:     time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	nextID := int64(1000)
	f.svc = NewOnboardingService(OnboardingDeps{
		Sessions:  f.sessions,
		Locker:    f.locker,
		Profiles:  f.profiles,
		Publisher: f.publisher,
		Tokens:    &stubIssuer{},
		Refresh:   f.refresh,
		NextID: func() (int64, error) {
			nextID++
			return nextID, nil
		},
		NewSessionID: func() string { return "sess-1" },
		Now:          func() time.Time { return f.clock },
	})
	return f
}

func strPtr(s string) *string { return &s }

func validProfilePatch(handle string) onboarding.DraftPatch {
	return onboarding.DraftPatch{
		Name:          strPtr("Jane Doe"),
		Handle:        strPtr(handle),
		ContactEmail:  strPtr("jane@example.com"),
		SocialHandles: map[string]string{"github": "janedoe"},
	}
}

// walkToCompletion 用合法操作把会话推进到完成步骤
func (f *onboardingFixture) walkToCompletion(t *testing.T, handle string) {
	t.Helper()
	ctx := context.Background()

	_, err := f.svc.MergeDraft(ctx, "sess-1", validProfilePatch(handle))
	require.NoError(t, err)
	_, err = f.svc.ToggleInterest(ctx, "sess-1", "Web Development")
	require.NoError(t, err)
	_, err = f.svc.ToggleSpace(ctx, "sess-1", "1")
	require.NoError(t, err)

	for i := 0; i < onboarding.TotalSteps-1; i++ {
		_, err := f.svc.Advance(ctx, "sess-1")
		require.NoError(t, err)
	}
}

func TestOnboarding_Start(t *testing.T) {
	f := newOnboardingFixture()

	got, err := f.svc.Start(context.Background())
	require.NoError(t, err)

	want := &dto.OnboardingProgress{
		SessionID:   "sess-1",
		CurrentStep: "welcome",
		StepIndex:   0,
		TotalSteps:  5,
		Steps:       []string{"welcome", "profile", "interests", "spaces", "completion"},
		CanAdvance:  true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("progress mismatch (-want +got):\n%s", diff)
	}

	sess, ok, _ := f.sessions.Load(context.Background(), "sess-1")
	require.True(t, ok)
	assert.Equal(t, f.clock, sess.StartedAt)
}

func TestOnboarding_UnknownSession(t *testing.T) {
	f := newOnboardingFixture()

	_, err := f.svc.Progress(context.Background(), "missing")
	assert.ErrorIs(t, err, errors.OnboardingSessionNotFound)

	_, err = f.svc.Advance(context.Background(), "")
	assert.ErrorIs(t, err, errors.OnboardingSessionNotFound)
}

func TestOnboarding_CorruptSessionIsDiscarded(t *testing.T) {
	f := newOnboardingFixture()
	ctx := context.Background()
	_, err := f.svc.Start(ctx)
	require.NoError(t, err)

	sess, _, _ := f.sessions.Load(ctx, "sess-1")
	sess.State.StepIndex = 9
	require.NoError(t, f.sessions.Save(ctx, "sess-1", sess))

	_, err = f.svc.Progress(ctx, "sess-1")
	assert.ErrorIs(t, err, errors.OnboardingSessionNotFound)

	_, ok, _ := f.sessions.Load(ctx, "sess-1")
	assert.False(t, ok)
}

func TestOnboarding_MergeDraftPersists(t *testing.T) {
	f := newOnboardingFixture()
	ctx := context.Background()
	_, err := f.svc.Start(ctx)
	require.NoError(t, err)

	_, err = f.svc.MergeDraft(ctx, "sess-1", onboarding.DraftPatch{Name: strPtr("Jane")})
	require.NoError(t, err)
	got, err := f.svc.MergeDraft(ctx, "sess-1", onboarding.DraftPatch{ShortBio: strPtr("hi")})
	require.NoError(t, err)

	assert.Equal(t, "Jane", got.Draft.Name)
	assert.Equal(t, "hi", got.Draft.ShortBio)

	again, err := f.svc.Progress(ctx, "sess-1")
	require.NoError(t, err)
	if diff := cmp.Diff(got, again); diff != "" {
		t.Errorf("reloaded progress differs (-merged +reloaded):\n%s", diff)
	}
}

func TestOnboarding_MergeDraftRejectsUnknownCatalogValues(t *testing.T) {
	f := newOnboardingFixture()
	ctx := context.Background()
	_, err := f.svc.Start(ctx)
	require.NoError(t, err)

	tests := []struct {
		name  string
		patch onboarding.DraftPatch
		want  error
	}{
		{"platform", onboarding.DraftPatch{SocialHandles: map[string]string{"myspace": "x"}}, errors.InvalidPlatform},
		{"interest", onboarding.DraftPatch{Interests: &[]string{"Knitting"}}, errors.InterestUnknown},
		{"space", onboarding.DraftPatch{JoinedSpaceIDs: &[]string{"42"}}, errors.SpaceNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.MergeDraft(ctx, "sess-1", tt.patch)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	got, err := f.svc.Progress(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, got.Draft.IsEmpty())
}

func TestOnboarding_ToggleRejectsUnknown(t *testing.T) {
	f := newOnboardingFixture()
	ctx := context.Background()
	_, err := f.svc.Start(ctx)
	require.NoError(t, err)

	_, err = f.svc.ToggleInterest(ctx, "sess-1", "Knitting")
	assert.ErrorIs(t, err, errors.InterestUnknown)
	_, err = f.svc.ToggleSpace(ctx, "sess-1", "99")
	assert.ErrorIs(t, err, errors.SpaceNotFound)

	got, err := f.svc.ToggleSpace(ctx, "sess-1", "3")
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, got.Draft.JoinedSpaceIDs)

	got, err = f.svc.ToggleSpace(ctx, "sess-1", "3")
	require.NoError(t, err)
	assert.Empty(t, got.Draft.JoinedSpaceIDs)
}

func TestOnboarding_AdvanceBlockedKeepsStep(t *testing.T) {
	f := newOnboardingFixture()
	ctx := context.Background()
	_, err := f.svc.Start(ctx)
	require.NoError(t, err)
	_, err = f.svc.Advance(ctx, "sess-1")
	require.NoError(t, err)

	_, err = f.svc.Advance(ctx, "sess-1")
	var blocked *onboarding.BlockedError
	require.ErrorAs(t, err, &blocked)
	assert.Equal(t, onboarding.StepProfile, blocked.Step)
	assert.Len(t, blocked.Violations, 3)

	got, err := f.svc.Progress(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "profile", got.CurrentStep)
	assert.False(t, got.CanAdvance)
}

func TestOnboarding_AdvanceRejectsTakenHandle(t *testing.T) {
	f := newOnboardingFixture()
	ctx := context.Background()
	f.profiles.add(newTestProfile(1, "jane"))

	_, err := f.svc.Start(ctx)
	require.NoError(t, err)
	_, err = f.svc.Advance(ctx, "sess-1")
	require.NoError(t, err)
	_, err = f.svc.MergeDraft(ctx, "sess-1", validProfilePatch("jane"))
	require.NoError(t, err)

	_, err = f.svc.Advance(ctx, "sess-1")
	var blocked *onboarding.BlockedError
	require.ErrorAs(t, err, &blocked)
	require.Len(t, blocked.Violations, 1)
	assert.Equal(t, "handle", blocked.Violations[0].Field)
	assert.Equal(t, "Username is already taken", blocked.Violations[0].Message)
}

func TestOnboarding_AdvanceAtLastStep(t *testing.T) {
	f := newOnboardingFixture()
	ctx := context.Background()
	_, err := f.svc.Start(ctx)
	require.NoError(t, err)
	f.walkToCompletion(t, "jane")

	_, err = f.svc.Advance(ctx, "sess-1")
	assert.ErrorIs(t, err, errors.OnboardingNoNextStep)
}

func TestOnboarding_RetreatKeepsDraft(t *testing.T) {
	f := newOnboardingFixture()
	ctx := context.Background()
	_, err := f.svc.Start(ctx)
	require.NoError(t, err)
	f.walkToCompletion(t, "jane")

	got, err := f.svc.Retreat(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "spaces", got.CurrentStep)
	assert.Equal(t, "jane", got.Draft.Handle)
	assert.Equal(t, []string{"1"}, got.Draft.JoinedSpaceIDs)
}

func TestOnboarding_CancelAtBoundaryDeletesSession(t *testing.T) {
	f := newOnboardingFixture()
	ctx := context.Background()
	_, err := f.svc.Start(ctx)
	require.NoError(t, err)

	res, err := f.svc.RequestCancel(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, res.Cancelled)
	assert.False(t, res.ConfirmationRequired)

	_, ok, _ := f.sessions.Load(ctx, "sess-1")
	assert.False(t, ok)
}

func TestOnboarding_CancelMidwayNeedsConfirmation(t *testing.T) {
	f := newOnboardingFixture()
	ctx := context.Background()
	_, err := f.svc.Start(ctx)
	require.NoError(t, err)
	_, err = f.svc.Advance(ctx, "sess-1")
	require.NoError(t, err)

	res, err := f.svc.RequestCancel(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, res.Cancelled)
	require.True(t, res.ConfirmationRequired)
	assert.True(t, res.Progress.CancelConfirmationVisible)

	got, err := f.svc.DismissCancel(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, got.CancelConfirmationVisible)
	assert.Equal(t, "profile", got.CurrentStep)

	_, err = f.svc.RequestCancel(ctx, "sess-1")
	require.NoError(t, err)
	require.NoError(t, f.svc.ConfirmCancel(ctx, "sess-1"))

	_, err = f.svc.Progress(ctx, "sess-1")
	assert.ErrorIs(t, err, errors.OnboardingSessionNotFound)
}

func TestOnboarding_FinishOnlyAtCompletion(t *testing.T) {
	f := newOnboardingFixture()
	ctx := context.Background()
	_, err := f.svc.Start(ctx)
	require.NoError(t, err)

	_, err = f.svc.Finish(ctx, "sess-1")
	assert.ErrorIs(t, err, errors.OnboardingNotFinalStep)
	assert.Empty(t, f.locker.held)
}

func TestOnboarding_Finish(t *testing.T) {
	f := newOnboardingFixture()
	ctx := context.Background()
	_, err := f.svc.Start(ctx)
	require.NoError(t, err)
	f.walkToCompletion(t, "jane")

	f.clock = f.clock.Add(3 * time.Minute)
	res, err := f.svc.Finish(ctx, "sess-1")
	require.NoError(t, err)

	assert.Equal(t, "1001", res.Profile.ID)
	assert.Equal(t, "jane", res.Profile.Handle)
	assert.Equal(t, "jane@example.com", res.Profile.Email)
	assert.Equal(t, []string{"Web Development"}, res.Profile.Interests)
	assert.Equal(t, map[string]string{"github": "janedoe"}, res.Profile.SocialHandles)
	assert.Equal(t, "access.1001", res.Tokens.AccessToken)

	ok, _ := f.refresh.Matches(ctx, "1001", res.Tokens.RefreshToken)
	assert.True(t, ok)

	require.Len(t, f.publisher.msgs, 1)
	msg := f.publisher.msgs[0]
	assert.Equal(t, int64(1001), msg.PublicID)
	assert.Equal(t, []string{"1"}, msg.JoinedSpaceIDs)
	assert.NotEmpty(t, msg.MessageID)

	_, found, _ := f.sessions.Load(ctx, "sess-1")
	assert.False(t, found)
	assert.Empty(t, f.locker.held)
}

func TestOnboarding_FinishHandleTakenKeepsDraft(t *testing.T) {
	f := newOnboardingFixture()
	ctx := context.Background()
	_, err := f.svc.Start(ctx)
	require.NoError(t, err)
	f.walkToCompletion(t, "jane")

	// 推进之后被他人抢先注册
	f.profiles.add(newTestProfile(1, "jane"))

	_, err = f.svc.Finish(ctx, "sess-1")
	assert.ErrorIs(t, err, errors.ProfileHandleTaken)

	got, err := f.svc.Progress(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "completion", got.CurrentStep)
	assert.Equal(t, "jane", got.Draft.Handle)
	assert.Empty(t, f.publisher.msgs)
}

func TestOnboarding_FinishRevalidatesDraft(t *testing.T) {
	f := newOnboardingFixture()
	ctx := context.Background()
	_, err := f.svc.Start(ctx)
	require.NoError(t, err)
	f.walkToCompletion(t, "jane")

	_, err = f.svc.ToggleInterest(ctx, "sess-1", "Web Development")
	require.NoError(t, err)

	_, err = f.svc.Finish(ctx, "sess-1")
	var blocked *onboarding.BlockedError
	require.ErrorAs(t, err, &blocked)
	assert.Equal(t, onboarding.StepInterests, blocked.Step)
	assert.Empty(t, f.profiles.byID)
}

func TestOnboarding_FinishPublishFailureStillSucceeds(t *testing.T) {
	f := newOnboardingFixture()
	f.publisher.err = stderrors.New("channel closed")
	ctx := context.Background()
	_, err := f.svc.Start(ctx)
	require.NoError(t, err)
	f.walkToCompletion(t, "jane")

	res, err := f.svc.Finish(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "jane", res.Profile.Handle)
}

func TestOnboarding_FinishBusy(t *testing.T) {
	f := newOnboardingFixture()
	ctx := context.Background()
	_, err := f.svc.Start(ctx)
	require.NoError(t, err)
	f.walkToCompletion(t, "jane")

	_, _, _ = f.locker.TryLock(ctx, lockKey("sess-1"), time.Second)

	_, err = f.svc.Finish(ctx, "sess-1")
	assert.ErrorIs(t, err, errors.OnboardingBusy)
}

// interleavedSessions 在下一次 Load 之前执行 beforeLoad，模拟另一个请求插入
type interleavedSessions struct {
	*memSessions
	beforeLoad func()
}

func (s *interleavedSessions) Load(ctx context.Context, id string) (cache.OnboardingSession, bool, error) {
	if fn := s.beforeLoad; fn != nil {
		s.beforeLoad = nil
		fn()
	}
	return s.memSessions.Load(ctx, id)
}

func (f *onboardingFixture) withInterleavedSessions() (*OnboardingService, *interleavedSessions) {
	sessions := &interleavedSessions{memSessions: f.sessions}
	deps := f.svc.deps
	deps.Sessions = sessions
	return NewOnboardingService(deps), sessions
}

func TestOnboarding_WriteDuringConfirmCancelCannotRestoreDraft(t *testing.T) {
	f := newOnboardingFixture()
	ctx := context.Background()
	_, err := f.svc.Start(ctx)
	require.NoError(t, err)
	_, err = f.svc.MergeDraft(ctx, "sess-1", validProfilePatch("jane"))
	require.NoError(t, err)
	_, err = f.svc.Advance(ctx, "sess-1")
	require.NoError(t, err)

	svc, sessions := f.withInterleavedSessions()

	var toggleErr error
	sessions.beforeLoad = func() {
		_, toggleErr = svc.ToggleInterest(ctx, "sess-1", "Web Development")
	}
	require.NoError(t, svc.ConfirmCancel(ctx, "sess-1"))
	assert.ErrorIs(t, toggleErr, errors.OnboardingBusy)

	_, ok, _ := f.sessions.Load(ctx, "sess-1")
	assert.False(t, ok)

	_, err = svc.ToggleInterest(ctx, "sess-1", "Web Development")
	assert.ErrorIs(t, err, errors.OnboardingSessionNotFound)
	_, ok, _ = f.sessions.Load(ctx, "sess-1")
	assert.False(t, ok)
}

func TestOnboarding_ConfirmCancelDuringWriteIsRejected(t *testing.T) {
	f := newOnboardingFixture()
	ctx := context.Background()
	_, err := f.svc.Start(ctx)
	require.NoError(t, err)
	_, err = f.svc.MergeDraft(ctx, "sess-1", validProfilePatch("jane"))
	require.NoError(t, err)
	_, err = f.svc.Advance(ctx, "sess-1")
	require.NoError(t, err)

	svc, sessions := f.withInterleavedSessions()

	var cancelErr error
	sessions.beforeLoad = func() {
		cancelErr = svc.ConfirmCancel(ctx, "sess-1")
	}
	_, err = svc.ToggleInterest(ctx, "sess-1", "Web Development")
	require.NoError(t, err)
	assert.ErrorIs(t, cancelErr, errors.OnboardingBusy)

	// 锁已释放，重试的取消生效且不会被复活
	require.NoError(t, svc.ConfirmCancel(ctx, "sess-1"))
	_, ok, _ := f.sessions.Load(ctx, "sess-1")
	assert.False(t, ok)
}

func TestOnboarding_WritesRejectedWhileLocked(t *testing.T) {
	f := newOnboardingFixture()
	ctx := context.Background()
	_, err := f.svc.Start(ctx)
	require.NoError(t, err)

	owner, ok, _ := f.locker.TryLock(ctx, lockKey("sess-1"), time.Second)
	require.True(t, ok)

	_, err = f.svc.MergeDraft(ctx, "sess-1", validProfilePatch("jane"))
	assert.ErrorIs(t, err, errors.OnboardingBusy)
	_, err = f.svc.Advance(ctx, "sess-1")
	assert.ErrorIs(t, err, errors.OnboardingBusy)
	_, err = f.svc.RequestCancel(ctx, "sess-1")
	assert.ErrorIs(t, err, errors.OnboardingBusy)
	assert.ErrorIs(t, f.svc.ConfirmCancel(ctx, "sess-1"), errors.OnboardingBusy)

	// 只读查询不受影响
	got, err := f.svc.Progress(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "welcome", got.CurrentStep)

	require.NoError(t, f.locker.Unlock(ctx, lockKey("sess-1"), owner))
	_, err = f.svc.MergeDraft(ctx, "sess-1", validProfilePatch("jane"))
	assert.NoError(t, err)
	assert.Empty(t, f.locker.held)
}

func TestOnboarding_HandleIsNormalized(t *testing.T) {
	f := newOnboardingFixture()
	ctx := context.Background()
	_, err := f.svc.Start(ctx)
	require.NoError(t, err)

	patch := validProfilePatch(" JaneDoe ")
	patch.Name = strPtr("  Jane Doe ")
	patch.ContactEmail = strPtr(" jane@example.com ")
	_, err = f.svc.MergeDraft(ctx, "sess-1", patch)
	require.NoError(t, err)
	_, err = f.svc.ToggleInterest(ctx, "sess-1", "Web Development")
	require.NoError(t, err)
	_, err = f.svc.ToggleSpace(ctx, "sess-1", "1")
	require.NoError(t, err)
	for i := 0; i < onboarding.TotalSteps-1; i++ {
		_, err := f.svc.Advance(ctx, "sess-1")
		require.NoError(t, err)
	}

	res, err := f.svc.Finish(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "janedoe", res.Profile.Handle)
	assert.Equal(t, "Jane Doe", res.Profile.Name)
	assert.Equal(t, "jane@example.com", res.Profile.Email)

	// 同一用户名加空白或改大小写仍视为已占用
	_, err = f.svc.Start(ctx)
	require.NoError(t, err)
	_, err = f.svc.Advance(ctx, "sess-1")
	require.NoError(t, err)
	_, err = f.svc.MergeDraft(ctx, "sess-1", validProfilePatch(" janeDOE  "))
	require.NoError(t, err)

	_, err = f.svc.Advance(ctx, "sess-1")
	var blocked *onboarding.BlockedError
	require.ErrorAs(t, err, &blocked)
	assert.Equal(t, "handle", blocked.Violations[0].Field)
}

func TestOnboarding_FinishRejectsHandleDifferingOnlyByCase(t *testing.T) {
	f := newOnboardingFixture()
	ctx := context.Background()
	_, err := f.svc.Start(ctx)
	require.NoError(t, err)
	f.walkToCompletion(t, " Jane ")

	f.profiles.add(newTestProfile(1, "jane"))

	_, err = f.svc.Finish(ctx, "sess-1")
	assert.ErrorIs(t, err, errors.ProfileHandleTaken)
	assert.Len(t, f.profiles.byID, 1)
}
