package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/ksuid"
	"go.uber.org/zap"

	"CommunitySpaces/config"
	"CommunitySpaces/internal/cache"
	"CommunitySpaces/internal/catalog"
	"CommunitySpaces/internal/model"
	"CommunitySpaces/internal/model/dto"
	"CommunitySpaces/internal/onboarding"
	"CommunitySpaces/internal/queue"
	"CommunitySpaces/internal/repository"
	"CommunitySpaces/pkg/errors"
	"CommunitySpaces/pkg/logger"
	"CommunitySpaces/pkg/metrics"
	"CommunitySpaces/pkg/snowflake"
	"CommunitySpaces/pkg/token"
	"CommunitySpaces/storage/database"
)

var (
	onboardingService *OnboardingService
	onboardingOnce    sync.Once
)

// Onboarding 使用 Redis/PostgreSQL/RabbitMQ 的单例
func Onboarding() *OnboardingService {
	onboardingOnce.Do(func() {
		onboardingService = NewOnboardingService(OnboardingDeps{
			Sessions:  cache.NewOnboardingSessionStore(config.Cfg.OnboardingSessionTTL),
			Locker:    redisLocker{},
			Profiles:  repository.NewProfileRepository(database.DB()),
			Publisher: queue.Producer{},
			Tokens:    token.GetIssuer(),
			Refresh:   cache.NewRefreshTokenStore(time.Duration(config.Cfg.JWTRefreshDays) * 24 * time.Hour),
			NextID:    snowflake.NextID,
			LockTTL:   config.Cfg.OnboardingLockTTL,
		})
	})
	return onboardingService
}

// OnboardingDeps 引导服务的协作方
type OnboardingDeps struct {
	Sessions  SessionStore
	// 为空时使用 Redis 锁
	Locker    Locker
	Profiles  repository.ProfileRepository
	Publisher EventPublisher
	Tokens    TokenIssuer
	Refresh   RefreshStore
	NextID    func() (int64, error)
	LockTTL   time.Duration
	// 以下可选，测试中替换
	NewSessionID func() string
	Now          func() time.Time
}

// OnboardingService 每个请求从会话恢复向导、执行一次操作并写回。
type OnboardingService struct {
	deps OnboardingDeps
}

func NewOnboardingService(deps OnboardingDeps) *OnboardingService {
	if deps.NewSessionID == nil {
		deps.NewSessionID = func() string { return ksuid.New().String() }
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Locker == nil {
		deps.Locker = redisLocker{}
	}
	if deps.LockTTL <= 0 {
		deps.LockTTL = 10 * time.Second
	}
	return &OnboardingService{deps: deps}
}

// Start 创建新的引导会话
func (s *OnboardingService) Start(ctx context.Context) (*dto.OnboardingProgress, error) {
	id := s.deps.NewSessionID()
	w := onboarding.New(onboarding.Hooks{})

	sess := cache.OnboardingSession{State: w.State(), StartedAt: s.deps.Now()}
	if err := s.deps.Sessions.Save(ctx, id, sess); err != nil {
		return nil, fmt.Errorf("save onboarding session: %w", err)
	}

	metrics.RecordOnboardingStarted(ctx)
	logger.Logger.Info("Onboarding session started", zap.String("session_id", id))

	return progress(id, w), nil
}

// Progress 查询当前进度
func (s *OnboardingService) Progress(ctx context.Context, id string) (*dto.OnboardingProgress, error) {
	_, w, err := s.restore(ctx, id, onboarding.Hooks{})
	if err != nil {
		return nil, err
	}
	return progress(id, w), nil
}

// MergeDraft 合并草稿，平台、兴趣与空间需在目录内
func (s *OnboardingService) MergeDraft(ctx context.Context, id string, patch onboarding.DraftPatch) (*dto.OnboardingProgress, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(w *onboarding.Wizard) error {
		w.MergeDraft(patch)
		return nil
	})
}

func (s *OnboardingService) ToggleInterest(ctx context.Context, id, interest string) (*dto.OnboardingProgress, error) {
	if !catalog.HasInterest(interest) {
		return nil, errors.InterestUnknown
	}
	return s.mutate(ctx, id, func(w *onboarding.Wizard) error {
		w.ToggleInterest(interest)
		return nil
	})
}

func (s *OnboardingService) ToggleSpace(ctx context.Context, id, spaceID string) (*dto.OnboardingProgress, error) {
	if !catalog.HasSpace(spaceID) {
		return nil, errors.SpaceNotFound
	}
	return s.mutate(ctx, id, func(w *onboarding.Wizard) error {
		w.ToggleSpace(spaceID)
		return nil
	})
}

// Advance 前进一步。资料步骤额外检查用户名是否已被占用。
func (s *OnboardingService) Advance(ctx context.Context, id string) (*dto.OnboardingProgress, error) {
	return s.mutate(ctx, id, func(w *onboarding.Wizard) error {
		from := w.Step()

		if from == onboarding.StepProfile && onboarding.IsStepValid(from, w.Draft()) {
			taken, err := s.deps.Profiles.HandleExists(ctx, onboarding.NormalizeHandle(w.Draft().Handle))
			if err != nil {
				return err
			}
			if taken {
				metrics.RecordOnboardingBlocked(ctx, from.String())
				return &onboarding.BlockedError{Step: from, Violations: []onboarding.Violation{
					{Field: "handle", Message: errors.ProfileHandleTaken.Message},
				}}
			}
		}

		if err := w.Advance(); err != nil {
			var blocked *onboarding.BlockedError
			if stderrors.As(err, &blocked) {
				metrics.RecordOnboardingBlocked(ctx, from.String())
			}
			return err
		}

		metrics.RecordOnboardingAdvanced(ctx, w.Step().String())
		return nil
	})
}

// Retreat 回退一步，已在第一步时不变
func (s *OnboardingService) Retreat(ctx context.Context, id string) (*dto.OnboardingProgress, error) {
	return s.mutate(ctx, id, func(w *onboarding.Wizard) error {
		w.Retreat()
		return nil
	})
}

// RequestCancel 首末步骤直接取消并删除会话，其余步骤展示确认框
func (s *OnboardingService) RequestCancel(ctx context.Context, id string) (*dto.CancelResult, error) {
	var (
		cancelled bool
		step      onboarding.Step
	)
	hooks := onboarding.Hooks{OnCancel: func() { cancelled = true }}

	unlock, err := s.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	sess, w, err := s.restore(ctx, id, hooks)
	if err != nil {
		return nil, err
	}

	step = w.Step()
	if w.RequestCancel() {
		sess.State = w.State()
		if err := s.deps.Sessions.Save(ctx, id, sess); err != nil {
			return nil, fmt.Errorf("save onboarding session: %w", err)
		}
		return &dto.CancelResult{ConfirmationRequired: true, Progress: progress(id, w)}, nil
	}

	if cancelled {
		if err := s.discard(ctx, id, step); err != nil {
			return nil, err
		}
	}
	return &dto.CancelResult{Cancelled: true}, nil
}

// ConfirmCancel 用户确认取消，丢弃草稿
func (s *OnboardingService) ConfirmCancel(ctx context.Context, id string) error {
	unlock, err := s.lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	_, w, err := s.restore(ctx, id, onboarding.Hooks{})
	if err != nil {
		return err
	}

	step := w.Step()
	w.ConfirmCancel()
	return s.discard(ctx, id, step)
}

// DismissCancel 关闭确认框，继续引导
func (s *OnboardingService) DismissCancel(ctx context.Context, id string) (*dto.OnboardingProgress, error) {
	return s.mutate(ctx, id, func(w *onboarding.Wizard) error {
		w.DismissCancel()
		return nil
	})
}

// Finish 在完成步骤创建资料、发布事件并签发令牌。
// 创建失败时会话保持在完成步骤，草稿不变，可重试。
func (s *OnboardingService) Finish(ctx context.Context, id string) (*dto.OnboardingFinished, error) {
	unlock, err := s.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var created *model.Profile
	hooks := onboarding.Hooks{
		OnComplete: func(d onboarding.Draft) error {
			p, err := s.createProfile(ctx, d)
			if err != nil {
				return err
			}
			created = p
			return nil
		},
	}

	sess, w, err := s.restore(ctx, id, hooks)
	if err != nil {
		return nil, err
	}

	if err := w.Finish(); err != nil {
		return nil, onboardingError(err)
	}

	if err := s.deps.Sessions.Delete(ctx, id); err != nil {
		logger.Logger.Warn("Failed to delete finished onboarding session", zap.String("session_id", id), zap.Error(err))
	}

	msg := queue.NewProfileOnboardedMessage(created, s.deps.Now())
	if err := s.deps.Publisher.PublishProfileOnboarded(ctx, msg); err != nil {
		// 资料已创建，空间成员关系可由后续补偿
		logger.Logger.Error("Failed to publish profile onboarded",
			zap.String("session_id", id),
			zap.Int64("profile_id", created.ID),
			zap.Error(err),
		)
	}

	pair, err := issueTokens(ctx, s.deps.Tokens, s.deps.Refresh, snowflake.FormatID(created.PublicID))
	if err != nil {
		return nil, err
	}

	metrics.RecordOnboardingCompleted(ctx, s.deps.Now().Sub(sess.StartedAt).Seconds())
	logger.Logger.Info("Onboarding completed",
		zap.String("session_id", id),
		zap.Int64("public_id", created.PublicID),
		zap.String("handle", created.Handle),
	)

	return &dto.OnboardingFinished{
		Profile: toProfileData(created, true),
		Tokens:  pair,
	}, nil
}

func (s *OnboardingService) createProfile(ctx context.Context, d onboarding.Draft) (*model.Profile, error) {
	// 草稿在到达完成步骤后仍可被修改，提交前重新校验
	for _, step := range []onboarding.Step{onboarding.StepProfile, onboarding.StepInterests, onboarding.StepSpaces} {
		if v := onboarding.Violations(step, d); len(v) > 0 {
			return nil, &onboarding.BlockedError{Step: step, Violations: v}
		}
	}

	publicID, err := s.deps.NextID()
	if err != nil {
		return nil, fmt.Errorf("generate profile id: %w", err)
	}

	d = d.Normalized()

	p := &model.Profile{
		PublicID:      publicID,
		Name:          d.Name,
		Handle:        d.Handle,
		Bio:           d.ShortBio,
		AvatarURL:     d.AvatarReference,
		Email:         d.ContactEmail,
		SocialHandles: model.SocialHandles(d.SocialHandles),
		Interests:     model.StringList(d.Interests),
		JoinedSpaces:  model.StringList(d.JoinedSpaceIDs),
	}
	if err := s.deps.Profiles.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// lockKey 同一会话的写操作共用一把锁
func lockKey(id string) string {
	return "onboarding:lock:" + id
}

// lock 获取会话锁，已被其他请求持有时返回 OnboardingBusy
func (s *OnboardingService) lock(ctx context.Context, id string) (func(), error) {
	if id == "" {
		return nil, errors.OnboardingSessionNotFound
	}

	key := lockKey(id)
	owner, ok, err := s.deps.Locker.TryLock(ctx, key, s.deps.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire onboarding lock: %w", err)
	}
	if !ok {
		return nil, errors.OnboardingBusy
	}

	return func() {
		if err := s.deps.Locker.Unlock(ctx, key, owner); err != nil {
			logger.Logger.Warn("Failed to release onboarding lock", zap.String("session_id", id), zap.Error(err))
		}
	}, nil
}

// mutate 持锁加载、执行、写回
func (s *OnboardingService) mutate(ctx context.Context, id string, op func(w *onboarding.Wizard) error) (*dto.OnboardingProgress, error) {
	unlock, err := s.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	sess, w, err := s.restore(ctx, id, onboarding.Hooks{})
	if err != nil {
		return nil, err
	}

	if err := op(w); err != nil {
		return nil, onboardingError(err)
	}

	sess.State = w.State()
	if err := s.deps.Sessions.Save(ctx, id, sess); err != nil {
		return nil, fmt.Errorf("save onboarding session: %w", err)
	}
	return progress(id, w), nil
}

func (s *OnboardingService) restore(ctx context.Context, id string, hooks onboarding.Hooks) (cache.OnboardingSession, *onboarding.Wizard, error) {
	if id == "" {
		return cache.OnboardingSession{}, nil, errors.OnboardingSessionNotFound
	}

	sess, ok, err := s.deps.Sessions.Load(ctx, id)
	if err != nil {
		return cache.OnboardingSession{}, nil, fmt.Errorf("load onboarding session: %w", err)
	}
	if !ok {
		return cache.OnboardingSession{}, nil, errors.OnboardingSessionNotFound
	}

	w, err := onboarding.Restore(sess.State, hooks)
	if err != nil {
		logger.Logger.Warn("Discarding corrupt onboarding session", zap.String("session_id", id), zap.Error(err))
		_ = s.deps.Sessions.Delete(ctx, id)
		return cache.OnboardingSession{}, nil, errors.OnboardingSessionNotFound
	}
	return sess, w, nil
}

func (s *OnboardingService) discard(ctx context.Context, id string, step onboarding.Step) error {
	if err := s.deps.Sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete onboarding session: %w", err)
	}
	metrics.RecordOnboardingCancelled(ctx, step.String())
	logger.Logger.Info("Onboarding cancelled",
		zap.String("session_id", id),
		zap.String("step", step.String()),
	)
	return nil
}

func progress(id string, w *onboarding.Wizard) *dto.OnboardingProgress {
	return &dto.OnboardingProgress{
		SessionID:                 id,
		CurrentStep:               w.Step().String(),
		StepIndex:                 int(w.Step()),
		TotalSteps:                onboarding.TotalSteps,
		Steps:                     onboarding.StepNames(),
		Draft:                     w.Draft(),
		CancelConfirmationVisible: w.CancelConfirmationVisible(),
		CanAdvance:                w.CanAdvance(),
	}
}

// onboardingError 将状态机错误映射为业务错误，BlockedError 原样返回以携带字段信息。
func onboardingError(err error) error {
	switch {
	case stderrors.Is(err, onboarding.ErrNoNextStep):
		return errors.OnboardingNoNextStep
	case stderrors.Is(err, onboarding.ErrNotFinalStep):
		return errors.OnboardingNotFinalStep
	case stderrors.Is(err, onboarding.ErrInvalidState):
		return errors.OnboardingSessionNotFound
	default:
		return err
	}
}

func validatePatch(p onboarding.DraftPatch) error {
	for platform := range p.SocialHandles {
		if !onboarding.KnownPlatform(platform) {
			return errors.InvalidPlatform
		}
	}
	if p.Interests != nil {
		for _, interest := range *p.Interests {
			if !catalog.HasInterest(interest) {
				return errors.InterestUnknown
			}
		}
	}
	if p.JoinedSpaceIDs != nil {
		for _, id := range *p.JoinedSpaceIDs {
			if !catalog.HasSpace(id) {
				return errors.SpaceNotFound
			}
		}
	}
	return nil
}
