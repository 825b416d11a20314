package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"CommunitySpaces/internal/cache"
	"CommunitySpaces/internal/model"
	"CommunitySpaces/internal/repository"
	"CommunitySpaces/pkg/errors"
	"CommunitySpaces/pkg/token"
)

type memSessions struct {
	mu   sync.Mutex
	data map[string]cache.OnboardingSession
}

func newMemSessions() *memSessions {
	return &memSessions{data: map[string]cache.OnboardingSession{}}
}

func (m *memSessions) Save(ctx context.Context, id string, sess cache.OnboardingSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[id] = sess
	return nil
}

func (m *memSessions) Load(ctx context.Context, id string) (cache.OnboardingSession, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.data[id]
	return sess, ok, nil
}

func (m *memSessions) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

type memLocker struct {
	held map[string]string
}

func (l *memLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	if l.held == nil {
		l.held = map[string]string{}
	}
	if _, ok := l.held[key]; ok {
		return "", false, nil
	}
	l.held[key] = "owner-" + key
	return l.held[key], true, nil
}

func (l *memLocker) Unlock(ctx context.Context, key, owner string) error {
	if l.held[key] == owner {
		delete(l.held, key)
	}
	return nil
}

type recordingPublisher struct {
	msgs []model.ProfileOnboardedMessage
	err  error
}

func (p *recordingPublisher) PublishProfileOnboarded(ctx context.Context, msg model.ProfileOnboardedMessage) error {
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msg)
	return nil
}

// stubIssuer 生成可读的假令牌，refresh token 每次签发都不同
type stubIssuer struct {
	n int
}

func (s *stubIssuer) Issue(subject string) (token.Pair, error) {
	s.n++
	return token.Pair{
		AccessToken:  "access." + subject,
		RefreshToken: fmt.Sprintf("refresh.%s.%d", subject, s.n),
		ExpiresIn:    1800,
	}, nil
}

func (s *stubIssuer) ParseRefresh(tokenString string) (string, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 || parts[0] != "refresh" {
		return "", errors.RefreshTokenInvalid
	}
	return parts[1], nil
}

type memRefresh struct {
	tokens map[string]string
}

func newMemRefresh() *memRefresh { return &memRefresh{tokens: map[string]string{}} }

func (m *memRefresh) Set(ctx context.Context, subject, refreshToken string) error {
	m.tokens[subject] = refreshToken
	return nil
}

func (m *memRefresh) Matches(ctx context.Context, subject, refreshToken string) (bool, error) {
	return m.tokens[subject] == refreshToken, nil
}

func (m *memRefresh) Delete(ctx context.Context, subject string) error {
	delete(m.tokens, subject)
	return nil
}

type memProfiles struct {
	byID      map[int64]*model.Profile
	nextRowID int64
	createErr error
}

func newMemProfiles() *memProfiles { return &memProfiles{byID: map[int64]*model.Profile{}} }

func (m *memProfiles) Create(ctx context.Context, p *model.Profile) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, have := range m.byID {
		if have.Handle == p.Handle {
			return errors.ProfileHandleTaken
		}
	}
	m.nextRowID++
	p.ID = m.nextRowID
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memProfiles) Update(ctx context.Context, p *model.Profile) error {
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memProfiles) GetByHandle(ctx context.Context, handle string) (*model.Profile, error) {
	for _, p := range m.byID {
		if p.Handle == handle {
			cp := *p
			return &cp, nil
		}
	}
	return nil, errors.ProfileNotFound
}

func (m *memProfiles) GetByPublicID(ctx context.Context, publicID int64) (*model.Profile, error) {
	for _, p := range m.byID {
		if p.PublicID == publicID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, errors.ProfileNotFound
}

func (m *memProfiles) HandleExists(ctx context.Context, handle string) (bool, error) {
	_, err := m.GetByHandle(ctx, handle)
	return err == nil, nil
}

func (m *memProfiles) add(p model.Profile) *model.Profile {
	m.nextRowID++
	p.ID = m.nextRowID
	m.byID[p.ID] = &p
	return &p
}

type memProjects struct {
	rows      map[int64]*model.Project
	lastQuery repository.FeedQuery
}

func newMemProjects() *memProjects { return &memProjects{rows: map[int64]*model.Project{}} }

func (m *memProjects) Create(ctx context.Context, p *model.Project) error {
	p.ID = int64(len(m.rows) + 1)
	cp := *p
	m.rows[p.PublicID] = &cp
	return nil
}

func (m *memProjects) Update(ctx context.Context, p *model.Project) error {
	cp := *p
	m.rows[p.PublicID] = &cp
	return nil
}

func (m *memProjects) Delete(ctx context.Context, ownerID, publicID int64) error {
	p, ok := m.rows[publicID]
	if !ok || p.OwnerID != ownerID {
		return errors.ProjectNotFound
	}
	delete(m.rows, publicID)
	return nil
}

func (m *memProjects) GetByPublicID(ctx context.Context, publicID int64) (*model.Project, error) {
	p, ok := m.rows[publicID]
	if !ok {
		return nil, errors.ProjectNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProjects) ListByOwner(ctx context.Context, ownerID int64) ([]model.Project, error) {
	var out []model.Project
	for _, p := range m.rows {
		if p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProjects) Feed(ctx context.Context, q repository.FeedQuery) ([]model.Project, error) {
	m.lastQuery = q
	var out []model.Project
	for _, p := range m.rows {
		out = append(out, *p)
	}
	return out, nil
}

func (m *memProjects) IncrementViews(ctx context.Context, publicID int64) (int64, error) {
	p, ok := m.rows[publicID]
	if !ok {
		return 0, errors.ProjectNotFound
	}
	p.Views++
	return p.Views, nil
}

type memSpaceMembers struct {
	counts   map[string]int64
	profiles map[string][]model.Profile
	calls    int
}

func (m *memSpaceMembers) AddMembers(ctx context.Context, profileID int64, spaceIDs []string) (int64, error) {
	return int64(len(spaceIDs)), nil
}

func (m *memSpaceMembers) CountBySpace(ctx context.Context) (map[string]int64, error) {
	m.calls++
	out := make(map[string]int64, len(m.counts))
	for k, v := range m.counts {
		out[k] = v
	}
	return out, nil
}

func (m *memSpaceMembers) ListProfiles(ctx context.Context, spaceID string, limit int) ([]model.Profile, error) {
	return m.profiles[spaceID], nil
}

// memCache 以 JSON 之外的方式模拟 ObjectCache：直接保存值的副本
type memCache struct {
	values map[string]interface{}
	gets   int
}

func newMemCache() *memCache { return &memCache{values: map[string]interface{}{}} }

func (c *memCache) Get(ctx context.Context, key string, dest interface{}) (bool, bool, error) {
	c.gets++
	v, ok := c.values[key]
	if !ok {
		return false, false, nil
	}
	if v == nil {
		return true, true, nil
	}
	switch d := dest.(type) {
	case *model.Profile:
		*d = v.(model.Profile)
	case *map[string]int64:
		*d = v.(map[string]int64)
	default:
		return false, false, fmt.Errorf("unsupported cache type %T", dest)
	}
	return true, false, nil
}

func (c *memCache) Set(ctx context.Context, key string, value interface{}) error {
	switch v := value.(type) {
	case nil:
		c.values[key] = nil
	case *model.Profile:
		c.values[key] = *v
	default:
		c.values[key] = v
	}
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	delete(c.values, key)
	return nil
}
