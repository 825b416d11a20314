package service

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"CommunitySpaces/config"
	"CommunitySpaces/internal/cache"
	"CommunitySpaces/internal/catalog"
	"CommunitySpaces/internal/model"
	"CommunitySpaces/internal/model/dto"
	"CommunitySpaces/internal/onboarding"
	"CommunitySpaces/internal/repository"
	"CommunitySpaces/pkg/errors"
	"CommunitySpaces/pkg/logger"
	"CommunitySpaces/pkg/snowflake"
	"CommunitySpaces/storage/database"
)

var (
	profileService *ProfileService
	profileOnce    sync.Once
)

func Profile() *ProfileService {
	profileOnce.Do(func() {
		profileService = NewProfileService(
			repository.NewProfileRepository(database.DB()),
			cache.NewProtectedCache("profile:handle", config.Cfg.ProfileCacheTTL),
		)
	})
	return profileService
}

// ProfileService 成员资料读写，公开读取走 Redis 缓存
type ProfileService struct {
	repo  repository.ProfileRepository
	cache ObjectCache
}

func NewProfileService(repo repository.ProfileRepository, c ObjectCache) *ProfileService {
	return &ProfileService{repo: repo, cache: c}
}

// GetByHandle 公开资料，不包含邮箱
func (s *ProfileService) GetByHandle(ctx context.Context, handle string) (*dto.ProfileData, error) {
	handle = onboarding.NormalizeHandle(handle)

	var cached model.Profile
	hit, empty, err := s.cache.Get(ctx, handle, &cached)
	if err != nil {
		// 缓存不可用时直接读库
		logger.Logger.Warn("Profile cache unavailable", zap.String("handle", handle), zap.Error(err))
	}
	if hit {
		if empty {
			return nil, errors.ProfileNotFound
		}
		data := toProfileData(&cached, false)
		return &data, nil
	}

	p, err := s.repo.GetByHandle(ctx, handle)
	if stderrors.Is(err, errors.ProfileNotFound) {
		if cerr := s.cache.Set(ctx, handle, nil); cerr != nil {
			logger.Logger.Warn("Failed to cache missing profile", zap.String("handle", handle), zap.Error(cerr))
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	if cerr := s.cache.Set(ctx, handle, p); cerr != nil {
		logger.Logger.Warn("Failed to cache profile", zap.String("handle", handle), zap.Error(cerr))
	}

	data := toProfileData(p, false)
	return &data, nil
}

// GetMe 当前登录成员的完整资料
func (s *ProfileService) GetMe(ctx context.Context, subject string) (*dto.ProfileData, error) {
	p, err := s.load(ctx, subject)
	if err != nil {
		return nil, err
	}
	data := toProfileData(p, true)
	return &data, nil
}

// UpdateMe 部分更新资料，用户名不可修改
func (s *ProfileService) UpdateMe(ctx context.Context, subject string, req *dto.UpdateProfileRequest) (*dto.ProfileData, error) {
	p, err := s.load(ctx, subject)
	if err != nil {
		return nil, err
	}

	applyProfileUpdate(p, req)
	if err := invalid(errors.ProfileInvalid, profileViolations(p)); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	if err := s.cache.Delete(ctx, p.Handle); err != nil {
		logger.Logger.Warn("Failed to invalidate profile cache", zap.String("handle", p.Handle), zap.Error(err))
	}

	logger.Logger.Info("Profile updated", zap.Int64("public_id", p.PublicID))

	data := toProfileData(p, true)
	return &data, nil
}

func (s *ProfileService) load(ctx context.Context, subject string) (*model.Profile, error) {
	publicID, ok := snowflake.ParseID(subject)
	if !ok {
		return nil, errors.InvalidProfileID
	}
	return s.repo.GetByPublicID(ctx, publicID)
}

func applyProfileUpdate(p *model.Profile, req *dto.UpdateProfileRequest) {
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Bio != nil {
		p.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		p.AvatarURL = *req.AvatarURL
	}
	if req.Location != nil {
		p.Location = *req.Location
	}
	if req.Email != nil {
		p.Email = *req.Email
	}
	if len(req.SocialHandles) > 0 {
		handles := make(model.SocialHandles, len(p.SocialHandles)+len(req.SocialHandles))
		for k, v := range p.SocialHandles {
			handles[k] = v
		}
		// 空字符串表示移除该平台
		for k, v := range req.SocialHandles {
			if v == "" {
				delete(handles, k)
				continue
			}
			handles[k] = v
		}
		p.SocialHandles = handles
	}
	if req.Skills != nil {
		p.Skills = model.StringList(*req.Skills)
	}
	if req.Interests != nil {
		p.Interests = model.StringList(*req.Interests)
	}
}

func profileViolations(p *model.Profile) []onboarding.Violation {
	var out []onboarding.Violation

	if strings.TrimSpace(p.Name) == "" {
		out = append(out, onboarding.Violation{Field: "name", Message: "Full Name is required"})
	}
	if !onboarding.ValidEmail(strings.TrimSpace(p.Email)) {
		out = append(out, onboarding.Violation{Field: "email", Message: "Email is invalid"})
	}
	for platform := range p.SocialHandles {
		if !onboarding.KnownPlatform(platform) {
			out = append(out, onboarding.Violation{Field: "social_handles", Message: "Unsupported social platform: " + platform})
		}
	}
	for _, interest := range p.Interests {
		if !catalog.HasInterest(interest) {
			out = append(out, onboarding.Violation{Field: "interests", Message: "Unknown interest: " + interest})
		}
	}
	return out
}

func toProfileData(p *model.Profile, private bool) dto.ProfileData {
	data := dto.ProfileData{
		ID:            snowflake.FormatID(p.PublicID),
		Name:          p.Name,
		Handle:        p.Handle,
		Title:         p.Title,
		Bio:           p.Bio,
		AvatarURL:     p.AvatarURL,
		Location:      p.Location,
		SocialHandles: map[string]string(p.SocialHandles),
		Skills:        nonNil(p.Skills),
		Interests:     nonNil(p.Interests),
		JoinedSpaces:  nonNil(p.JoinedSpaces),
		CreatedAt:     p.CreatedAt,
	}
	if data.SocialHandles == nil {
		data.SocialHandles = map[string]string{}
	}
	if private {
		data.Email = p.Email
	}
	return data
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
