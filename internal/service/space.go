package service

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"CommunitySpaces/internal/cache"
	"CommunitySpaces/internal/catalog"
	"CommunitySpaces/internal/model/dto"
	"CommunitySpaces/internal/repository"
	"CommunitySpaces/pkg/errors"
	"CommunitySpaces/pkg/logger"
	"CommunitySpaces/storage/database"
)

const spaceRecentMembers = 12

var (
	spaceService *SpaceService
	spaceOnce    sync.Once
)

func Space() *SpaceService {
	spaceOnce.Do(func() {
		spaceService = NewSpaceService(
			repository.NewSpaceMemberRepository(database.DB()),
			cache.SpaceMemberCountCache,
		)
	})
	return spaceService
}

// SpaceService 空间目录与成员数
type SpaceService struct {
	members repository.SpaceMemberRepository
	counts  ObjectCache
}

func NewSpaceService(members repository.SpaceMemberRepository, counts ObjectCache) *SpaceService {
	return &SpaceService{members: members, counts: counts}
}

// List 全部空间，成员数 = 初始成员数 + 引导后加入数
func (s *SpaceService) List(ctx context.Context) ([]dto.SpaceData, error) {
	counts, err := s.joinedCounts(ctx)
	if err != nil {
		return nil, err
	}

	list := catalog.Spaces()
	out := make([]dto.SpaceData, 0, len(list))
	for _, sp := range list {
		out = append(out, toSpaceData(sp, counts))
	}
	return out, nil
}

func (s *SpaceService) Get(ctx context.Context, spaceID string) (*dto.SpaceDetail, error) {
	sp, ok := catalog.SpaceByID(spaceID)
	if !ok {
		return nil, errors.SpaceNotFound
	}

	var (
		counts  map[string]int64
		members []dto.ProfileData
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = s.joinedCounts(gctx)
		return err
	})
	g.Go(func() error {
		profiles, err := s.members.ListProfiles(gctx, spaceID, spaceRecentMembers)
		if err != nil {
			return err
		}
		members = make([]dto.ProfileData, 0, len(profiles))
		for i := range profiles {
			members = append(members, toProfileData(&profiles[i], false))
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dto.SpaceDetail{SpaceData: toSpaceData(sp, counts), RecentMembers: members}, nil
}

// Interests 兴趣目录
func (s *SpaceService) Interests() []catalog.InterestCategory {
	return catalog.InterestCategories()
}

func (s *SpaceService) joinedCounts(ctx context.Context) (map[string]int64, error) {
	var counts map[string]int64
	hit, empty, err := s.counts.Get(ctx, cache.SpaceMemberCountKey, &counts)
	if err != nil {
		logger.Logger.Warn("Space member count cache unavailable", zap.Error(err))
	}
	if hit && !empty {
		return counts, nil
	}

	counts, err = s.members.CountBySpace(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.counts.Set(ctx, cache.SpaceMemberCountKey, counts); err != nil {
		logger.Logger.Warn("Failed to cache space member counts", zap.Error(err))
	}
	return counts, nil
}

func toSpaceData(sp catalog.Space, joined map[string]int64) dto.SpaceData {
	return dto.SpaceData{
		ID:          sp.ID,
		Name:        sp.Name,
		Description: sp.Description,
		Members:     int64(sp.BaseMembers) + joined[sp.ID],
		Image:       sp.Image,
	}
}
