package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"CommunitySpaces/internal/model"
	apperrors "CommunitySpaces/pkg/errors"
)

// ProfileRepository 成员资料持久化
type ProfileRepository interface {
	Create(ctx context.Context, p *model.Profile) error
	Update(ctx context.Context, p *model.Profile) error
	GetByHandle(ctx context.Context, handle string) (*model.Profile, error)
	GetByPublicID(ctx context.Context, publicID int64) (*model.Profile, error)
	HandleExists(ctx context.Context, handle string) (bool, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// Create 用户名冲突时返回 ProfileHandleTaken
func (r *profileRepository) Create(ctx context.Context, p *model.Profile) error {
	err := r.db.WithContext(ctx).Create(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.ProfileHandleTaken
	}
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

func (r *profileRepository) Update(ctx context.Context, p *model.Profile) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

func (r *profileRepository) GetByHandle(ctx context.Context, handle string) (*model.Profile, error) {
	return r.first(ctx, "handle = ?", handle)
}

func (r *profileRepository) GetByPublicID(ctx context.Context, publicID int64) (*model.Profile, error) {
	return r.first(ctx, "public_id = ?", publicID)
}

func (r *profileRepository) HandleExists(ctx context.Context, handle string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Profile{}).Where("handle = ?", handle).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check handle: %w", err)
	}
	return count > 0, nil
}

func (r *profileRepository) first(ctx context.Context, query string, args ...interface{}) (*model.Profile, error) {
	var p model.Profile
	err := r.db.WithContext(ctx).Where(query, args...).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}
