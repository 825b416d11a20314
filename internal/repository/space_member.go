package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"CommunitySpaces/internal/model"
)

// SpaceMemberRepository 空间成员关系
type SpaceMemberRepository interface {
	// AddMembers 幂等写入，返回实际新增的条数
	AddMembers(ctx context.Context, profileID int64, spaceIDs []string) (int64, error)
	CountBySpace(ctx context.Context) (map[string]int64, error)
	// ListProfiles 最近加入该空间的成员
	ListProfiles(ctx context.Context, spaceID string, limit int) ([]model.Profile, error)
}

type spaceMemberRepository struct {
	db *gorm.DB
}

func NewSpaceMemberRepository(db *gorm.DB) SpaceMemberRepository {
	return &spaceMemberRepository{db: db}
}

func (r *spaceMemberRepository) AddMembers(ctx context.Context, profileID int64, spaceIDs []string) (int64, error) {
	if len(spaceIDs) == 0 {
		return 0, nil
	}

	rows := make([]model.SpaceMember, 0, len(spaceIDs))
	for _, id := range spaceIDs {
		rows = append(rows, model.SpaceMember{ProfileID: profileID, SpaceID: id})
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows)
	if result.Error != nil {
		return 0, fmt.Errorf("add space members: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *spaceMemberRepository) CountBySpace(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		SpaceID string
		Members int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.SpaceMember{}).
		Select("space_id, COUNT(*) AS members").
		Group("space_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count space members: %w", err)
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.SpaceID] = row.Members
	}
	return out, nil
}

func (r *spaceMemberRepository) ListProfiles(ctx context.Context, spaceID string, limit int) ([]model.Profile, error) {
	var out []model.Profile
	err := r.db.WithContext(ctx).
		Joins("JOIN space_members ON space_members.profile_id = profiles.id").
		Where("space_members.space_id = ?", spaceID).
		Order("space_members.joined_at DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list space profiles: %w", err)
	}
	return out, nil
}
