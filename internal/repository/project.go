package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"CommunitySpaces/internal/model"
	apperrors "CommunitySpaces/pkg/errors"
)

// FeedFilter 项目流的快捷筛选
type FeedFilter string

const (
	FeedFilterAll      FeedFilter = "all"
	FeedFilterTrending FeedFilter = "trending"
	FeedFilterNew      FeedFilter = "new"
)

// FeedSort 项目流排序
type FeedSort string

const (
	FeedSortRecent    FeedSort = "recent"
	FeedSortPopular   FeedSort = "popular"
	FeedSortCommented FeedSort = "commented"
	FeedSortViewed    FeedSort = "viewed"
)

// AllCategories 表示不按分类过滤
const AllCategories = "All Categories"

var filterColumns = map[FeedFilter]string{
	FeedFilterAll:      "",
	FeedFilterTrending: "likes",
	FeedFilterNew:      "created_at",
}

var sortColumns = map[FeedSort]string{
	FeedSortRecent:    "created_at",
	FeedSortPopular:   "likes",
	FeedSortCommented: "comments",
	FeedSortViewed:    "views",
}

// ParseFeedFilter 空串视为 all
func ParseFeedFilter(s string) (FeedFilter, bool) {
	if s == "" {
		return FeedFilterAll, true
	}
	f := FeedFilter(s)
	_, ok := filterColumns[f]
	return f, ok
}

// ParseFeedSort 空串视为 recent
func ParseFeedSort(s string) (FeedSort, bool) {
	if s == "" {
		return FeedSortRecent, true
	}
	so := FeedSort(s)
	_, ok := sortColumns[so]
	return so, ok
}

// FeedQuery 项目流查询条件，Filter 与 Sort 需已校验。
type FeedQuery struct {
	Category string
	Filter   FeedFilter
	Sort     FeedSort
	Limit    int
	Offset   int
}

// FeedOrder 排序字段为主序，筛选隐含的排序为次序，最后按 id 保证稳定。
func FeedOrder(filter FeedFilter, sort FeedSort) []string {
	cols := []string{sortColumns[sort]}
	if c := filterColumns[filter]; c != "" && c != cols[0] {
		cols = append(cols, c)
	}

	out := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		out = append(out, c+" DESC")
	}
	return append(out, "id DESC")
}

// ProjectRepository 项目持久化
type ProjectRepository interface {
	Create(ctx context.Context, p *model.Project) error
	Update(ctx context.Context, p *model.Project) error
	Delete(ctx context.Context, ownerID, publicID int64) error
	GetByPublicID(ctx context.Context, publicID int64) (*model.Project, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Project, error)
	Feed(ctx context.Context, q FeedQuery) ([]model.Project, error)
	IncrementViews(ctx context.Context, publicID int64) (int64, error)
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, p *model.Project) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

func (r *projectRepository) Update(ctx context.Context, p *model.Project) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}

func (r *projectRepository) Delete(ctx context.Context, ownerID, publicID int64) error {
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND public_id = ?", ownerID, publicID).
		Delete(&model.Project{})
	if result.Error != nil {
		return fmt.Errorf("delete project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ProjectNotFound
	}
	return nil
}

func (r *projectRepository) GetByPublicID(ctx context.Context, publicID int64) (*model.Project, error) {
	var p model.Project
	err := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}

func (r *projectRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Project, error) {
	var out []model.Project
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return out, nil
}

func (r *projectRepository) Feed(ctx context.Context, q FeedQuery) ([]model.Project, error) {
	tx := r.db.WithContext(ctx).Model(&model.Project{})

	if q.Category != "" && q.Category != AllCategories {
		contains, err := json.Marshal([]string{q.Category})
		if err != nil {
			return nil, err
		}
		tx = tx.Where("categories @> ?::jsonb", string(contains))
	}

	for _, o := range FeedOrder(q.Filter, q.Sort) {
		tx = tx.Order(o)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}

	var out []model.Project
	if err := tx.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("project feed: %w", err)
	}
	return out, nil
}

// IncrementViews 原子加一并返回新的浏览数
func (r *projectRepository) IncrementViews(ctx context.Context, publicID int64) (int64, error) {
	var p model.Project
	result := r.db.WithContext(ctx).
		Model(&p).
		Where("public_id = ?", publicID).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if result.Error != nil {
		return 0, fmt.Errorf("increment views: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, apperrors.ProjectNotFound
	}

	if err := r.db.WithContext(ctx).Select("views").Where("public_id = ?", publicID).First(&p).Error; err != nil {
		return 0, fmt.Errorf("read views: %w", err)
	}
	return p.Views, nil
}
