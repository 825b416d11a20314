package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"CommunitySpaces/internal/catalog"
	"CommunitySpaces/internal/model"
	"CommunitySpaces/internal/model/dto"
	"CommunitySpaces/internal/onboarding"
	"CommunitySpaces/internal/repository"
	"CommunitySpaces/pkg/errors"
	"CommunitySpaces/pkg/logger"
	"CommunitySpaces/pkg/snowflake"
	"CommunitySpaces/storage/database"
	"CommunitySpaces/utils"
)

const (
	defaultFeedLimit = 20
	maxFeedLimit     = 100
)

var (
	projectService *ProjectService
	projectOnce    sync.Once
)

func Project() *ProjectService {
	projectOnce.Do(func() {
		db := database.DB()
		projectService = NewProjectService(
			repository.NewProjectRepository(db),
			repository.NewProfileRepository(db),
			snowflake.NextID,
			time.Now,
		)
	})
	return projectService
}

// ProjectService 成员作品的发布、维护与项目流
type ProjectService struct {
	projects repository.ProjectRepository
	profiles repository.ProfileRepository
	nextID   func() (int64, error)
	now      func() time.Time
}

func NewProjectService(projects repository.ProjectRepository, profiles repository.ProfileRepository, nextID func() (int64, error), now func() time.Time) *ProjectService {
	return &ProjectService{projects: projects, profiles: profiles, nextID: nextID, now: now}
}

func (s *ProjectService) Create(ctx context.Context, subject string, req *dto.ProjectRequest) (*dto.ProjectData, error) {
	owner, err := s.owner(ctx, subject)
	if err != nil {
		return nil, err
	}
	if err := invalid(errors.ProjectInvalid, projectViolations(req)); err != nil {
		return nil, err
	}

	publicID, err := s.nextID()
	if err != nil {
		return nil, err
	}

	p := &model.Project{PublicID: publicID, OwnerID: owner.ID}
	applyProjectRequest(p, req)
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, err
	}

	logger.Logger.Info("Project created",
		zap.Int64("project_id", p.PublicID),
		zap.String("owner", owner.Handle),
	)

	data := s.toProjectData(p, owner.Handle)
	return &data, nil
}

func (s *ProjectService) Update(ctx context.Context, subject, projectID string, req *dto.ProjectRequest) (*dto.ProjectData, error) {
	owner, err := s.owner(ctx, subject)
	if err != nil {
		return nil, err
	}
	p, err := s.get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != owner.ID {
		return nil, errors.Forbidden
	}
	if err := invalid(errors.ProjectInvalid, projectViolations(req)); err != nil {
		return nil, err
	}

	applyProjectRequest(p, req)
	if err := s.projects.Update(ctx, p); err != nil {
		return nil, err
	}

	data := s.toProjectData(p, owner.Handle)
	return &data, nil
}

// Delete 只能删除自己的项目，他人项目按不存在处理
func (s *ProjectService) Delete(ctx context.Context, subject, projectID string) error {
	owner, err := s.owner(ctx, subject)
	if err != nil {
		return err
	}
	publicID, ok := snowflake.ParseID(projectID)
	if !ok {
		return errors.ProjectNotFound
	}
	if err := s.projects.Delete(ctx, owner.ID, publicID); err != nil {
		return err
	}

	logger.Logger.Info("Project deleted", zap.Int64("project_id", publicID), zap.String("owner", owner.Handle))
	return nil
}

func (s *ProjectService) ListMine(ctx context.Context, subject string) ([]dto.ProjectData, error) {
	owner, err := s.owner(ctx, subject)
	if err != nil {
		return nil, err
	}
	list, err := s.projects.ListByOwner(ctx, owner.ID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ProjectData, 0, len(list))
	for i := range list {
		out = append(out, s.toProjectData(&list[i], owner.Handle))
	}
	return out, nil
}

// Feed 按分类、快捷筛选与排序浏览项目
func (s *ProjectService) Feed(ctx context.Context, q *dto.ProjectFeedQuery) ([]dto.ProjectData, error) {
	filter, ok := repository.ParseFeedFilter(q.Filter)
	if !ok {
		return nil, errors.ProjectFilterUnknown
	}
	sort, ok := repository.ParseFeedSort(q.Sort)
	if !ok {
		return nil, errors.ProjectFilterUnknown
	}
	if q.Category != "" && q.Category != repository.AllCategories && !catalog.HasProjectCategory(q.Category) {
		return nil, errors.ProjectFilterUnknown
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	list, err := s.projects.Feed(ctx, repository.FeedQuery{
		Category: q.Category,
		Filter:   filter,
		Sort:     sort,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return nil, err
	}

	out := make([]dto.ProjectData, 0, len(list))
	for i := range list {
		out = append(out, s.toProjectData(&list[i], ""))
	}
	return out, nil
}

// Get 项目详情，countView 为 true 时浏览数加一
func (s *ProjectService) Get(ctx context.Context, projectID string, countView bool) (*dto.ProjectData, error) {
	p, err := s.get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if countView {
		views, err := s.projects.IncrementViews(ctx, p.PublicID)
		if err != nil {
			// 浏览数失败不影响详情展示
			logger.Logger.Warn("Failed to record project view", zap.Int64("project_id", p.PublicID), zap.Error(err))
		} else {
			p.Views = views
		}
	}

	data := s.toProjectData(p, "")
	return &data, nil
}

func (s *ProjectService) owner(ctx context.Context, subject string) (*model.Profile, error) {
	publicID, ok := snowflake.ParseID(subject)
	if !ok {
		return nil, errors.InvalidProfileID
	}
	return s.profiles.GetByPublicID(ctx, publicID)
}

func (s *ProjectService) get(ctx context.Context, projectID string) (*model.Project, error) {
	publicID, ok := snowflake.ParseID(projectID)
	if !ok {
		return nil, errors.ProjectNotFound
	}
	return s.projects.GetByPublicID(ctx, publicID)
}

func (s *ProjectService) toProjectData(p *model.Project, ownerHandle string) dto.ProjectData {
	return dto.ProjectData{
		ID:               snowflake.FormatID(p.PublicID),
		OwnerHandle:      ownerHandle,
		Title:            p.Title,
		Description:      p.Description,
		LongDescription:  p.LongDescription,
		Image:            p.Image,
		AdditionalImages: nonNil(p.AdditionalImages),
		Categories:       nonNil(p.Categories),
		Technologies:     nonNil(p.Technologies),
		Tags:             nonNil(p.Tags),
		DemoURL:          p.DemoURL,
		RepoURL:          p.RepoURL,
		Likes:            p.Likes,
		Comments:         p.Comments,
		Views:            p.Views,
		CreatedAt:        p.CreatedAt,
		LastUpdated:      p.UpdatedAt,
		CreatedLabel:     utils.FormatRelative(s.now(), p.CreatedAt),
	}
}

func applyProjectRequest(p *model.Project, req *dto.ProjectRequest) {
	p.Title = strings.TrimSpace(req.Title)
	p.Description = strings.TrimSpace(req.Description)
	p.LongDescription = req.LongDescription
	p.Image = req.Image
	p.AdditionalImages = model.StringList(req.AdditionalImages)
	p.Categories = model.StringList(req.Categories)
	p.Technologies = model.StringList(req.Technologies)
	p.Tags = model.StringList(req.Tags)
	p.DemoURL = strings.TrimSpace(req.DemoURL)
	p.RepoURL = strings.TrimSpace(req.RepoURL)
}

func projectViolations(req *dto.ProjectRequest) []onboarding.Violation {
	var out []onboarding.Violation
	add := func(field, msg string) {
		out = append(out, onboarding.Violation{Field: field, Message: msg})
	}

	if strings.TrimSpace(req.Title) == "" {
		add("title", "Title is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		add("description", "Description is required")
	}

	if len(req.Categories) == 0 {
		add("categories", "Select at least one category")
	}
	for _, c := range req.Categories {
		if !catalog.HasProjectCategory(c) {
			add("categories", "Unknown category: "+c)
		}
	}

	if len(req.Technologies) == 0 {
		add("technologies", "Select at least one technology")
	}
	for _, t := range req.Technologies {
		if !catalog.HasTechnology(t) {
			add("technologies", "Unknown technology: "+t)
		}
	}

	if strings.TrimSpace(req.Image) == "" {
		add("image", "At least one image is required")
	}
	if req.DemoURL != "" && !utils.ValidateURL(req.DemoURL) {
		add("demo_url", "Demo URL is invalid")
	}
	if req.RepoURL != "" && !utils.ValidateURL(req.RepoURL) {
		add("repo_url", "Repository URL is invalid")
	}
	return out
}
