package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"CommunitySpaces/internal/middleware"
	"CommunitySpaces/internal/model/dto"
	"CommunitySpaces/internal/service"
	"CommunitySpaces/pkg/errors"
	"CommunitySpaces/pkg/response"
)

var (
	projectService = service.Project
	// 浏览去重依赖 cookie 会话，测试中替换
	markProjectViewed = middleware.MarkProjectViewed
)

// ListProjects 项目流
// GET /v1/projects?category=&filter=&sort=
func ListProjects(ctx context.Context, c *app.RequestContext) {
	var q dto.ProjectFeedQuery
	if err := c.BindQuery(&q); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	list, err := projectService().Feed(ctx, &q)
	if err != nil {
		writeError(ctx, c, err)
		return
	}
	response.SuccessWithMeta(ctx, c, list, map[string]interface{}{
		"count": len(list),
	})
}

// GetProject 项目详情，同一浏览器会话只计一次浏览
// GET /v1/projects/:project_id
func GetProject(ctx context.Context, c *app.RequestContext) {
	id := c.Param("project_id")

	project, err := projectService().Get(ctx, id, markProjectViewed(c, id))
	if err != nil {
		writeError(ctx, c, err)
		return
	}
	response.Success(ctx, c, project)
}

// ListMyProjects 我的项目
// GET /v1/me/projects
func ListMyProjects(ctx context.Context, c *app.RequestContext) {
	pid, ok := middleware.GetProfileID(ctx, c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	list, err := projectService().ListMine(ctx, pid)
	if err != nil {
		writeError(ctx, c, err)
		return
	}
	response.Success(ctx, c, list)
}

// CreateProject 发布项目
// POST /v1/me/projects
func CreateProject(ctx context.Context, c *app.RequestContext) {
	pid, ok := middleware.GetProfileID(ctx, c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	var req dto.ProjectRequest
	if err := c.BindJSON(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	project, err := projectService().Create(ctx, pid, &req)
	if err != nil {
		writeError(ctx, c, err)
		return
	}
	response.Created(ctx, c, project)
}

// UpdateProject 修改项目
// PUT /v1/me/projects/:project_id
func UpdateProject(ctx context.Context, c *app.RequestContext) {
	pid, ok := middleware.GetProfileID(ctx, c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	var req dto.ProjectRequest
	if err := c.BindJSON(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	project, err := projectService().Update(ctx, pid, c.Param("project_id"), &req)
	if err != nil {
		writeError(ctx, c, err)
		return
	}
	response.Success(ctx, c, project)
}

// DeleteProject 删除项目
// DELETE /v1/me/projects/:project_id
func DeleteProject(ctx context.Context, c *app.RequestContext) {
	pid, ok := middleware.GetProfileID(ctx, c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	if err := projectService().Delete(ctx, pid, c.Param("project_id")); err != nil {
		writeError(ctx, c, err)
		return
	}
	response.NoContent(ctx, c)
}
