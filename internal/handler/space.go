package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"CommunitySpaces/internal/service"
	"CommunitySpaces/pkg/response"
)

var spaceService = service.Space

// ListSpaces 社区空间及成员数
// GET /v1/spaces
func ListSpaces(ctx context.Context, c *app.RequestContext) {
	list, err := spaceService().List(ctx)
	if err != nil {
		writeError(ctx, c, err)
		return
	}
	response.Success(ctx, c, list)
}

// GetSpace 空间详情
// GET /v1/spaces/:space_id
func GetSpace(ctx context.Context, c *app.RequestContext) {
	detail, err := spaceService().Get(ctx, c.Param("space_id"))
	if err != nil {
		writeError(ctx, c, err)
		return
	}
	response.Success(ctx, c, detail)
}

// ListInterests 兴趣目录
// GET /v1/interests
func ListInterests(ctx context.Context, c *app.RequestContext) {
	response.Success(ctx, c, spaceService().Interests())
}
