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

var profileService = service.Profile

// GetProfile 公开资料
// GET /v1/profiles/:handle
func GetProfile(ctx context.Context, c *app.RequestContext) {
	profile, err := profileService().GetByHandle(ctx, c.Param("handle"))
	if err != nil {
		writeError(ctx, c, err)
		return
	}
	response.Success(ctx, c, profile)
}

// GetMyProfile 当前成员资料
// GET /v1/me
func GetMyProfile(ctx context.Context, c *app.RequestContext) {
	pid, ok := middleware.GetProfileID(ctx, c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	profile, err := profileService().GetMe(ctx, pid)
	if err != nil {
		writeError(ctx, c, err)
		return
	}
	response.Success(ctx, c, profile)
}

// UpdateMyProfile 更新资料
// PUT /v1/me
func UpdateMyProfile(ctx context.Context, c *app.RequestContext) {
	pid, ok := middleware.GetProfileID(ctx, c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.BindJSON(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	profile, err := profileService().UpdateMe(ctx, pid, &req)
	if err != nil {
		writeError(ctx, c, err)
		return
	}
	response.Success(ctx, c, profile)
}
