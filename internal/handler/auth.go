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

var authService = service.Auth

// RefreshToken 刷新访问令牌
// POST /v1/auth/token/refresh
func RefreshToken(ctx context.Context, c *app.RequestContext) {
	var req dto.RefreshTokenRequest
	if err := c.BindJSON(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}
	if req.RefreshToken == "" {
		response.Error(ctx, c, errors.RefreshTokenInvalid)
		return
	}

	pair, err := authService().Refresh(ctx, req.RefreshToken)
	if err != nil {
		writeError(ctx, c, err)
		return
	}
	response.Success(ctx, c, pair)
}

// Logout 注销当前 refresh token
// POST /v1/auth/logout
func Logout(ctx context.Context, c *app.RequestContext) {
	pid, ok := middleware.GetProfileID(ctx, c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	if err := authService().Logout(ctx, pid); err != nil {
		writeError(ctx, c, err)
		return
	}
	response.NoContent(ctx, c)
}
