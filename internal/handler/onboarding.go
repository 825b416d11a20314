package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"CommunitySpaces/internal/model/dto"
	"CommunitySpaces/internal/onboarding"
	"CommunitySpaces/internal/service"
	"CommunitySpaces/pkg/response"
)

// 测试中替换
var onboardingService = service.Onboarding

func sessionID(c *app.RequestContext) string {
	return c.Param("session_id")
}

// StartOnboarding 开始新的引导会话
// POST /v1/onboarding
func StartOnboarding(ctx context.Context, c *app.RequestContext) {
	progress, err := onboardingService().Start(ctx)
	if err != nil {
		writeError(ctx, c, err)
		return
	}
	response.Created(ctx, c, progress)
}

// GetOnboardingProgress 查询引导进度
// GET /v1/onboarding/:session_id
func GetOnboardingProgress(ctx context.Context, c *app.RequestContext) {
	progress, err := onboardingService().Progress(ctx, sessionID(c))
	if err != nil {
		writeError(ctx, c, err)
		return
	}
	response.Success(ctx, c, progress)
}

// MergeOnboardingDraft 合并草稿
// PATCH /v1/onboarding/:session_id/draft
func MergeOnboardingDraft(ctx context.Context, c *app.RequestContext) {
	var patch onboarding.DraftPatch
	if err := c.BindJSON(&patch); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	progress, err := onboardingService().MergeDraft(ctx, sessionID(c), patch)
	if err != nil {
		writeError(ctx, c, err)
		return
	}
	response.Success(ctx, c, progress)
}

// ToggleOnboardingInterest 选择/取消兴趣
// POST /v1/onboarding/:session_id/interests/toggle
func ToggleOnboardingInterest(ctx context.Context, c *app.RequestContext) {
	var req dto.ToggleInterestRequest
	if err := c.BindJSON(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	progress, err := onboardingService().ToggleInterest(ctx, sessionID(c), req.Interest)
	if err != nil {
		writeError(ctx, c, err)
		return
	}
	response.Success(ctx, c, progress)
}

// ToggleOnboardingSpace 加入/退出空间
// POST /v1/onboarding/:session_id/spaces/toggle
func ToggleOnboardingSpace(ctx context.Context, c *app.RequestContext) {
	var req dto.ToggleSpaceRequest
	if err := c.BindJSON(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	progress, err := onboardingService().ToggleSpace(ctx, sessionID(c), req.SpaceID)
	if err != nil {
		writeError(ctx, c, err)
		return
	}
	response.Success(ctx, c, progress)
}

// AdvanceOnboarding 下一步，当前步骤未完成时返回 422
// POST /v1/onboarding/:session_id/advance
func AdvanceOnboarding(ctx context.Context, c *app.RequestContext) {
	progress, err := onboardingService().Advance(ctx, sessionID(c))
	if err != nil {
		writeError(ctx, c, err)
		return
	}
	response.Success(ctx, c, progress)
}

// RetreatOnboarding 上一步
// POST /v1/onboarding/:session_id/retreat
func RetreatOnboarding(ctx context.Context, c *app.RequestContext) {
	progress, err := onboardingService().Retreat(ctx, sessionID(c))
	if err != nil {
		writeError(ctx, c, err)
		return
	}
	response.Success(ctx, c, progress)
}

// CancelOnboarding 请求取消
// POST /v1/onboarding/:session_id/cancel
func CancelOnboarding(ctx context.Context, c *app.RequestContext) {
	result, err := onboardingService().RequestCancel(ctx, sessionID(c))
	if err != nil {
		writeError(ctx, c, err)
		return
	}
	response.Success(ctx, c, result)
}

// ConfirmCancelOnboarding 确认取消
// POST /v1/onboarding/:session_id/cancel/confirm
func ConfirmCancelOnboarding(ctx context.Context, c *app.RequestContext) {
	if err := onboardingService().ConfirmCancel(ctx, sessionID(c)); err != nil {
		writeError(ctx, c, err)
		return
	}
	response.Success(ctx, c, dto.CancelResult{Cancelled: true})
}

// DismissCancelOnboarding 继续引导
// POST /v1/onboarding/:session_id/cancel/dismiss
func DismissCancelOnboarding(ctx context.Context, c *app.RequestContext) {
	progress, err := onboardingService().DismissCancel(ctx, sessionID(c))
	if err != nil {
		writeError(ctx, c, err)
		return
	}
	response.Success(ctx, c, progress)
}

// FinishOnboarding 完成引导，创建资料并签发令牌
// POST /v1/onboarding/:session_id/finish
func FinishOnboarding(ctx context.Context, c *app.RequestContext) {
	result, err := onboardingService().Finish(ctx, sessionID(c))
	if err != nil {
		writeError(ctx, c, err)
		return
	}
	response.Created(ctx, c, result)
}
