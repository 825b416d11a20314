package handler

import (
	"context"
	stderrors "errors"

	"github.com/cloudwego/hertz/pkg/app"
	"go.uber.org/zap"

	"CommunitySpaces/internal/onboarding"
	"CommunitySpaces/internal/service"
	"CommunitySpaces/pkg/errors"
	"CommunitySpaces/pkg/logger"
	"CommunitySpaces/pkg/response"
)

// writeError 统一输出业务错误，校验类错误附带字段原因
func writeError(ctx context.Context, c *app.RequestContext, err error) {
	var blocked *onboarding.BlockedError
	if stderrors.As(err, &blocked) {
		response.ErrorWithDetails(ctx, c, errors.OnboardingStepBlocked, map[string]interface{}{
			"step":       blocked.Step.String(),
			"violations": blocked.Violations,
		})
		return
	}

	var invalid *service.ValidationError
	if stderrors.As(err, &invalid) {
		response.ErrorWithDetails(ctx, c, invalid.Def, map[string]interface{}{
			"violations": invalid.Violations,
		})
		return
	}

	var def errors.Definition
	if !stderrors.As(err, &def) {
		logger.Logger.Error("Request failed",
			zap.String("method", string(c.Method())),
			zap.String("path", string(c.Path())),
			zap.Error(err),
		)
	}
	response.Error(ctx, c, err)
}
