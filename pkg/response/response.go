package response

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"

	"CommunitySpaces/pkg/errors"
)

// ErrorResponse 统一的错误响应格式
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Details map[string]interface{} `json:"details,omitempty"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
}

// SuccessResponse 统一的成功响应格式
type SuccessResponse struct {
	Data interface{}            `json:"data"`
	Meta map[string]interface{} `json:"meta,omitempty"`
}

// asDefinition 解包出业务错误，支持 fmt.Errorf("%w") 包装。
func asDefinition(err error) (errors.Definition, bool) {
	var def errors.Definition
	if stderrors.As(err, &def) {
		return def, true
	}
	return errors.Definition{}, false
}

func errorToHTTPStatus(err error) int {
	def, ok := asDefinition(err)
	if !ok {
		return http.StatusInternalServerError
	}

	// 根据错误码映射 HTTP 状态码
	switch def.Code {
	case "TOO_MANY_REQUESTS":
		return http.StatusTooManyRequests // 429
	case "INVALID_REQUEST", "INVALID_PLATFORM", "INTEREST_UNKNOWN",
		"INVALID_PROFILE_ID", "PROJECT_FILTER_UNKNOWN", "SPACE_NOT_FOUND":
		return http.StatusBadRequest // 400
	case "UNAUTHORIZED", "TOKEN_INVALID", "TOKEN_EXPIRED", "REFRESH_TOKEN_INVALID":
		return http.StatusUnauthorized // 401
	case "FORBIDDEN":
		return http.StatusForbidden // 403
	case "ONBOARDING_SESSION_NOT_FOUND", "PROFILE_NOT_FOUND", "PROJECT_NOT_FOUND":
		return http.StatusNotFound // 404
	case "ONBOARDING_NO_NEXT_STEP", "ONBOARDING_NOT_FINAL_STEP",
		"ONBOARDING_BUSY", "PROFILE_HANDLE_TAKEN":
		return http.StatusConflict // 409
	case "ONBOARDING_STEP_BLOCKED", "PROFILE_INVALID", "PROJECT_INVALID":
		return http.StatusUnprocessableEntity // 422
	default:
		return http.StatusInternalServerError // 500
	}
}

func errorDetail(err error, details map[string]interface{}) ErrorDetail {
	if def, ok := asDefinition(err); ok {
		return ErrorDetail{Code: def.Code, Message: def.Message, Details: details}
	}
	// 非业务错误不向客户端暴露内部信息
	return ErrorDetail{
		Code:    errors.InternalError.Code,
		Message: errors.InternalError.Message,
		Details: details,
	}
}

// Error 返回错误响应
func Error(ctx context.Context, c *app.RequestContext, err error) {
	ErrorWithDetails(ctx, c, err, nil)
}

func ErrorWithDetails(ctx context.Context, c *app.RequestContext, err error, details map[string]interface{}) {
	c.JSON(errorToHTTPStatus(err), ErrorResponse{Error: errorDetail(err, details)})
}

func Success(ctx context.Context, c *app.RequestContext, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data: data,
	})
}

// Created 返回 201
func Created(ctx context.Context, c *app.RequestContext, data interface{}) {
	c.JSON(http.StatusCreated, SuccessResponse{
		Data: data,
	})
}

func SuccessWithMeta(ctx context.Context, c *app.RequestContext, data interface{}, meta map[string]interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data: data,
		Meta: meta,
	})
}

func BindError(ctx context.Context, c *app.RequestContext, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:    errors.InvalidRequest.Code,
			Message: err.Error(),
		},
	})
}

// NoContent 返回 204 No Content（用于 DELETE 等操作）
func NoContent(ctx context.Context, c *app.RequestContext) {
	c.Status(http.StatusNoContent)
}
