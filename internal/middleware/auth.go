package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/hertz-contrib/jwt"

	"CommunitySpaces/pkg/errors"
	"CommunitySpaces/pkg/response"
	"CommunitySpaces/pkg/token"
)

const (
	IdentityKey = token.IdentityKey
)

var (
	authMiddleware *jwt.HertzJWTMiddleware
)

func initAuthMiddleware() error {
	// 使用 token 包中共享的生成器
	sharedGenerator := token.GetGenerator()
	if sharedGenerator == nil {
		return fmt.Errorf("token generator not initialized, call token.Init() first")
	}

	mw, err := jwt.New(&jwt.HertzJWTMiddleware{
		Realm:       "Community Spaces API",
		Key:         sharedGenerator.Key,
		Timeout:     sharedGenerator.Timeout,
		MaxRefresh:  sharedGenerator.MaxRefresh,
		IdentityKey: sharedGenerator.IdentityKey,
		TimeFunc:    sharedGenerator.TimeFunc,

		IdentityHandler: func(ctx context.Context, c *app.RequestContext) interface{} {
			claims := jwt.ExtractClaims(ctx, c)
			pid, ok := claims[IdentityKey].(string)
			if !ok || pid == "" {
				return nil
			}
			return pid
		},

		// refresh token 不能当作 access token 使用
		Authorizator: func(data interface{}, ctx context.Context, c *app.RequestContext) bool {
			claims := jwt.ExtractClaims(ctx, c)
			t, _ := claims["type"].(string)
			return data != nil && t == "access"
		},

		Unauthorized: func(ctx context.Context, c *app.RequestContext, code int, message string) {
			if code == http.StatusForbidden {
				response.Error(ctx, c, errors.TokenInvalid)
				return
			}
			response.Error(ctx, c, errors.Unauthorized)
		},

		TokenLookup:   "header: Authorization, cookie: jwt",
		TokenHeadName: "Bearer",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize auth middleware: %w", err)
	}

	authMiddleware = mw
	return nil
}

func AuthMiddleware() app.HandlerFunc {
	if authMiddleware == nil {
		panic("AuthMiddleware not initialized, call Init() first")
	}
	return authMiddleware.MiddlewareFunc()
}

// GetProfileID 从请求上下文中获取成员 public_id（字符串格式）
func GetProfileID(ctx context.Context, c *app.RequestContext) (string, bool) {
	value, exists := c.Get(IdentityKey)
	if !exists {
		return "", false
	}

	id, ok := value.(string)
	if !ok || id == "" {
		return "", false
	}

	return id, true
}
