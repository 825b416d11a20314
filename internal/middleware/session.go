package middleware

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/hertz-contrib/csrf"
	"github.com/hertz-contrib/sessions"
	"github.com/hertz-contrib/sessions/cookie"
	"go.uber.org/zap"

	"CommunitySpaces/config"
	"CommunitySpaces/pkg/errors"
	"CommunitySpaces/pkg/logger"
	"CommunitySpaces/pkg/response"
)

const (
	viewedProjectsKey = "viewed_projects"
	// cookie 容量有限，只保留最近的浏览记录
	maxViewedProjects = 50
)

// SessionMiddleware 基于 cookie 的浏览器会话
func SessionMiddleware() app.HandlerFunc {
	store := cookie.NewStore([]byte(config.Cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   config.Cfg.IsProduction(),
	})
	return sessions.New(config.Cfg.SessionName, store)
}

// CSRFMiddleware 依赖 SessionMiddleware
func CSRFMiddleware() app.HandlerFunc {
	return csrf.New(
		csrf.WithSecret(config.Cfg.CSRFSecret),
		csrf.WithErrorFunc(func(ctx context.Context, c *app.RequestContext) {
			response.Error(ctx, c, errors.Forbidden)
			c.Abort()
		}),
	)
}

// MarkProjectViewed 记录本会话浏览过的项目，首次浏览返回 true
func MarkProjectViewed(c *app.RequestContext, projectID string) bool {
	session := sessions.Default(c)
	viewed, _ := session.Get(viewedProjectsKey).(string)

	next, first := appendViewed(viewed, projectID)
	if !first {
		return false
	}

	session.Set(viewedProjectsKey, next)
	if err := session.Save(); err != nil {
		logger.Logger.Warn("Failed to save browser session", zap.Error(err))
	}
	return true
}

func appendViewed(viewed, projectID string) (string, bool) {
	var ids []string
	if viewed != "" {
		ids = strings.Split(viewed, ",")
	}
	for _, id := range ids {
		if id == projectID {
			return viewed, false
		}
	}

	ids = append(ids, projectID)
	if len(ids) > maxViewedProjects {
		ids = ids[len(ids)-maxViewedProjects:]
	}
	return strings.Join(ids, ","), true
}
