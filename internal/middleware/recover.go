package middleware

import (
	"bytes"
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"CommunitySpaces/config"
	"CommunitySpaces/pkg/errors"
	"CommunitySpaces/pkg/logger"
	"CommunitySpaces/pkg/response"
)

// RecoverConfig recover 中间件配置
type RecoverConfig struct {
	// 堆栈追踪级别（full, simple, none）
	StackTraceLevel string
	// 是否记录请求详情
	LogRequestDetails bool
	// 是否在 span 中记录异常
	RecordInSpan bool
	// 非生产环境在响应中返回 panic 信息
	ExposeDetails bool
}

// NewRecoverConfig 创建 recover 配置
func NewRecoverConfig() RecoverConfig {
	return RecoverConfig{
		StackTraceLevel:   "simple",
		LogRequestDetails: true,
		RecordInSpan:      true,
		ExposeDetails:     !config.Cfg.IsProduction(),
	}
}

// RecoverMiddleware 创建 recover 中间件
func RecoverMiddleware() app.HandlerFunc {
	return RecoverMiddlewareWithConfig(NewRecoverConfig())
}

// RecoverMiddlewareWithConfig 带配置的 recover 中间件
func RecoverMiddlewareWithConfig(cfg RecoverConfig) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		defer func() {
			if err := recover(); err != nil {
				handlePanic(ctx, c, err, cfg)
			}
		}()

		c.Next(ctx)
	}
}

func handlePanic(ctx context.Context, c *app.RequestContext, err interface{}, cfg RecoverConfig) {
	stack := getStackTrace(cfg.StackTraceLevel)

	logPanicWithRequest(ctx, c, err, stack, cfg)

	if cfg.RecordInSpan {
		span := trace.SpanFromContext(ctx)
		span.RecordError(fmt.Errorf("panic: %v", err))
		span.SetStatus(codes.Error, "panic recovered")
	}

	if cfg.ExposeDetails {
		response.ErrorWithDetails(ctx, c, errors.InternalError, map[string]interface{}{
			"panic": fmt.Sprintf("%v", err),
		})
	} else {
		response.Error(ctx, c, errors.InternalError)
	}
	c.Abort()
}

// getStackTrace 获取堆栈追踪
func getStackTrace(level string) []byte {
	var buf bytes.Buffer

	switch level {
	case "full":
		buf.Write(debug.Stack())
	case "simple":
		// 跳过 runtime 和 recover 相关的函数
		for i := 4; ; i++ {
			pc, file, line, ok := runtime.Caller(i)
			if !ok {
				break
			}
			if strings.Contains(file, "/runtime/") {
				continue
			}
			name := "?"
			if fn := runtime.FuncForPC(pc); fn != nil {
				name = fn.Name()
			}
			fmt.Fprintf(&buf, "  %s:%d\n    %s\n", file, line, name)
		}
	}

	return buf.Bytes()
}

// logPanicWithRequest 记录 panic 日志（包含请求详情）
func logPanicWithRequest(ctx context.Context, c *app.RequestContext, err interface{}, stack []byte, cfg RecoverConfig) {
	fields := []zap.Field{
		zap.String("panic", fmt.Sprintf("%v", err)),
		zap.String("path", string(c.Path())),
		zap.String("method", string(c.Method())),
		zap.String("client_ip", c.ClientIP()),
		zap.String("user_agent", string(c.UserAgent())),
	}

	if requestID := string(c.GetHeader("X-Request-ID")); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if pid, exists := GetProfileID(ctx, c); exists {
		fields = append(fields, zap.String("profile_id", pid))
	}

	if cfg.LogRequestDetails {
		// 请求体（谨慎记录）
		body := c.Request.Body()
		if len(body) > 0 && len(body) < 1024 && strings.Contains(string(c.ContentType()), "json") {
			fields = append(fields, zap.ByteString("body", body))
		}
	}

	if len(stack) > 0 {
		fields = append(fields, zap.ByteString("stack", stack))
	}

	logger.Logger.Error("[PANIC RECOVERED]", fields...)
}
