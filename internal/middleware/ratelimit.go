package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"CommunitySpaces/config"
	"CommunitySpaces/pkg/errors"
	"CommunitySpaces/pkg/logger"
	"CommunitySpaces/pkg/response"
	"CommunitySpaces/storage/redis"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	// 时间窗口（秒）
	Window int
	// 时间窗口内最大请求数
	MaxRequests int
	// 限流键前缀
	KeyPrefix string
	// 是否按成员ID限流（需要认证）
	ByProfileID bool
	// 是否按IP限流
	ByIP bool
	// 阻塞时长（秒），超过限制后禁止访问的时间
	BlockDuration int
}

// DefaultRateLimitConfig 默认限流配置
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Window:        1,
		MaxRequests:   config.Cfg.RateLimitRPS,
		KeyPrefix:     "rate:limit",
		ByProfileID:   true,
		ByIP:          true,
		BlockDuration: 30,
	}
}

// OnboardingStartRateLimitConfig 创建引导会话按 IP 限流
var OnboardingStartRateLimitConfig = RateLimitConfig{
	Window:        60,
	MaxRequests:   10,
	KeyPrefix:     "onboarding:start:rate",
	ByIP:          true,
	BlockDuration: 300, // 阻塞5分钟
}

// ProjectWriteRateLimitConfig 发布/修改项目限流
var ProjectWriteRateLimitConfig = RateLimitConfig{
	Window:        600, // 10 min
	MaxRequests:   20,
	KeyPrefix:     "project:write:rate",
	ByProfileID:   true,
	BlockDuration: 900,
}

// RateLimiter 限流器
type RateLimiter struct {
	config RateLimitConfig
	now    func() time.Time
}

func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		config: config,
		now:    time.Now,
	}
}

// identifier 限流主体，优先成员ID，其次IP
func (rl *RateLimiter) identifier(ctx context.Context, c *app.RequestContext) string {
	if rl.config.ByProfileID {
		if pid, exists := GetProfileID(ctx, c); exists {
			return "profile:" + pid
		}
	}
	if rl.config.ByIP {
		return "ip:" + c.ClientIP()
	}
	return "global"
}

// Allow 检查是否允许请求，使用滑动窗口算法
func (rl *RateLimiter) Allow(ctx context.Context, identifier string) (bool, int, error) {
	key := redis.Key(rl.config.KeyPrefix, identifier)
	now := rl.now()
	windowStart := now.Add(-time.Duration(rl.config.Window) * time.Second)

	// zset 来实现滑动窗口限流
	pipe := redis.Client().Pipeline()

	// 移除窗口开始时间之前的所有请求记录
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))

	// 添加当前请求（使用时间戳作为 score 和 member）
	pipe.ZAdd(ctx, key, redislib.Z{
		Score:  float64(now.UnixNano()),
		Member: now.UnixNano(),
	})

	// 获取当前窗口内的请求数
	zcardCmd := pipe.ZCard(ctx, key)

	pipe.Expire(ctx, key, time.Duration(rl.config.Window+10)*time.Second)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("failed to execute pipeline: %w", err)
	}

	count := int(zcardCmd.Val())
	return count <= rl.config.MaxRequests, count, nil
}

func (rl *RateLimiter) blockKey(identifier string) string {
	return redis.Key(rl.config.KeyPrefix, "block", identifier)
}

func (rl *RateLimiter) Block(ctx context.Context, identifier string) error {
	return redis.Client().Set(ctx, rl.blockKey(identifier), "1", time.Duration(rl.config.BlockDuration)*time.Second).Err()
}

func (rl *RateLimiter) IsBlocked(ctx context.Context, identifier string) (bool, error) {
	result, err := redis.Client().Exists(ctx, rl.blockKey(identifier)).Result()
	return result > 0, err
}

// RateLimitMiddleware 创建限流中间件，Redis 不可用时放行
func RateLimitMiddleware(config RateLimitConfig) app.HandlerFunc {
	limiter := NewRateLimiter(config)

	return func(ctx context.Context, c *app.RequestContext) {
		id := limiter.identifier(ctx, c)

		blocked, err := limiter.IsBlocked(ctx, id)
		if err != nil {
			logger.Logger.Error("Failed to check block status", zap.Error(err))
			c.Next(ctx)
			return
		}
		if blocked {
			response.Error(ctx, c, errors.TooManyRequests)
			c.Abort()
			return
		}

		allowed, count, err := limiter.Allow(ctx, id)
		if err != nil {
			logger.Logger.Error("Failed to check rate limit", zap.Error(err))
			c.Next(ctx)
			return
		}

		remaining := config.MaxRequests - count
		if remaining < 0 {
			remaining = 0
		}
		c.Response.Header.Set("X-RateLimit-Limit", strconv.Itoa(config.MaxRequests))
		c.Response.Header.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Response.Header.Set("X-RateLimit-Reset", strconv.FormatInt(limiter.now().Add(time.Duration(config.Window)*time.Second).Unix(), 10))

		if !allowed {
			if err := limiter.Block(ctx, id); err != nil {
				logger.Logger.Error("Failed to block client", zap.String("identifier", id), zap.Error(err))
			}
			logger.Logger.Warn("Rate limit exceeded",
				zap.String("identifier", id),
				zap.String("path", string(c.Path())),
			)
			response.Error(ctx, c, errors.TooManyRequests)
			c.Abort()
			return
		}

		c.Next(ctx)
	}
}

// GeneralRateLimitMiddleware 全局限流
func GeneralRateLimitMiddleware() app.HandlerFunc {
	return RateLimitMiddleware(DefaultRateLimitConfig())
}

func OnboardingStartRateLimitMiddleware() app.HandlerFunc {
	return RateLimitMiddleware(OnboardingStartRateLimitConfig)
}

func ProjectWriteRateLimitMiddleware() app.HandlerFunc {
	return RateLimitMiddleware(ProjectWriteRateLimitConfig)
}

// AuthRateLimitMiddleware 刷新令牌按 IP 限流
func AuthRateLimitMiddleware() app.HandlerFunc {
	return RateLimitMiddleware(RateLimitConfig{
		Window:        60,
		MaxRequests:   10,
		KeyPrefix:     "auth:rate",
		ByIP:          true,
		BlockDuration: 900, // 阻塞15分钟
	})
}
