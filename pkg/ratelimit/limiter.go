package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/subhvivah/matrimony/pkg/common"
	"github.com/subhvivah/matrimony/pkg/config"
	"github.com/subhvivah/matrimony/pkg/logger"
	"go.uber.org/zap"
)

// slidingWindowScript counts requests in the trailing window and admits the
// request when count < limit+burst. Keys expire with the window.
const slidingWindowScript = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count < limit then
    redis.call('ZADD', key, now, now .. '-' .. math.random())
    redis.call('PEXPIRE', key, window)
    return 1
end
return 0
`

// Rule is the limit applied to a single caller
type Rule struct {
	Limit  int
	Burst  int
	Window time.Duration
}

// Limiter enforces per-caller sliding-window limits backed by Redis
type Limiter struct {
	client redis.Cmdable
	script *redis.Script
	cfg    config.RateLimitConfig
	now    func() time.Time
}

// NewLimiter creates a limiter from configuration
func NewLimiter(client redis.Cmdable, cfg config.RateLimitConfig) *Limiter {
	return &Limiter{
		client: client,
		script: redis.NewScript(slidingWindowScript),
		cfg:    cfg,
		now:    time.Now,
	}
}

// WithNow overrides the clock, for tests
func (l *Limiter) WithNow(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// RuleFor returns the rule applying to the caller
func (l *Limiter) RuleFor(authenticated bool) Rule {
	window := time.Duration(l.cfg.WindowSeconds) * time.Second
	if authenticated {
		return Rule{Limit: l.cfg.DefaultLimit, Burst: l.cfg.DefaultBurst, Window: window}
	}
	return Rule{Limit: l.cfg.AnonymousLimit, Burst: l.cfg.AnonymousBurst, Window: window}
}

// Allow reports whether the caller identified by key may proceed
func (l *Limiter) Allow(ctx context.Context, key string, rule Rule) (bool, error) {
	if !l.cfg.Enabled {
		return true, nil
	}

	redisKey := fmt.Sprintf("%s:%s", l.cfg.RedisPrefix, key)
	nowMillis := l.now().UnixMilli()
	res, err := l.script.Run(ctx, l.client, []string{redisKey},
		nowMillis, rule.Window.Milliseconds(), rule.Limit+rule.Burst).Int()
	if err != nil {
		// Fail open: limiting is protection, not correctness
		logger.Warn("rate limiter unavailable", zap.Error(err))
		return true, nil
	}
	return res == 1, nil
}

// Middleware applies the limiter per client, keyed by user ID when
// authenticated and client IP otherwise
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		authenticated := false
		if raw, exists := c.Get("user_id"); exists {
			if id, ok := raw.(string); ok && id != "" {
				key = id
				authenticated = true
			}
		}

		allowed, _ := l.Allow(c.Request.Context(), key, l.RuleFor(authenticated))
		if !allowed {
			common.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded")
			c.Abort()
			return
		}
		c.Next()
	}
}
