package service

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Ventana fija por cuenta: el primer intento abre la ventana y el script
// devuelve el conteo junto con lo que le queda en milisegundos.
const redisLoginAttemptScript = `
local attempts = redis.call("INCR", KEYS[1])
if attempts == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local remaining = redis.call("PTTL", KEYS[1])
if remaining < 0 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
  remaining = tonumber(ARGV[1])
end
return {attempts, remaining}
`

const redisLimiterTimeout = 500 * time.Millisecond

type redisLimiterClient interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// redisLoginRateLimiter comparte los intentos por cuenta entre instancias del
// API. Las claves ya llegan hasheadas por OwnerHasher.
type redisLoginRateLimiter struct {
	client redisLimiterClient
	window time.Duration
	max    int64
	prefix string
	logger *zap.Logger
}

// NewRedisLoginRateLimiter devuelve nil si no hay cliente; el servicio cae
// entonces al limiter en memoria.
func NewRedisLoginRateLimiter(client *redis.Client, window time.Duration, max int, logger *zap.Logger) LoginRateLimiter {
	if client == nil {
		return nil
	}
	if window < time.Second {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &redisLoginRateLimiter{
		client: client,
		window: window,
		max:    int64(max),
		prefix: "booking:login-attempts:",
		logger: logger,
	}
}

// Allow nunca bloquea un login por una falla de redis.
func (l *redisLoginRateLimiter) Allow(ctx context.Context, key string) (bool, time.Duration) {
	if l == nil || l.client == nil {
		return true, 0
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return false, l.window
	}
	ctx, cancel := context.WithTimeout(ctx, redisLimiterTimeout)
	defer cancel()

	res, err := l.client.Eval(ctx, redisLoginAttemptScript, []string{l.prefix + key}, l.window.Milliseconds()).Int64Slice()
	if err != nil || len(res) != 2 {
		if l.logger != nil {
			l.logger.Warn("login limiter unavailable, allowing attempt", zap.String("owner", key), zap.Error(err))
		}
		return true, 0
	}
	attempts, remaining := res[0], time.Duration(res[1])*time.Millisecond
	if attempts > l.max {
		return false, remaining
	}
	return true, 0
}

func (l *redisLoginRateLimiter) Reset(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if l == nil || l.client == nil || key == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, redisLimiterTimeout)
	defer cancel()
	return l.client.Del(ctx, l.prefix+key).Err()
}
