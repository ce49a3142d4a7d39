package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis键前缀
const blacklistKeyPrefix = "jwt:blacklist:"

// RedisTokenBlacklist Redis令牌黑名单实现，依赖key的TTL自动过期
type RedisTokenBlacklist struct {
	redis *redis.Client
}

// NewRedisTokenBlacklist 创建Redis黑名单
func NewRedisTokenBlacklist(client *redis.Client) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{redis: client}
}

// AddToBlacklist 将令牌添加到黑名单
func (b *RedisTokenBlacklist) AddToBlacklist(ctx context.Context, tokenID string, expireAt time.Time) error {
	duration := time.Until(expireAt)
	if duration <= 0 {
		return nil
	}
	if err := b.redis.Set(ctx, blacklistKeyPrefix+tokenID, "1", duration).Err(); err != nil {
		return fmt.Errorf("添加令牌到黑名单失败: %w", err)
	}
	return nil
}

// IsBlacklisted 检查令牌是否在黑名单中
func (b *RedisTokenBlacklist) IsBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	n, err := b.redis.Exists(ctx, blacklistKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("检查Redis黑名单失败: %w", err)
	}
	return n > 0, nil
}
