package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Blacklist 黑名单接口
type Blacklist interface {
	// AddToBlacklist 将令牌ID添加到黑名单，过期后自动失效
	AddToBlacklist(ctx context.Context, tokenID string, expireAt time.Time) error

	// IsBlacklisted 检查令牌ID是否在黑名单中
	IsBlacklisted(ctx context.Context, tokenID string) (bool, error)
}

// BlacklistType 黑名单类型
type BlacklistType string

const (
	// MemoryBlacklist 内存黑名单
	MemoryBlacklist BlacklistType = "memory"
	// RedisBlacklist Redis黑名单
	RedisBlacklist BlacklistType = "redis"
)

// NewBlacklist 根据类型创建黑名单，redis 类型需要传入客户端
func NewBlacklist(blacklistType BlacklistType, client *redis.Client) Blacklist {
	switch blacklistType {
	case RedisBlacklist:
		if client != nil {
			return NewRedisTokenBlacklist(client)
		}
		fallthrough
	default:
		return NewTokenBlacklist()
	}
}
