package auth

import (
	"context"
	"sync"
	"time"
)

// TokenBlacklist 内存令牌黑名单
type TokenBlacklist struct {
	tokens map[string]time.Time // 令牌ID->过期时间
	mutex  sync.RWMutex
}

// NewTokenBlacklist 创建内存黑名单
func NewTokenBlacklist() *TokenBlacklist {
	return &TokenBlacklist{
		tokens: make(map[string]time.Time),
	}
}

// AddToBlacklist 将令牌添加到黑名单，同时顺带清理已过期条目
func (b *TokenBlacklist) AddToBlacklist(_ context.Context, tokenID string, expireAt time.Time) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	now := time.Now()
	for id, exp := range b.tokens {
		if now.After(exp) {
			delete(b.tokens, id)
		}
	}
	b.tokens[tokenID] = expireAt
	return nil
}

// IsBlacklisted 检查令牌是否在黑名单中
func (b *TokenBlacklist) IsBlacklisted(_ context.Context, tokenID string) (bool, error) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	exp, exists := b.tokens[tokenID]
	return exists && time.Now().Before(exp), nil
}
