package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/nsxzhou1114/author-blog/internal/config"
)

var (
	// ErrInvalidToken 令牌无效或已过期
	ErrInvalidToken = errors.New("无效的令牌")
	// ErrTokenRevoked 令牌已被撤销
	ErrTokenRevoked = errors.New("令牌已被撤销")
)

// Claims 自定义JWT声明结构体
type Claims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenManager 签发与校验访问令牌
type TokenManager struct {
	secret    []byte
	issuer    string
	expire    time.Duration
	blacklist Blacklist
}

// NewTokenManager 创建令牌管理器
func NewTokenManager(cfg config.JWTConfig, blacklist Blacklist) *TokenManager {
	if blacklist == nil {
		blacklist = NewTokenBlacklist()
	}
	return &TokenManager{
		secret:    []byte(cfg.SecretKey),
		issuer:    cfg.Issuer,
		expire:    cfg.AccessExpire(),
		blacklist: blacklist,
	}
}

// Issue 为用户签发访问令牌
func (m *TokenManager) Issue(userID uint) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expire)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse 解析并校验令牌
func (m *TokenManager) Parse(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("不支持的签名算法: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}

	revoked, err := m.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Revoke 撤销令牌（登出时使用）
func (m *TokenManager) Revoke(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return ErrInvalidToken
	}
	return m.blacklist.AddToBlacklist(ctx, claims.ID, claims.ExpiresAt.Time)
}
