package identity

import (
	"crypto/rsa"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrSessionKeyMissing 未配置会话验签公钥
	ErrSessionKeyMissing = errors.New("session public key not configured")
	// ErrSessionInvalid 会话令牌无效
	ErrSessionInvalid = errors.New("session token invalid")
)

// SessionClaims Clerk 会话令牌声明，sub 即 clerk_user_id
type SessionClaims struct {
	jwt.RegisteredClaims
}

// SessionVerifier 校验代理端会话令牌（RS256）
type SessionVerifier struct {
	publicKey *rsa.PublicKey
}

// NewSessionVerifier 从 PEM 公钥创建会话校验器。
// 公钥为空时返回 nil verifier，路由层据此拒绝门户请求。
func NewSessionVerifier(pemKey string) (*SessionVerifier, error) {
	trimmed := strings.TrimSpace(pemKey)
	if trimmed == "" {
		return nil, nil
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM([]byte(trimmed))
	if err != nil {
		return nil, err
	}
	return &SessionVerifier{publicKey: publicKey}, nil
}

// Verify 校验令牌并返回声明
func (v *SessionVerifier) Verify(tokenString string) (*SessionClaims, error) {
	if v == nil || v.publicKey == nil {
		return nil, ErrSessionKeyMissing
	}
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return v.publicKey, nil
	}, jwt.WithValidMethods([]string{"RS256"}))
	if err != nil || !token.Valid {
		return nil, ErrSessionInvalid
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrSessionInvalid
	}
	return claims, nil
}
