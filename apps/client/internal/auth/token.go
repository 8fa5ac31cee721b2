package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpired 本地判断凭证是否已过期。只解码不验签——密钥在服务端，
// 这里只是为了在发起注定失败的请求之前把用户带回登录。
// 解析不了的 token（不是 JWT 或没有 exp）一律交给服务端裁决。
func TokenExpired(token string, now time.Time) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return now.After(claims.ExpiresAt.Time)
}
