// Package auth keeps the player's bearer credential between runs,
// the way the browser client keeps it in localStorage. 凭证内容对客户端
// 是不透明的；唯一的本地判断是 JWT 的 exp 是否已过。
package auth

import (
	"errors"
	"time"
)

var (
	// ErrNoCredential 本地没有存过凭证，需要先登录。
	ErrNoCredential = errors.New("no stored credential")

	// ErrCredentialExpired 凭证已过期。对本次会话是终局错误。
	ErrCredentialExpired = errors.New("stored credential expired")
)

// Credential 一次登录的产物：token 加上展示用的账号信息
type Credential struct {
	Token    string
	UserID   string
	Username string
	SavedAt  time.Time
}
