package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized 凭证缺失/过期/被拒。对本次会话是终局错误：
	// 调用方应当把用户带回登录,而不是重试。
	ErrUnauthorized = errors.New("credential rejected")

	// ErrGameNotFound 牌局不存在（或已被清理）。轮询方收到后应停止轮询。
	ErrGameNotFound = errors.New("game not found")
)

// RequestError 服务端明确拒绝的一次请求（例如不合法的出牌）。
// 携带服务端的提示文案，供发起该操作的控件展示。
type RequestError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: rejected (http %d)", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}
