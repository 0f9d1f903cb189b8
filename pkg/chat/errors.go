package chat

import "errors"

// 错误定义
var (
	// ErrMissingToken 凭证缺失
	ErrMissingToken = errors.New("chat: missing bot token")
	// ErrMalformedResponse 响应解码失败
	ErrMalformedResponse = errors.New("chat: malformed response")
)

// APIError 平台 Web API 返回的业务错误
type APIError struct {
	Code string
}

func (e *APIError) Error() string {
	return "chat: api error: " + e.Code
}

// Is 按错误码比较
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}
