package socketmode

import "errors"

// 错误定义
var (
	// 连接相关错误
	ErrSessionClosed  = errors.New("socketmode: session closed")
	ErrAlreadyRunning = errors.New("socketmode: supervisor already running")

	// 端点解析相关错误
	ErrMissingToken      = errors.New("socketmode: missing app token")
	ErrMalformedResponse = errors.New("socketmode: malformed endpoint response")

	// 配置相关错误
	ErrInvalidConfig = errors.New("socketmode: invalid config")
)

// APIError 平台 REST 接口返回的业务错误
// Code 为平台定义的机器可读错误码（如 invalid_auth）
type APIError struct {
	Code string
}

func (e *APIError) Error() string {
	return "socketmode: api error: " + e.Code
}

// Is 按错误码比较
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}
