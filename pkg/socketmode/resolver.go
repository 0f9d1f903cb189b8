package socketmode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/tokmz/qibot/pkg/logger"
)

// Resolver 连接端点解析器
// 每次调用向平台 REST 接口换取一个一次性的连接地址
type Resolver struct {
	token    string
	endpoint string
	client   *http.Client
	log      logger.Logger
}

// endpointResponse 端点解析响应体
type endpointResponse struct {
	OK    bool   `json:"ok"`
	URL   string `json:"url"`
	Error string `json:"error"`
}

// NewResolver 创建端点解析器
func NewResolver(token string, config *Config, log logger.Logger) (*Resolver, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}

	return &Resolver{
		token:    token,
		endpoint: config.EndpointURL,
		client:   &http.Client{Timeout: config.RequestTimeout},
		log:      log,
	}, nil
}

// Resolve 解析连接端点
// 返回的 URL 仅对一次连接尝试有效，重连前必须重新解析；
// 重试由上层 Supervisor 负责，这里只做一次请求
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("socketmode: build endpoint request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("socketmode: endpoint request: %w", err)
	}
	defer resp.Body.Close()

	var body endpointResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if !body.OK {
		return "", &APIError{Code: body.Error}
	}
	if body.URL == "" {
		return "", fmt.Errorf("%w: ok response without url", ErrMalformedResponse)
	}

	return body.URL, nil
}
