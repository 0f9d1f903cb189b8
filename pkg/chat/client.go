package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tokmz/qibot/pkg/logger"
)

// DefaultBaseURL 默认的 Web API 地址
const DefaultBaseURL = "https://slack.com/api"

// Client 出站消息 REST 客户端
// 只封装机器人需要的少量 Web API 调用，认证方式为 Bearer Token
type Client struct {
	token   string
	baseURL string
	client  *http.Client
	log     logger.Logger
}

// ClientOption 客户端选项
type ClientOption func(*Client)

// WithBaseURL 设置 Web API 地址
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient 设置底层 HTTP 客户端
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// NewClient 创建客户端
func NewClient(token string, log logger.Logger, opts ...ClientOption) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}

	c := &Client{
		token:   token,
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// PostMessageResponse chat.postMessage 响应
type PostMessageResponse struct {
	OK      bool   `json:"ok"`
	Channel string `json:"channel"`
	TS      string `json:"ts"`
	Error   string `json:"error"`
}

// PostMessage 向指定频道发送消息
func (c *Client) PostMessage(ctx context.Context, channel, text string) (*PostMessageResponse, error) {
	form := url.Values{}
	form.Set("channel", channel)
	form.Set("text", text)

	var resp PostMessageResponse
	if err := c.call(ctx, "chat.postMessage", form, &resp); err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, &APIError{Code: resp.Error}
	}
	return &resp, nil
}

// AuthTestResponse auth.test 响应
type AuthTestResponse struct {
	OK     bool   `json:"ok"`
	URL    string `json:"url"`
	Team   string `json:"team"`
	User   string `json:"user"`
	UserID string `json:"user_id"`
	BotID  string `json:"bot_id"`
	Error  string `json:"error"`
}

// AuthTest 校验凭证有效性并返回机器人身份
func (c *Client) AuthTest(ctx context.Context) (*AuthTestResponse, error) {
	var resp AuthTestResponse
	if err := c.call(ctx, "auth.test", url.Values{}, &resp); err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, &APIError{Code: resp.Error}
	}
	return &resp, nil
}

// call 执行一次表单编码的 POST 调用并解码 JSON 响应
func (c *Client) call(ctx context.Context, method string, form url.Values, out any) error {
	endpoint := c.baseURL + "/" + method

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("chat: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("chat: %s request: %w", method, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	c.log.Debug("web api 调用完成", zap.String("method", method), zap.Int("status", resp.StatusCode))
	return nil
}
