package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fintechful/agent-portal/internal/config"
	"github.com/fintechful/agent-portal/internal/logger"

	"github.com/google/uuid"
)

var (
	// ErrRequestFailed 身份服务请求失败
	ErrRequestFailed = errors.New("identity request failed")
	// ErrUserRejected 身份服务拒绝创建用户（msg 透传上游原文）
	ErrUserRejected = errors.New("identity user creation rejected")
	// ErrInputInvalid 创建用户入参非法
	ErrInputInvalid = errors.New("identity input invalid")
)

// Client Clerk REST 客户端。未启用时本地生成用户ID，便于离线环境运行。
type Client struct {
	apiBase    string
	secretKey  string
	enabled    bool
	httpClient *http.Client
}

// NewClient 创建身份服务客户端
func NewClient(cfg *config.ClerkConfig) *Client {
	if cfg == nil || !cfg.Enabled {
		return &Client{enabled: false}
	}
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiBase:    strings.TrimRight(strings.TrimSpace(cfg.APIBase), "/"),
		secretKey:  strings.TrimSpace(cfg.SecretKey),
		enabled:    true,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Enabled 是否对接真实身份服务
func (c *Client) Enabled() bool {
	return c != nil && c.enabled
}

// CreateUserInput 创建用户输入
type CreateUserInput struct {
	Email    string
	FullName string
}

// User 身份服务用户
type User struct {
	ID string `json:"id"`
}

// CreateUser 在身份服务创建用户，返回其不透明用户ID。
// 姓名按首个空格拆分为 first/last name。
func (c *Client) CreateUser(ctx context.Context, input CreateUserInput) (*User, error) {
	email := strings.TrimSpace(input.Email)
	fullName := strings.TrimSpace(input.FullName)
	if email == "" || fullName == "" {
		return nil, ErrInputInvalid
	}

	if !c.Enabled() {
		id := "usr_local_" + strings.ReplaceAll(uuid.NewString(), "-", "")
		logger.Warnw("identity_disabled_local_user_created", "user_id", id, "email", email)
		return &User{ID: id}, nil
	}

	firstName, lastName := splitFullName(fullName)
	payload := map[string]interface{}{
		"email_address": []string{email},
		"first_name":    firstName,
	}
	if lastName != "" {
		payload["last_name"] = lastName
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/users", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s", ErrUserRejected, upstreamMessage(respBytes, resp.StatusCode))
	}

	var user User
	if err := json.Unmarshal(respBytes, &user); err != nil || user.ID == "" {
		return nil, fmt.Errorf("%w: unexpected response body", ErrRequestFailed)
	}
	return &user, nil
}

func splitFullName(fullName string) (firstName, lastName string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// upstreamMessage 提取上游错误原文，保持错误消息透传语义
func upstreamMessage(body []byte, statusCode int) string {
	var parsed struct {
		Errors []struct {
			Message     string `json:"message"`
			LongMessage string `json:"long_message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && len(parsed.Errors) > 0 {
		if parsed.Errors[0].LongMessage != "" {
			return parsed.Errors[0].LongMessage
		}
		if parsed.Errors[0].Message != "" {
			return parsed.Errors[0].Message
		}
	}
	return fmt.Sprintf("http status %d", statusCode)
}
