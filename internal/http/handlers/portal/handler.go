package portal

import "github.com/fintechful/agent-portal/internal/provider"

// Handler 代理门户接口处理器入口，所有路由要求 Clerk 会话
type Handler struct {
	*provider.Container
}

// New 创建门户处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
