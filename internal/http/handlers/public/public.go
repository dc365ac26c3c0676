package public

import "github.com/fintechful/agent-portal/internal/provider"

// Handler 公开接口处理器入口，无需认证
type Handler struct {
	*provider.Container
}

// New 创建公开处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
