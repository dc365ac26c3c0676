package shared

import (
	"github.com/fintechful/agent-portal/internal/http/response"

	"github.com/gin-gonic/gin"
)

// 上下文键，由中间件写入
const (
	ContextKeyRequestID   = "request_id"
	ContextKeyAdminID     = "admin_id"
	ContextKeyClerkUserID = "clerk_user_id"
	ContextKeySubdomain   = "tenant_subdomain"
)

// GetAdminID 从上下文读取管理员ID，缺失时统一返回未认证响应
func GetAdminID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(ContextKeyAdminID)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "未登录或登录已过期", nil)
		return 0, false
	}
	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, "管理员ID不合法", nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, "管理员ID不合法", nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, "管理员ID类型错误", nil)
		return 0, false
	}
}

// GetClerkUserID 从上下文读取当前代理的身份用户ID
func GetClerkUserID(c *gin.Context) (string, bool) {
	value, exists := c.Get(ContextKeyClerkUserID)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "未登录或登录已过期", nil)
		return "", false
	}
	id, ok := value.(string)
	if !ok || id == "" {
		RespondError(c, response.CodeUnauthorized, "未登录或登录已过期", nil)
		return "", false
	}
	return id, true
}

// GetSubdomain 从上下文读取租户子域，由租户解析中间件写入
func GetSubdomain(c *gin.Context) (string, bool) {
	value, exists := c.Get(ContextKeySubdomain)
	if !exists {
		return "", false
	}
	subdomain, ok := value.(string)
	return subdomain, ok && subdomain != ""
}
