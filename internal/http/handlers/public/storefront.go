package public

import (
	"strings"

	"github.com/fintechful/agent-portal/internal/http/handlers/shared"
	"github.com/fintechful/agent-portal/internal/http/response"

	"github.com/gin-gonic/gin"
)

// LandingInfo 平台主站落地页数据，无租户子域时返回
type LandingInfo struct {
	Landing bool   `json:"landing"`
	Name    string `json:"name"`
	Tagline string `json:"tagline"`
}

// GetStorefront 按请求 Host 解析当前租户的门店资料。
// 子域由租户中间件从 Host 提取并写入上下文；保留子域、裸域
// 与预览域名没有租户，返回落地页数据而非 404。
func (h *Handler) GetStorefront(c *gin.Context) {
	subdomain, ok := shared.GetSubdomain(c)
	if !ok {
		response.Success(c, LandingInfo{
			Landing: true,
			Name:    "FinTechful",
			Tagline: "代理门户平台",
		})
		return
	}
	h.respondStorefront(c, subdomain)
}

// GetStorefrontBySubdomain 按路径参数解析门店资料，供平台主站预览
func (h *Handler) GetStorefrontBySubdomain(c *gin.Context) {
	subdomain := strings.TrimSpace(c.Param("subdomain"))
	if subdomain == "" {
		response.BadRequest(c, "子域参数缺失")
		return
	}
	h.respondStorefront(c, subdomain)
}

func (h *Handler) respondStorefront(c *gin.Context, subdomain string) {
	snapshot, err := h.StorefrontService.Resolve(c.Request.Context(), subdomain)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, snapshot)
}

// Healthz 健康检查
func (h *Handler) Healthz(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}
