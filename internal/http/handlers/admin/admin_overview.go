package admin

import (
	"strconv"

	"github.com/fintechful/agent-portal/internal/http/handlers/shared"
	"github.com/fintechful/agent-portal/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetAdminOverview 平台概览 (Admin)
func (h *Handler) GetAdminOverview(c *gin.Context) {
	topN, _ := strconv.Atoi(c.DefaultQuery("top", "10"))

	overview, err := h.OverviewService.Overview(topN)
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "概览数据获取失败", err)
		return
	}
	response.Success(c, overview)
}
