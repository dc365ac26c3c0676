package portal

import (
	"time"

	"github.com/fintechful/agent-portal/internal/constants"
	"github.com/fintechful/agent-portal/internal/http/handlers/shared"
	"github.com/fintechful/agent-portal/internal/http/response"
	"github.com/fintechful/agent-portal/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetDashboard 代理仪表盘汇总
func (h *Handler) GetDashboard(c *gin.Context) {
	clerkUserID, ok := shared.GetClerkUserID(c)
	if !ok {
		return
	}
	summary, err := h.EarningsService.Dashboard(clerkUserID, time.Now())
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "仪表盘数据获取失败", err)
		return
	}
	response.Success(c, summary)
}

// GetCommissions 代理本人佣金列表
func (h *Handler) GetCommissions(c *gin.Context) {
	clerkUserID, ok := shared.GetClerkUserID(c)
	if !ok {
		return
	}
	page, pageSize := shared.ParsePagination(c)

	records, total, err := h.CommissionService.List(repository.CommissionListFilter{
		Page:     page,
		PageSize: pageSize,
		AgentID:  clerkUserID,
		Status:   c.Query("status"),
		Provider: c.Query("provider"),
	})
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "佣金列表获取失败", err)
		return
	}
	response.SuccessWithPage(c, records, response.NewPagination(page, pageSize, total))
}

// GetEarnings 按时间窗口统计收益，window 缺省为本月
func (h *Handler) GetEarnings(c *gin.Context) {
	clerkUserID, ok := shared.GetClerkUserID(c)
	if !ok {
		return
	}
	window := c.DefaultQuery("window", constants.WindowThisMonth)

	report, err := h.EarningsService.Earnings(clerkUserID, window, time.Now())
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, report)
}

// GetMonthlyEarnings 最近 12 个自然月收益序列
func (h *Handler) GetMonthlyEarnings(c *gin.Context) {
	clerkUserID, ok := shared.GetClerkUserID(c)
	if !ok {
		return
	}
	series, err := h.EarningsService.MonthlySeries(clerkUserID, time.Now())
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "月度序列获取失败", err)
		return
	}
	response.Success(c, series)
}

// GetReferrals 推荐关系报表（一层下线）
func (h *Handler) GetReferrals(c *gin.Context) {
	clerkUserID, ok := shared.GetClerkUserID(c)
	if !ok {
		return
	}
	report, err := h.ReferralService.Report(clerkUserID, time.Now())
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "推荐报表获取失败", err)
		return
	}
	response.Success(c, report)
}
