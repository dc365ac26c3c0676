package admin

import (
	"time"

	"github.com/fintechful/agent-portal/internal/http/handlers/shared"
	"github.com/fintechful/agent-portal/internal/http/response"
	"github.com/fintechful/agent-portal/internal/repository"
	"github.com/fintechful/agent-portal/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminPayouts 获取打款记录列表 (Admin)
func (h *Handler) GetAdminPayouts(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)

	payouts, total, err := h.PayoutService.List(repository.PayoutListFilter{
		Page:     page,
		PageSize: pageSize,
		AgentID:  c.Query("agent_id"),
		Method:   c.Query("method"),
	})
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "打款记录获取失败", err)
		return
	}

	response.SuccessWithPage(c, payouts, response.NewPagination(page, pageSize, total))
}

// CreatePayoutRequest 登记打款请求
type CreatePayoutRequest struct {
	AgentID     string `json:"agent_id" binding:"required"`
	AmountCents int64  `json:"amount_cents" binding:"required"`
	Method      string `json:"method" binding:"required"`
	PaidAt      string `json:"paid_at"` // 2006-01-02，缺省为当前时间
	Notes       string `json:"notes"`
}

// CreateAdminPayout 登记打款 (Admin)
func (h *Handler) CreateAdminPayout(c *gin.Context) {
	var req CreatePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	input := service.RecordPayoutInput{
		AgentID:     req.AgentID,
		AmountCents: req.AmountCents,
		Method:      req.Method,
		Notes:       req.Notes,
	}
	if req.PaidAt != "" {
		parsed, err := time.Parse("2006-01-02", req.PaidAt)
		if err != nil {
			shared.RespondError(c, response.CodeBadRequest, "日期格式应为 2006-01-02", err)
			return
		}
		input.PaidAt = &parsed
	}

	payout, err := h.PayoutService.Record(input)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	shared.RequestLog(c).Infow("admin_payout_recorded",
		"agent_id", payout.AgentID, "amount_cents", payout.AmountCents, "reference", payout.Reference)
	response.Success(c, payout)
}
