package portal

import (
	"github.com/fintechful/agent-portal/internal/http/handlers/shared"
	"github.com/fintechful/agent-portal/internal/http/response"
	"github.com/fintechful/agent-portal/internal/repository"
	"github.com/fintechful/agent-portal/internal/service"

	"github.com/gin-gonic/gin"
)

// GetSMBs 代理本人的商户推荐列表
func (h *Handler) GetSMBs(c *gin.Context) {
	clerkUserID, ok := shared.GetClerkUserID(c)
	if !ok {
		return
	}
	page, pageSize := shared.ParsePagination(c)

	referrals, total, err := h.SMBService.List(repository.SMBListFilter{
		Page:     page,
		PageSize: pageSize,
		AgentID:  clerkUserID,
		Status:   c.Query("status"),
	})
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "商户列表获取失败", err)
		return
	}
	response.SuccessWithPage(c, referrals, response.NewPagination(page, pageSize, total))
}

// RegisterSMBRequest 登记商户推荐请求
type RegisterSMBRequest struct {
	BusinessName        string `json:"business_name" binding:"required"`
	OwnerName           string `json:"owner_name"`
	OwnerEmail          string `json:"owner_email"`
	OwnerPhone          string `json:"owner_phone"`
	Tier                string `json:"tier"`
	Location            string `json:"location"`
	MonthlyRevenueCents int64  `json:"monthly_revenue_cents"`
}

// RegisterSMB 登记一条商户推荐
func (h *Handler) RegisterSMB(c *gin.Context) {
	clerkUserID, ok := shared.GetClerkUserID(c)
	if !ok {
		return
	}
	var req RegisterSMBRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	referral, err := h.SMBService.Register(service.RegisterSMBInput{
		AgentID:             clerkUserID,
		BusinessName:        req.BusinessName,
		OwnerName:           req.OwnerName,
		OwnerEmail:          req.OwnerEmail,
		OwnerPhone:          req.OwnerPhone,
		Tier:                req.Tier,
		Location:            req.Location,
		MonthlyRevenueCents: req.MonthlyRevenueCents,
	})
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, referral)
}

// GetPayouts 代理本人的打款记录
func (h *Handler) GetPayouts(c *gin.Context) {
	clerkUserID, ok := shared.GetClerkUserID(c)
	if !ok {
		return
	}
	page, pageSize := shared.ParsePagination(c)

	payouts, total, err := h.PayoutService.List(repository.PayoutListFilter{
		Page:     page,
		PageSize: pageSize,
		AgentID:  clerkUserID,
	})
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "打款记录获取失败", err)
		return
	}
	response.SuccessWithPage(c, payouts, response.NewPagination(page, pageSize, total))
}
