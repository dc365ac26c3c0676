package admin

import (
	"github.com/fintechful/agent-portal/internal/http/handlers/shared"
	"github.com/fintechful/agent-portal/internal/http/response"
	"github.com/fintechful/agent-portal/internal/repository"
	"github.com/fintechful/agent-portal/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminSMBs 获取商户推荐列表 (Admin)
func (h *Handler) GetAdminSMBs(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)

	referrals, total, err := h.SMBService.List(repository.SMBListFilter{
		Page:     page,
		PageSize: pageSize,
		AgentID:  c.Query("agent_id"),
		Status:   c.Query("status"),
		Tier:     c.Query("tier"),
		Search:   c.Query("search"),
	})
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "商户列表获取失败", err)
		return
	}

	response.SuccessWithPage(c, referrals, response.NewPagination(page, pageSize, total))
}

// UpdateSMBRequest 更新商户推荐请求（指针字段缺省表示不修改）
type UpdateSMBRequest struct {
	BusinessName        *string `json:"business_name"`
	OwnerName           *string `json:"owner_name"`
	OwnerEmail          *string `json:"owner_email"`
	OwnerPhone          *string `json:"owner_phone"`
	Tier                *string `json:"tier"`
	Location            *string `json:"location"`
	MonthlyRevenueCents *int64  `json:"monthly_revenue_cents"`
	Status              *string `json:"status"`
}

// UpdateAdminSMB 更新商户推荐 (Admin)
func (h *Handler) UpdateAdminSMB(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req UpdateSMBRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	referral, err := h.SMBService.Update(id, service.UpdateSMBInput{
		BusinessName:        req.BusinessName,
		OwnerName:           req.OwnerName,
		OwnerEmail:          req.OwnerEmail,
		OwnerPhone:          req.OwnerPhone,
		Tier:                req.Tier,
		Location:            req.Location,
		MonthlyRevenueCents: req.MonthlyRevenueCents,
		Status:              req.Status,
	})
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, referral)
}
