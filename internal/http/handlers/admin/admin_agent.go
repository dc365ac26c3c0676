package admin

import (
	"strconv"
	"strings"

	"github.com/fintechful/agent-portal/internal/http/handlers/shared"
	"github.com/fintechful/agent-portal/internal/http/response"
	"github.com/fintechful/agent-portal/internal/repository"
	"github.com/fintechful/agent-portal/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminAgents 获取代理列表 (Admin)
func (h *Handler) GetAdminAgents(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)

	agents, total, err := h.AgentService.List(repository.ProfileListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     c.Query("search"),
		Role:       c.Query("role"),
		ReferredBy: c.Query("referred_by"),
	})
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "代理列表获取失败", err)
		return
	}

	response.SuccessWithPage(c, agents, response.NewPagination(page, pageSize, total))
}

// GetAdminAgent 获取代理详情 (Admin)
func (h *Handler) GetAdminAgent(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	agent, err := h.AgentService.GetByID(id)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, agent)
}

// CreateAgentRequest 创建代理请求
type CreateAgentRequest struct {
	FullName   string `json:"full_name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone"`
	Subdomain  string `json:"subdomain" binding:"required"`
	Tagline    string `json:"tagline"`
	Bio        string `json:"bio"`
	Role       string `json:"role"`
	ReferredBy string `json:"referred_by"`
}

// CreateAdminAgent 创建代理 (Admin)
func (h *Handler) CreateAdminAgent(c *gin.Context) {
	var req CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	agent, err := h.AgentService.CreateAgent(c.Request.Context(), service.CreateAgentInput{
		FullName:   req.FullName,
		Email:      req.Email,
		Phone:      req.Phone,
		Subdomain:  req.Subdomain,
		Tagline:    req.Tagline,
		Bio:        req.Bio,
		Role:       req.Role,
		ReferredBy: req.ReferredBy,
	})
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}

	shared.RequestLog(c).Infow("admin_agent_created",
		"agent_id", agent.ClerkUserID, "subdomain", agent.Subdomain)
	response.Success(c, agent)
}

// UpdateAgentRequest 更新代理请求（指针字段缺省表示不修改）
type UpdateAgentRequest struct {
	FullName   *string `json:"full_name"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	AvatarURL  *string `json:"avatar_url"`
	Tagline    *string `json:"tagline"`
	Bio        *string `json:"bio"`
	Subdomain  *string `json:"subdomain"`
	Role       *string `json:"role"`
	ReferredBy *string `json:"referred_by"`
}

// UpdateAdminAgent 更新代理 (Admin)
func (h *Handler) UpdateAdminAgent(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req UpdateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	agent, err := h.AgentService.UpdateAgent(c.Request.Context(), id, service.AdminUpdateAgentInput{
		FullName:   req.FullName,
		Email:      req.Email,
		Phone:      req.Phone,
		AvatarURL:  req.AvatarURL,
		Tagline:    req.Tagline,
		Bio:        req.Bio,
		Subdomain:  req.Subdomain,
		Role:       req.Role,
		ReferredBy: req.ReferredBy,
	})
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, agent)
}

// parseIDParam 解析路径中的主键参数
func parseIDParam(c *gin.Context) (uint, bool) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		shared.RespondError(c, response.CodeBadRequest, "ID 参数不合法", err)
		return 0, false
	}
	return uint(id), true
}
