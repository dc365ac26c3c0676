package portal

import (
	"github.com/fintechful/agent-portal/internal/http/handlers/shared"
	"github.com/fintechful/agent-portal/internal/http/response"
	"github.com/fintechful/agent-portal/internal/service"

	"github.com/gin-gonic/gin"
)

// GetMe 获取当前代理档案
func (h *Handler) GetMe(c *gin.Context) {
	clerkUserID, ok := shared.GetClerkUserID(c)
	if !ok {
		return
	}
	profile, err := h.AgentService.GetByClerkUserID(clerkUserID)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, profile)
}

// UpdateMeRequest 更新本人档案请求（指针字段缺省表示不修改）
type UpdateMeRequest struct {
	FullName  *string `json:"full_name"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatar_url"`
	Tagline   *string `json:"tagline"`
	Bio       *string `json:"bio"`
}

// UpdateMe 更新当前代理档案，子域与角色不可自助修改
func (h *Handler) UpdateMe(c *gin.Context) {
	clerkUserID, ok := shared.GetClerkUserID(c)
	if !ok {
		return
	}
	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	profile, err := h.AgentService.UpdateOwnProfile(c.Request.Context(), clerkUserID, service.UpdateOwnProfileInput{
		FullName:  req.FullName,
		Phone:     req.Phone,
		AvatarURL: req.AvatarURL,
		Tagline:   req.Tagline,
		Bio:       req.Bio,
	})
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, profile)
}
