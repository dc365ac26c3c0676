package admin

import (
	"fmt"
	"time"

	"github.com/fintechful/agent-portal/internal/http/handlers/shared"
	"github.com/fintechful/agent-portal/internal/http/response"
	"github.com/fintechful/agent-portal/internal/repository"
	"github.com/fintechful/agent-portal/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminCommissions 获取佣金列表 (Admin)
func (h *Handler) GetAdminCommissions(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)

	records, total, err := h.CommissionService.List(repository.CommissionListFilter{
		Page:     page,
		PageSize: pageSize,
		AgentID:  c.Query("agent_id"),
		Status:   c.Query("status"),
		Provider: c.Query("provider"),
		Search:   c.Query("search"),
	})
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "佣金列表获取失败", err)
		return
	}

	response.SuccessWithPage(c, records, response.NewPagination(page, pageSize, total))
}

// GetAdminCommission 获取佣金详情 (Admin)
func (h *Handler) GetAdminCommission(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	record, err := h.CommissionService.GetByID(id)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, record)
}

// CreateCommissionRequest 创建佣金请求
type CreateCommissionRequest struct {
	AgentID      string `json:"agent_id" binding:"required"`
	Provider     string `json:"provider" binding:"required"`
	GrossCents   int64  `json:"gross_cents"`
	Status       string `json:"status"`
	ProviderDate string `json:"provider_date"` // 2006-01-02
	Notes        string `json:"notes"`
	Recurring    bool   `json:"recurring"`
}

// CreateAdminCommission 创建佣金记录 (Admin)
func (h *Handler) CreateAdminCommission(c *gin.Context) {
	var req CreateCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	input := service.CreateCommissionInput{
		AgentID:    req.AgentID,
		Provider:   req.Provider,
		GrossCents: req.GrossCents,
		Status:     req.Status,
		Notes:      req.Notes,
		Recurring:  req.Recurring,
	}
	if req.ProviderDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ProviderDate)
		if err != nil {
			shared.RespondError(c, response.CodeBadRequest, "日期格式应为 2006-01-02", err)
			return
		}
		input.ProviderDate = &parsed
	}

	record, err := h.CommissionService.Create(input)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, record)
}

// UpdateCommissionRequest 更新佣金请求（指针字段缺省表示不修改）
type UpdateCommissionRequest struct {
	Provider     *string `json:"provider"`
	GrossCents   *int64  `json:"gross_cents"`
	ProviderDate *string `json:"provider_date"`
	Notes        *string `json:"notes"`
	Recurring    *bool   `json:"recurring"`
}

// UpdateAdminCommission 更新佣金记录 (Admin)
func (h *Handler) UpdateAdminCommission(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req UpdateCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	input := service.UpdateCommissionInput{
		Provider:   req.Provider,
		GrossCents: req.GrossCents,
		Notes:      req.Notes,
		Recurring:  req.Recurring,
	}
	if req.ProviderDate != nil && *req.ProviderDate != "" {
		parsed, err := time.Parse("2006-01-02", *req.ProviderDate)
		if err != nil {
			shared.RespondError(c, response.CodeBadRequest, "日期格式应为 2006-01-02", err)
			return
		}
		input.ProviderDate = &parsed
	}

	record, err := h.CommissionService.Update(id, input)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, record)
}

// UpdateCommissionStatusRequest 单条状态流转请求
type UpdateCommissionStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateAdminCommissionStatus 单条状态流转 (Admin)
func (h *Handler) UpdateAdminCommissionStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req UpdateCommissionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	record, err := h.CommissionService.UpdateStatus(id, req.Status)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, record)
}

// BulkStatusRequest 批量状态流转请求
type BulkStatusRequest struct {
	IDs    []uint `json:"ids" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// BulkUpdateAdminCommissionStatus 批量状态流转 (Admin)
func (h *Handler) BulkUpdateAdminCommissionStatus(c *gin.Context) {
	var req BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	affected, err := h.CommissionService.BulkUpdateStatus(req.IDs, req.Status)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	shared.RequestLog(c).Infow("admin_commission_bulk_status",
		"status", req.Status, "requested", len(req.IDs), "affected", affected)
	response.Success(c, gin.H{"affected": affected})
}

// BulkDeleteRequest 批量删除请求
type BulkDeleteRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

// BulkDeleteAdminCommissions 批量删除佣金记录 (Admin)
func (h *Handler) BulkDeleteAdminCommissions(c *gin.Context) {
	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	deleted, err := h.CommissionService.BulkDelete(req.IDs)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": deleted})
}

// ImportAdminCommissions 导入佣金 CSV (Admin)
func (h *Handler) ImportAdminCommissions(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		shared.RespondError(c, response.CodeBadRequest, "缺少上传文件", err)
		return
	}
	defer file.Close()

	if maxSize := h.Config.Import.MaxSizeBytes; maxSize > 0 && header.Size > maxSize {
		shared.RespondError(c, response.CodeBadRequest, "文件超出大小限制", nil)
		return
	}

	result, err := h.CSVService.ImportCommissions(file)
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "导入失败", err)
		return
	}
	shared.RequestLog(c).Infow("admin_commission_import",
		"filename", header.Filename, "added", result.Added, "skipped", result.Skipped)
	response.Success(c, result)
}

// ExportAdminCommissions 导出佣金 CSV (Admin)
func (h *Handler) ExportAdminCommissions(c *gin.Context) {
	filter := repository.CommissionListFilter{
		AgentID:  c.Query("agent_id"),
		Status:   c.Query("status"),
		Provider: c.Query("provider"),
	}

	filename := fmt.Sprintf("commissions_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))

	if err := h.CSVService.ExportCommissions(c.Writer, filter); err != nil {
		shared.RequestLog(c).Errorw("admin_commission_export_failed", "error", err)
	}
}
