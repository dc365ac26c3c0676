package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/fintechful/agent-portal/internal/commission"
	"github.com/fintechful/agent-portal/internal/constants"
	"github.com/fintechful/agent-portal/internal/models"

	"gorm.io/gorm"
)

// ProviderTotal 按服务商聚合的分成合计
type ProviderTotal struct {
	Provider   string `json:"provider"`
	TotalCents int64  `json:"total_cents"`
}

// OverrideStats 推荐人分成统计
type OverrideStats struct {
	LifetimeCents      int64 `json:"lifetime_cents"`
	LastMonthPaidCents int64 `json:"last_month_paid_cents"`
	PendingCents       int64 `json:"pending_cents"`
}

// StatusTotal 按状态聚合的台账合计
type StatusTotal struct {
	Status          string `json:"status"`
	Count           int64  `json:"count"`
	GrossCents      int64  `json:"gross_cents"`
	AgentShareCents int64  `json:"agent_share_cents"`
}

// AgentShareTotal 按代理聚合的分成合计
type AgentShareTotal struct {
	AgentID    string `json:"agent_id"`
	TotalCents int64  `json:"total_cents"`
}

// CommissionRepository 佣金台账数据访问接口
type CommissionRepository interface {
	Create(record *models.Commission) error
	Update(record *models.Commission) error
	GetByID(id uint) (*models.Commission, error)
	ListByIDs(ids []uint) ([]models.Commission, error)
	List(filter CommissionListFilter) ([]models.Commission, int64, error)
	ListForWindow(agentID string, wr commission.WindowRange) ([]models.Commission, error)
	UpdateStatusByIDs(ids []uint, status string, paidAt *time.Time) (int64, error)
	DeleteByIDs(ids []uint) (int64, error)
	SumAgentShareByStatus(agentID, status string) (int64, error)
	SumAgentSharePaidBetween(agentID string, start, end time.Time) (int64, error)
	ProviderTotals(agentID string, wr commission.WindowRange) ([]ProviderTotal, error)
	OverrideStatsBatch(agentIDs []string, lastMonthStart, lastMonthEnd time.Time) (map[string]*OverrideStats, error)
	StatusTotals() ([]StatusTotal, error)
	TopAgentsByPaidShare(limit int) ([]AgentShareTotal, error)
	WithTx(tx *gorm.DB) CommissionRepository
	Transaction(fn func(tx *gorm.DB) error) error
}

// GormCommissionRepository GORM 实现
type GormCommissionRepository struct {
	db *gorm.DB
}

// NewCommissionRepository 创建佣金台账仓库
func NewCommissionRepository(db *gorm.DB) *GormCommissionRepository {
	return &GormCommissionRepository{db: db}
}

// WithTx 返回绑定事务的仓库实例
func (r *GormCommissionRepository) WithTx(tx *gorm.DB) CommissionRepository {
	if tx == nil {
		return r
	}
	return &GormCommissionRepository{db: tx}
}

// Transaction 在事务中执行
func (r *GormCommissionRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

// Create 创建佣金记录
func (r *GormCommissionRepository) Create(record *models.Commission) error {
	return r.db.Create(record).Error
}

// Update 更新佣金记录
func (r *GormCommissionRepository) Update(record *models.Commission) error {
	return r.db.Save(record).Error
}

// GetByID 根据主键获取佣金记录
func (r *GormCommissionRepository) GetByID(id uint) (*models.Commission, error) {
	var record models.Commission
	if err := r.db.First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// ListByIDs 按主键列表查询
func (r *GormCommissionRepository) ListByIDs(ids []uint) ([]models.Commission, error) {
	records := make([]models.Commission, 0)
	if len(ids) == 0 {
		return records, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// List 查询佣金列表，时间倒序
func (r *GormCommissionRepository) List(filter CommissionListFilter) ([]models.Commission, int64, error) {
	query := r.db.Model(&models.Commission{})

	if filter.AgentID != "" {
		query = query.Where("agent_id = ?", filter.AgentID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Provider != "" {
		query = query.Where("provider = ?", filter.Provider)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		op := likeOperator(r.db)
		query = query.Where(fmt.Sprintf("provider %s ? OR notes %s ?", op, op), like, like)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at < ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	records := make([]models.Commission, 0)
	err := paginate(query, filter.Page, filter.PageSize).
		Order("created_at DESC, id DESC").
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ListForWindow 查询窗口内的全部记录，供月度分桶使用
func (r *GormCommissionRepository) ListForWindow(agentID string, wr commission.WindowRange) ([]models.Commission, error) {
	records := make([]models.Commission, 0)
	query := r.db.Model(&models.Commission{})
	if agentID != "" {
		query = query.Where("agent_id = ?", agentID)
	}
	err := applyWindow(query, wr).
		Order("created_at ASC, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// UpdateStatusByIDs 批量更新状态，仅对待结算记录生效，返回受影响行数
func (r *GormCommissionRepository) UpdateStatusByIDs(ids []uint, status string, paidAt *time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	updates := map[string]interface{}{"status": status}
	if paidAt != nil {
		updates["paid_at"] = *paidAt
	}
	result := r.db.Model(&models.Commission{}).
		Where("id IN ?", ids).
		Where("status = ?", constants.CommissionStatusPending).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// DeleteByIDs 按主键列表批量删除（软删除），返回受影响行数
func (r *GormCommissionRepository) DeleteByIDs(ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Delete(&models.Commission{}, ids)
	return result.RowsAffected, result.Error
}

// SumAgentShareByStatus 按状态合计代理分成
func (r *GormCommissionRepository) SumAgentShareByStatus(agentID, status string) (int64, error) {
	var row struct{ Total int64 }
	query := r.db.Model(&models.Commission{}).
		Select("COALESCE(SUM(agent_share_cents), 0) AS total")
	if agentID != "" {
		query = query.Where("agent_id = ?", agentID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Scan(&row).Error; err != nil {
		return 0, err
	}
	return row.Total, nil
}

// SumAgentSharePaidBetween 合计区间内已支付的代理分成，
// 缺失 paid_at 的已支付记录按创建时间归属。
func (r *GormCommissionRepository) SumAgentSharePaidBetween(agentID string, start, end time.Time) (int64, error) {
	var row struct{ Total int64 }
	err := r.db.Model(&models.Commission{}).
		Select("COALESCE(SUM(agent_share_cents), 0) AS total").
		Where("agent_id = ?", agentID).
		Where("status = ?", constants.CommissionStatusPaid).
		Where("COALESCE(paid_at, created_at) >= ? AND COALESCE(paid_at, created_at) < ?", start, end).
		Scan(&row).Error
	if err != nil {
		return 0, err
	}
	return row.Total, nil
}

// ProviderTotals 按服务商聚合窗口内的代理分成，合计倒序。
// 分组键为原始服务商字符串，不做任何归一化。
func (r *GormCommissionRepository) ProviderTotals(agentID string, wr commission.WindowRange) ([]ProviderTotal, error) {
	rows := make([]ProviderTotal, 0)
	query := r.db.Model(&models.Commission{}).
		Select("provider, COALESCE(SUM(agent_share_cents), 0) AS total_cents").
		Where("agent_id = ?", agentID)
	err := applyWindow(query, wr).
		Group("provider").
		Order("total_cents DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// OverrideStatsBatch 批量统计一组代理的推荐人分成：
// 终身合计、上月已支付、待支付。
func (r *GormCommissionRepository) OverrideStatsBatch(agentIDs []string, lastMonthStart, lastMonthEnd time.Time) (map[string]*OverrideStats, error) {
	stats := make(map[string]*OverrideStats, len(agentIDs))
	if len(agentIDs) == 0 {
		return stats, nil
	}
	for _, id := range agentIDs {
		stats[id] = &OverrideStats{}
	}

	type agentSum struct {
		AgentID string
		Total   int64
	}

	lifetime := make([]agentSum, 0)
	err := r.db.Model(&models.Commission{}).
		Select("agent_id, COALESCE(SUM(override_share_cents), 0) AS total").
		Where("agent_id IN ?", agentIDs).
		Group("agent_id").
		Scan(&lifetime).Error
	if err != nil {
		return nil, err
	}
	for _, row := range lifetime {
		if s, ok := stats[row.AgentID]; ok {
			s.LifetimeCents = row.Total
		}
	}

	lastMonth := make([]agentSum, 0)
	err = r.db.Model(&models.Commission{}).
		Select("agent_id, COALESCE(SUM(override_share_cents), 0) AS total").
		Where("agent_id IN ?", agentIDs).
		Where("status = ?", constants.CommissionStatusPaid).
		Where("COALESCE(paid_at, created_at) >= ? AND COALESCE(paid_at, created_at) < ?", lastMonthStart, lastMonthEnd).
		Group("agent_id").
		Scan(&lastMonth).Error
	if err != nil {
		return nil, err
	}
	for _, row := range lastMonth {
		if s, ok := stats[row.AgentID]; ok {
			s.LastMonthPaidCents = row.Total
		}
	}

	pending := make([]agentSum, 0)
	err = r.db.Model(&models.Commission{}).
		Select("agent_id, COALESCE(SUM(override_share_cents), 0) AS total").
		Where("agent_id IN ?", agentIDs).
		Where("status = ?", constants.CommissionStatusPending).
		Group("agent_id").
		Scan(&pending).Error
	if err != nil {
		return nil, err
	}
	for _, row := range pending {
		if s, ok := stats[row.AgentID]; ok {
			s.PendingCents = row.Total
		}
	}

	return stats, nil
}

// StatusTotals 按状态聚合全量台账，供管理后台概览使用
func (r *GormCommissionRepository) StatusTotals() ([]StatusTotal, error) {
	rows := make([]StatusTotal, 0)
	err := r.db.Model(&models.Commission{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(gross_cents), 0) AS gross_cents, COALESCE(SUM(agent_share_cents), 0) AS agent_share_cents").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TopAgentsByPaidShare 按已支付分成倒序的代理排行
func (r *GormCommissionRepository) TopAgentsByPaidShare(limit int) ([]AgentShareTotal, error) {
	if limit <= 0 {
		limit = 10
	}
	rows := make([]AgentShareTotal, 0)
	err := r.db.Model(&models.Commission{}).
		Select("agent_id, COALESCE(SUM(agent_share_cents), 0) AS total_cents").
		Where("status = ?", constants.CommissionStatusPaid).
		Group("agent_id").
		Order("total_cents DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// applyWindow 应用报表窗口过滤：仅支付窗口按支付时间归属并限定已支付状态
func applyWindow(query *gorm.DB, wr commission.WindowRange) *gorm.DB {
	if wr.PaidOnly {
		return query.
			Where("status = ?", constants.CommissionStatusPaid).
			Where("COALESCE(paid_at, created_at) >= ? AND COALESCE(paid_at, created_at) < ?", wr.Start, wr.End)
	}
	return query.Where("created_at >= ? AND created_at < ?", wr.Start, wr.End)
}
