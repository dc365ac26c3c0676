package repository

import (
	"errors"

	"github.com/fintechful/agent-portal/internal/models"

	"gorm.io/gorm"
)

// PayoutRepository 打款记录数据访问接口（追加写入）
type PayoutRepository interface {
	Create(payout *models.Payout) error
	GetByID(id uint) (*models.Payout, error)
	List(filter PayoutListFilter) ([]models.Payout, int64, error)
	SumByAgent(agentID string) (int64, error)
}

// GormPayoutRepository GORM 实现
type GormPayoutRepository struct {
	db *gorm.DB
}

// NewPayoutRepository 创建打款记录仓库
func NewPayoutRepository(db *gorm.DB) *GormPayoutRepository {
	return &GormPayoutRepository{db: db}
}

// Create 创建打款记录
func (r *GormPayoutRepository) Create(payout *models.Payout) error {
	return r.db.Create(payout).Error
}

// GetByID 根据主键获取打款记录
func (r *GormPayoutRepository) GetByID(id uint) (*models.Payout, error) {
	var payout models.Payout
	if err := r.db.First(&payout, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payout, nil
}

// List 查询打款记录列表，打款日期倒序
func (r *GormPayoutRepository) List(filter PayoutListFilter) ([]models.Payout, int64, error) {
	query := r.db.Model(&models.Payout{})

	if filter.AgentID != "" {
		query = query.Where("agent_id = ?", filter.AgentID)
	}
	if filter.Method != "" {
		query = query.Where("method = ?", filter.Method)
	}
	if filter.PaidFrom != nil {
		query = query.Where("paid_at >= ?", *filter.PaidFrom)
	}
	if filter.PaidTo != nil {
		query = query.Where("paid_at < ?", *filter.PaidTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	payouts := make([]models.Payout, 0)
	err := paginate(query, filter.Page, filter.PageSize).
		Order("paid_at DESC, id DESC").
		Find(&payouts).Error
	if err != nil {
		return nil, 0, err
	}
	return payouts, total, nil
}

// SumByAgent 合计某代理的历史打款金额
func (r *GormPayoutRepository) SumByAgent(agentID string) (int64, error) {
	var row struct{ Total int64 }
	err := r.db.Model(&models.Payout{}).
		Select("COALESCE(SUM(amount_cents), 0) AS total").
		Where("agent_id = ?", agentID).
		Scan(&row).Error
	if err != nil {
		return 0, err
	}
	return row.Total, nil
}
