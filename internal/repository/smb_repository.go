package repository

import (
	"errors"
	"fmt"

	"github.com/fintechful/agent-portal/internal/constants"
	"github.com/fintechful/agent-portal/internal/models"

	"gorm.io/gorm"
)

// SMBRepository 商户推荐数据访问接口
type SMBRepository interface {
	Create(referral *models.SMBReferral) error
	Update(referral *models.SMBReferral) error
	GetByID(id uint) (*models.SMBReferral, error)
	List(filter SMBListFilter) ([]models.SMBReferral, int64, error)
	ListActive() ([]models.SMBReferral, error)
	WithTx(tx *gorm.DB) SMBRepository
}

// GormSMBRepository GORM 实现
type GormSMBRepository struct {
	db *gorm.DB
}

// NewSMBRepository 创建商户推荐仓库
func NewSMBRepository(db *gorm.DB) *GormSMBRepository {
	return &GormSMBRepository{db: db}
}

// WithTx 返回绑定事务的仓库实例
func (r *GormSMBRepository) WithTx(tx *gorm.DB) SMBRepository {
	if tx == nil {
		return r
	}
	return &GormSMBRepository{db: tx}
}

// Create 创建商户推荐
func (r *GormSMBRepository) Create(referral *models.SMBReferral) error {
	return r.db.Create(referral).Error
}

// Update 更新商户推荐
func (r *GormSMBRepository) Update(referral *models.SMBReferral) error {
	return r.db.Save(referral).Error
}

// GetByID 根据主键获取商户推荐
func (r *GormSMBRepository) GetByID(id uint) (*models.SMBReferral, error) {
	var referral models.SMBReferral
	if err := r.db.First(&referral, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &referral, nil
}

// List 查询商户推荐列表
func (r *GormSMBRepository) List(filter SMBListFilter) ([]models.SMBReferral, int64, error) {
	query := r.db.Model(&models.SMBReferral{})

	if filter.AgentID != "" {
		query = query.Where("agent_id = ?", filter.AgentID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Tier != "" {
		query = query.Where("tier = ?", filter.Tier)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		op := likeOperator(r.db)
		query = query.Where(fmt.Sprintf("business_name %s ? OR owner_name %s ?", op, op), like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	referrals := make([]models.SMBReferral, 0)
	err := paginate(query, filter.Page, filter.PageSize).
		Order("created_at DESC").
		Find(&referrals).Error
	if err != nil {
		return nil, 0, err
	}
	return referrals, total, nil
}

// ListActive 查询全部活跃商户，供周期性佣金生成使用
func (r *GormSMBRepository) ListActive() ([]models.SMBReferral, error) {
	referrals := make([]models.SMBReferral, 0)
	err := r.db.Where("status = ?", constants.SMBStatusActive).
		Order("id ASC").
		Find(&referrals).Error
	if err != nil {
		return nil, err
	}
	return referrals, nil
}
