package repository

import (
	"errors"
	"fmt"

	"github.com/fintechful/agent-portal/internal/models"

	"gorm.io/gorm"
)

// ProfileRepository 代理档案数据访问接口
type ProfileRepository interface {
	Create(profile *models.Profile) error
	Update(profile *models.Profile) error
	GetByID(id uint) (*models.Profile, error)
	GetByClerkUserID(clerkUserID string) (*models.Profile, error)
	GetBySubdomain(subdomain string) (*models.Profile, error)
	List(filter ProfileListFilter) ([]models.Profile, int64, error)
	ListByReferrer(clerkUserID string) ([]models.Profile, error)
	CountByReferrer(clerkUserID string) (int64, error)
	Count() (int64, error)
	WithTx(tx *gorm.DB) ProfileRepository
	Transaction(fn func(tx *gorm.DB) error) error
}

// GormProfileRepository GORM 实现
type GormProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository 创建代理档案仓库
func NewProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// WithTx 返回绑定事务的仓库实例
func (r *GormProfileRepository) WithTx(tx *gorm.DB) ProfileRepository {
	if tx == nil {
		return r
	}
	return &GormProfileRepository{db: tx}
}

// Transaction 在事务中执行
func (r *GormProfileRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

// Create 创建代理档案
func (r *GormProfileRepository) Create(profile *models.Profile) error {
	return r.db.Create(profile).Error
}

// Update 更新代理档案
func (r *GormProfileRepository) Update(profile *models.Profile) error {
	return r.db.Save(profile).Error
}

// GetByID 根据主键获取档案
func (r *GormProfileRepository) GetByID(id uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.First(&profile, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// GetByClerkUserID 根据身份服务用户ID获取档案
func (r *GormProfileRepository) GetByClerkUserID(clerkUserID string) (*models.Profile, error) {
	if clerkUserID == "" {
		return nil, nil
	}
	var profile models.Profile
	if err := r.db.Where("clerk_user_id = ?", clerkUserID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// GetBySubdomain 根据门店子域获取档案
func (r *GormProfileRepository) GetBySubdomain(subdomain string) (*models.Profile, error) {
	if subdomain == "" {
		return nil, nil
	}
	var profile models.Profile
	if err := r.db.Where("subdomain = ?", subdomain).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// List 查询代理档案列表
func (r *GormProfileRepository) List(filter ProfileListFilter) ([]models.Profile, int64, error) {
	query := r.db.Model(&models.Profile{})

	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.ReferredBy != "" {
		query = query.Where("referred_by = ?", filter.ReferredBy)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		op := likeOperator(r.db)
		cond := fmt.Sprintf("full_name %s ? OR email %s ? OR subdomain %s ?", op, op, op)
		query = query.Where(cond, like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	profiles := make([]models.Profile, 0)
	err := paginate(query, filter.Page, filter.PageSize).
		Order("created_at DESC").
		Find(&profiles).Error
	if err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

// ListByReferrer 查询直接下线（仅一跳，不做递归展开）
func (r *GormProfileRepository) ListByReferrer(clerkUserID string) ([]models.Profile, error) {
	profiles := make([]models.Profile, 0)
	if clerkUserID == "" {
		return profiles, nil
	}
	err := r.db.Where("referred_by = ?", clerkUserID).
		Order("created_at ASC").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// CountByReferrer 统计直接下线数量
func (r *GormProfileRepository) CountByReferrer(clerkUserID string) (int64, error) {
	var count int64
	if clerkUserID == "" {
		return 0, nil
	}
	err := r.db.Model(&models.Profile{}).
		Where("referred_by = ?", clerkUserID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Count 统计代理总数
func (r *GormProfileRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Profile{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
