package models

import (
	"time"

	"gorm.io/gorm"
)

// Profile 代理档案，主键为身份服务下发的 clerk_user_id
type Profile struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                        // 主键
	ClerkUserID string         `gorm:"type:varchar(64);not null;uniqueIndex" json:"clerk_user_id"`  // 身份服务用户ID
	FullName    string         `gorm:"type:varchar(128);not null" json:"full_name"`                 // 姓名
	Email       string         `gorm:"type:varchar(255);not null;index" json:"email"`               // 邮箱
	Phone       string         `gorm:"type:varchar(32)" json:"phone"`                               // 电话
	AvatarURL   string         `gorm:"type:varchar(512)" json:"avatar_url"`                         // 头像地址
	Tagline     string         `gorm:"type:varchar(255)" json:"tagline"`                            // 门店标语
	Bio         string         `gorm:"type:text" json:"bio"`                                        // 门店简介
	Subdomain   string         `gorm:"type:varchar(63);not null;uniqueIndex" json:"subdomain"`      // 门店子域
	Role        string         `gorm:"type:varchar(20);not null;default:'agent';index" json:"role"` // agent / super_admin
	ReferredBy  *string        `gorm:"type:varchar(64);index" json:"referred_by,omitempty"`         // 推荐人 clerk_user_id（仅一跳）
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                                  // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                              // 软删除时间
}

// TableName 指定表名
func (Profile) TableName() string {
	return "profiles"
}

// HasReferrer 是否有推荐人
func (p *Profile) HasReferrer() bool {
	return p.ReferredBy != nil && *p.ReferredBy != ""
}
