package models

import (
	"time"

	"gorm.io/gorm"
)

// SMBReferral 代理推荐的商户客户，驱动并行的周期性佣金流
type SMBReferral struct {
	ID                  uint           `gorm:"primarykey" json:"id"`                                           // 主键
	AgentID             string         `gorm:"type:varchar(64);not null;index" json:"agent_id"`                // 归属代理 clerk_user_id
	BusinessName        string         `gorm:"type:varchar(255);not null" json:"business_name"`                // 商户名称
	OwnerName           string         `gorm:"type:varchar(128)" json:"owner_name"`                            // 负责人姓名
	OwnerEmail          string         `gorm:"type:varchar(255)" json:"owner_email"`                           // 负责人邮箱
	OwnerPhone          string         `gorm:"type:varchar(32)" json:"owner_phone"`                            // 负责人电话
	Tier                string         `gorm:"type:varchar(32)" json:"tier"`                                   // 等级标签
	Location            string         `gorm:"type:varchar(255)" json:"location"`                              // 所在地
	MonthlyRevenueCents int64          `gorm:"not null;default:0" json:"monthly_revenue_cents"`                // 月营收（美分）
	Status              string         `gorm:"type:varchar(20);not null;default:'active';index" json:"status"` // active / churned
	CreatedAt           time.Time      `gorm:"index" json:"created_at"`                                        // 创建时间
	UpdatedAt           time.Time      `json:"updated_at"`                                                     // 更新时间
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`                                                 // 软删除时间
}

// TableName 指定表名
func (SMBReferral) TableName() string {
	return "smb_referrals"
}
