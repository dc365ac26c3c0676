package models

import (
	"time"

	"gorm.io/gorm"
)

// Commission 佣金台账记录。agent_share / override_share 为 gross 的派生值，
// 任何修改 gross 的写路径都必须重新计算两者。
type Commission struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                                            // 主键
	AgentID            string         `gorm:"type:varchar(64);not null;index" json:"agent_id"`                 // 归属代理 clerk_user_id
	Provider           string         `gorm:"type:varchar(128);not null" json:"provider"`                      // 服务商名称（自由文本）
	GrossCents         int64          `gorm:"not null;default:0" json:"gross_cents"`                           // 佣金总额（美分）
	AgentShareCents    int64          `gorm:"not null;default:0" json:"agent_share_cents"`                     // 代理分成（美分）
	OverrideShareCents int64          `gorm:"not null;default:0" json:"override_share_cents"`                  // 推荐人分成（美分）
	Status             string         `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"` // pending / paid / rejected
	ProviderDate       *time.Time     `json:"provider_date,omitempty"`                                         // 服务商结算日期
	PaidAt             *time.Time     `gorm:"index" json:"paid_at,omitempty"`                                  // 支付时间
	Notes              string         `gorm:"type:text" json:"notes"`                                          // 备注
	Recurring          bool           `gorm:"not null;default:false" json:"recurring"`                         // 是否周期性收入
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                                         // 创建（导入）时间
	UpdatedAt          time.Time      `json:"updated_at"`                                                      // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                                  // 软删除时间
}

// TableName 指定表名
func (Commission) TableName() string {
	return "commissions"
}

// EffectivePaidAt 窗口归属时间：已支付记录缺失 paid_at 时回退 created_at
func (c *Commission) EffectivePaidAt() time.Time {
	if c.PaidAt != nil {
		return *c.PaidAt
	}
	return c.CreatedAt
}
