package models

import (
	"time"
)

// Payout 打款记录，追加写入不可修改
type Payout struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                   // 主键
	AgentID     string    `gorm:"type:varchar(64);not null;index" json:"agent_id"`        // 收款代理 clerk_user_id
	AmountCents int64     `gorm:"not null" json:"amount_cents"`                           // 打款金额（美分）
	Method      string    `gorm:"type:varchar(32);not null" json:"method"`                // 打款方式
	Reference   string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"reference"` // 打款流水号
	PaidAt      time.Time `gorm:"index" json:"paid_at"`                                   // 打款日期
	Notes       string    `gorm:"type:text" json:"notes"`                                 // 备注
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                                // 创建时间
}

// TableName 指定表名
func (Payout) TableName() string {
	return "payouts"
}
