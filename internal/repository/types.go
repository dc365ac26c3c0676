package repository

import "time"

// ProfileListFilter 查询代理档案列表的过滤条件
type ProfileListFilter struct {
	Page       int
	PageSize   int
	Search     string // 姓名 / 邮箱 / 子域模糊匹配
	Role       string
	ReferredBy string
}

// CommissionListFilter 查询佣金列表的过滤条件
type CommissionListFilter struct {
	Page        int
	PageSize    int
	AgentID     string
	Status      string
	Provider    string
	Search      string // 服务商 / 备注模糊匹配
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// SMBListFilter 查询商户推荐列表的过滤条件
type SMBListFilter struct {
	Page     int
	PageSize int
	AgentID  string
	Status   string
	Tier     string
	Search   string // 商户名称 / 负责人模糊匹配
}

// PayoutListFilter 查询打款记录列表的过滤条件
type PayoutListFilter struct {
	Page     int
	PageSize int
	AgentID  string
	Method   string
	PaidFrom *time.Time
	PaidTo   *time.Time
}
