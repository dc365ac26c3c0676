package constants

// 代理角色常量
const (
	RoleAgent      = "agent"
	RoleSuperAdmin = "super_admin"
)

// 佣金状态常量
const (
	CommissionStatusPending  = "pending"
	CommissionStatusPaid     = "paid"
	CommissionStatusRejected = "rejected"
)

// 商户推荐状态常量
const (
	SMBStatusActive  = "active"
	SMBStatusChurned = "churned"
)

// 商户等级常量
const (
	SMBTierStarter    = "starter"
	SMBTierGrowth     = "growth"
	SMBTierEnterprise = "enterprise"
)

// 佣金报表时间窗口常量
const (
	WindowThisMonth    = "thisMonth"
	WindowLastMonth    = "lastMonth"
	WindowYTD          = "ytd"
	WindowLast12Months = "last12Months"
)

// 付款方式常量
const (
	PayoutMethodACH   = "ach"
	PayoutMethodCheck = "check"
	PayoutMethodWire  = "wire"
)

// 队列常量
const (
	QueueDefault         = "default"
	QueueCritical        = "critical"
	TaskCommissionPaid   = "commission:paid"
	TaskSMBRecurringRoll = "smb:recurring_roll"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "ftf"
)
