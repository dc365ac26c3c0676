package queue

import (
	"encoding/json"

	"github.com/fintechful/agent-portal/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCommissionPaid 佣金结清通知任务
	TaskCommissionPaid = constants.TaskCommissionPaid
	// TaskSMBRecurringRoll 商户月度续期入账任务
	TaskSMBRecurringRoll = constants.TaskSMBRecurringRoll
)

// CommissionPaidPayload 佣金结清通知载荷
type CommissionPaidPayload struct {
	CommissionID uint   `json:"commission_id"`
	AgentID      string `json:"agent_id"`
}

// SMBRecurringRollPayload 商户月度续期入账载荷
type SMBRecurringRollPayload struct {
	Month string `json:"month"` // 目标月份，格式 2006-01；为空表示当月
}

// NewCommissionPaidTask 创建佣金结清通知任务
func NewCommissionPaidTask(payload CommissionPaidPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCommissionPaid, body), nil
}

// NewSMBRecurringRollTask 创建商户月度续期入账任务
func NewSMBRecurringRollTask(payload SMBRecurringRollPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSMBRecurringRoll, body), nil
}
