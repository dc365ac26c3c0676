package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fintechful/agent-portal/internal/logger"
	"github.com/fintechful/agent-portal/internal/models"
	"github.com/fintechful/agent-portal/internal/provider"
	"github.com/fintechful/agent-portal/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCommissionPaid, c.handleCommissionPaid)
	mux.HandleFunc(queue.TaskSMBRecurringRoll, c.handleSMBRecurringRoll)
}

func (c *Consumer) handleCommissionPaid(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_commission_paid_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.CommissionPaidPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_commission_paid_unmarshal_failed", "error", err)
		return err
	}
	if payload.CommissionID == 0 {
		logger.Debugw("worker_commission_paid_skip_invalid_payload", "commission_id", payload.CommissionID)
		return nil
	}
	record, err := c.CommissionRepo.GetByID(payload.CommissionID)
	if err != nil {
		logger.Warnw("worker_commission_paid_fetch_failed", "commission_id", payload.CommissionID, "error", err)
		return err
	}
	if record == nil {
		logger.Debugw("worker_commission_paid_skip_not_found", "commission_id", payload.CommissionID)
		return nil
	}

	agentID := strings.TrimSpace(payload.AgentID)
	if agentID == "" {
		agentID = record.AgentID
	}
	profile, err := c.ProfileRepo.GetByClerkUserID(agentID)
	if err != nil {
		logger.Warnw("worker_commission_paid_fetch_agent_failed", "commission_id", record.ID, "agent_id", agentID, "error", err)
		return err
	}
	if profile == nil {
		logger.Debugw("worker_commission_paid_skip_agent_not_found", "commission_id", record.ID, "agent_id", agentID)
		return nil
	}

	logger.Infow("commission_paid_notification",
		"commission_id", record.ID,
		"agent_id", profile.ClerkUserID,
		"agent_email", profile.Email,
		"provider", record.Provider,
		"message", buildCommissionPaidMessage(profile, record),
	)
	return nil
}

func (c *Consumer) handleSMBRecurringRoll(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_smb_recurring_roll_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.SMBRecurringRollPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_smb_recurring_roll_unmarshal_failed", "error", err)
		return err
	}
	if c.SMBService == nil {
		logger.Warnw("worker_smb_recurring_roll_skip_service_nil", "month", payload.Month)
		return nil
	}
	created, err := c.SMBService.RollRecurring(payload.Month, timeNow())
	if err != nil {
		logger.Warnw("worker_smb_recurring_roll_failed", "month", payload.Month, "error", err)
		return err
	}
	logger.Infow("worker_smb_recurring_roll_done", "month", payload.Month, "created", created)
	return nil
}

func buildCommissionPaidMessage(profile *models.Profile, record *models.Commission) string {
	if profile == nil || record == nil {
		return ""
	}
	name := strings.TrimSpace(profile.FullName)
	if name == "" {
		name = profile.Subdomain
	}
	return fmt.Sprintf("%s：您来自 %s 的佣金 $%s 已结清", name, record.Provider, models.FormatCents(record.AgentShareCents))
}
