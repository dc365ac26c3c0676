package service

import (
	"strings"
	"time"

	"github.com/fintechful/agent-portal/internal/commission"
	"github.com/fintechful/agent-portal/internal/constants"
	"github.com/fintechful/agent-portal/internal/logger"
	"github.com/fintechful/agent-portal/internal/models"
	"github.com/fintechful/agent-portal/internal/queue"
	"github.com/fintechful/agent-portal/internal/repository"
)

// CommissionService 佣金台账业务服务
type CommissionService struct {
	commissionRepo repository.CommissionRepository
	profileRepo    repository.ProfileRepository
	queueClient    *queue.Client
}

// NewCommissionService 创建佣金台账服务
func NewCommissionService(commissionRepo repository.CommissionRepository, profileRepo repository.ProfileRepository, queueClient *queue.Client) *CommissionService {
	return &CommissionService{
		commissionRepo: commissionRepo,
		profileRepo:    profileRepo,
		queueClient:    queueClient,
	}
}

// CreateCommissionInput 创建佣金记录输入
type CreateCommissionInput struct {
	AgentID      string
	Provider     string
	GrossCents   int64
	Status       string
	ProviderDate *time.Time
	Notes        string
	Recurring    bool
}

// UpdateCommissionInput 更新佣金记录输入（nil 表示不修改）
type UpdateCommissionInput struct {
	Provider     *string
	GrossCents   *int64
	ProviderDate *time.Time
	Notes        *string
	Recurring    *bool
}

// Create 创建佣金记录，分成按代理当前推荐关系计算并落库
func (s *CommissionService) Create(input CreateCommissionInput) (*models.Commission, error) {
	provider := strings.TrimSpace(input.Provider)
	if provider == "" {
		return nil, ErrInvalidInput
	}
	agent, err := s.profileRepo.GetByClerkUserID(strings.TrimSpace(input.AgentID))
	if err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, ErrNotFound
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = constants.CommissionStatusPending
	}
	if !isValidCommissionStatus(status) {
		return nil, ErrInvalidStatus
	}

	agentShare, overrideShare, err := commission.Split(input.GrossCents, agent.HasReferrer())
	if err != nil {
		return nil, ErrInvalidInput
	}

	record := &models.Commission{
		AgentID:            agent.ClerkUserID,
		Provider:           provider,
		GrossCents:         input.GrossCents,
		AgentShareCents:    agentShare,
		OverrideShareCents: overrideShare,
		Status:             status,
		ProviderDate:       input.ProviderDate,
		Notes:              input.Notes,
		Recurring:          input.Recurring,
	}
	if status == constants.CommissionStatusPaid {
		now := time.Now()
		record.PaidAt = &now
	}
	if err := s.commissionRepo.Create(record); err != nil {
		return nil, err
	}
	if record.Status == constants.CommissionStatusPaid {
		s.notifyPaid(record)
	}
	return record, nil
}

// Update 更新佣金记录。金额变更时按代理当前推荐关系重算分成；
// 已支付记录允许修改，但金额变更会记录告警日志。
func (s *CommissionService) Update(id uint, input UpdateCommissionInput) (*models.Commission, error) {
	record, err := s.commissionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrNotFound
	}

	if input.Provider != nil {
		provider := strings.TrimSpace(*input.Provider)
		if provider == "" {
			return nil, ErrInvalidInput
		}
		record.Provider = provider
	}
	if input.GrossCents != nil && *input.GrossCents != record.GrossCents {
		agent, err := s.profileRepo.GetByClerkUserID(record.AgentID)
		if err != nil {
			return nil, err
		}
		hasReferrer := agent != nil && agent.HasReferrer()
		agentShare, overrideShare, err := commission.Split(*input.GrossCents, hasReferrer)
		if err != nil {
			return nil, ErrInvalidInput
		}
		if record.Status == constants.CommissionStatusPaid {
			logger.Warnw("paid_commission_amount_changed",
				"commission_id", record.ID,
				"agent_id", record.AgentID,
				"old_gross_cents", record.GrossCents,
				"new_gross_cents", *input.GrossCents)
		}
		record.GrossCents = *input.GrossCents
		record.AgentShareCents = agentShare
		record.OverrideShareCents = overrideShare
	}
	if input.ProviderDate != nil {
		record.ProviderDate = input.ProviderDate
	}
	if input.Notes != nil {
		record.Notes = *input.Notes
	}
	if input.Recurring != nil {
		record.Recurring = *input.Recurring
	}

	if err := s.commissionRepo.Update(record); err != nil {
		return nil, err
	}
	return record, nil
}

// UpdateStatus 单条状态流转：pending -> paid / rejected
func (s *CommissionService) UpdateStatus(id uint, status string) (*models.Commission, error) {
	status = strings.TrimSpace(status)
	if status != constants.CommissionStatusPaid && status != constants.CommissionStatusRejected {
		return nil, ErrInvalidStatus
	}
	record, err := s.commissionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrNotFound
	}
	if record.Status != constants.CommissionStatusPending {
		return nil, ErrInvalidTransition
	}

	record.Status = status
	if status == constants.CommissionStatusPaid {
		now := time.Now()
		record.PaidAt = &now
	}
	if err := s.commissionRepo.Update(record); err != nil {
		return nil, err
	}
	if record.Status == constants.CommissionStatusPaid {
		s.notifyPaid(record)
	}
	return record, nil
}

// BulkUpdateStatus 批量状态流转，仅流转待结算记录，返回实际流转条数
func (s *CommissionService) BulkUpdateStatus(ids []uint, status string) (int64, error) {
	status = strings.TrimSpace(status)
	if status != constants.CommissionStatusPaid && status != constants.CommissionStatusRejected {
		return 0, ErrInvalidStatus
	}
	if len(ids) == 0 {
		return 0, ErrInvalidInput
	}
	var paidAt *time.Time
	if status == constants.CommissionStatusPaid {
		now := time.Now()
		paidAt = &now
	}
	affected, err := s.commissionRepo.UpdateStatusByIDs(ids, status, paidAt)
	if err != nil {
		return 0, err
	}
	if status == constants.CommissionStatusPaid && affected > 0 {
		records, listErr := s.commissionRepo.ListByIDs(ids)
		if listErr != nil {
			logger.Warnw("commission_bulk_paid_notify_fetch_failed", "error", listErr)
			return affected, nil
		}
		for i := range records {
			if records[i].Status != constants.CommissionStatusPaid {
				continue
			}
			s.notifyPaid(&records[i])
		}
	}
	return affected, nil
}

// BulkDelete 批量删除佣金记录，返回删除条数
func (s *CommissionService) BulkDelete(ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrInvalidInput
	}
	return s.commissionRepo.DeleteByIDs(ids)
}

// GetByID 根据主键获取佣金记录
func (s *CommissionService) GetByID(id uint) (*models.Commission, error) {
	record, err := s.commissionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrNotFound
	}
	return record, nil
}

// List 查询佣金列表
func (s *CommissionService) List(filter repository.CommissionListFilter) ([]models.Commission, int64, error) {
	return s.commissionRepo.List(filter)
}

func (s *CommissionService) notifyPaid(record *models.Commission) {
	err := s.queueClient.EnqueueCommissionPaid(queue.CommissionPaidPayload{
		CommissionID: record.ID,
		AgentID:      record.AgentID,
	})
	if err != nil {
		logger.Warnw("commission_paid_enqueue_failed", "commission_id", record.ID, "error", err)
	}
}

func isValidCommissionStatus(status string) bool {
	switch status {
	case constants.CommissionStatusPending, constants.CommissionStatusPaid, constants.CommissionStatusRejected:
		return true
	}
	return false
}
