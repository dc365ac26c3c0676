package service

import (
	"strings"
	"time"

	"github.com/fintechful/agent-portal/internal/constants"
	"github.com/fintechful/agent-portal/internal/models"
	"github.com/fintechful/agent-portal/internal/repository"

	"github.com/google/uuid"
)

// PayoutService 打款记录业务服务
type PayoutService struct {
	payoutRepo  repository.PayoutRepository
	profileRepo repository.ProfileRepository
}

// NewPayoutService 创建打款记录服务
func NewPayoutService(payoutRepo repository.PayoutRepository, profileRepo repository.ProfileRepository) *PayoutService {
	return &PayoutService{
		payoutRepo:  payoutRepo,
		profileRepo: profileRepo,
	}
}

// RecordPayoutInput 登记打款输入
type RecordPayoutInput struct {
	AgentID     string
	AmountCents int64
	Method      string
	PaidAt      *time.Time
	Notes       string
}

// Record 登记一笔打款，流水号自动生成
func (s *PayoutService) Record(input RecordPayoutInput) (*models.Payout, error) {
	if input.AmountCents <= 0 {
		return nil, ErrInvalidInput
	}
	method := strings.TrimSpace(input.Method)
	if !isValidPayoutMethod(method) {
		return nil, ErrInvalidInput
	}
	agent, err := s.profileRepo.GetByClerkUserID(strings.TrimSpace(input.AgentID))
	if err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, ErrNotFound
	}

	paidAt := time.Now()
	if input.PaidAt != nil {
		paidAt = *input.PaidAt
	}
	payout := &models.Payout{
		AgentID:     agent.ClerkUserID,
		AmountCents: input.AmountCents,
		Method:      method,
		Reference:   "po_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		PaidAt:      paidAt,
		Notes:       input.Notes,
	}
	if err := s.payoutRepo.Create(payout); err != nil {
		return nil, err
	}
	return payout, nil
}

// List 查询打款记录列表
func (s *PayoutService) List(filter repository.PayoutListFilter) ([]models.Payout, int64, error) {
	return s.payoutRepo.List(filter)
}

// TotalPaidOut 合计某代理的历史打款金额
func (s *PayoutService) TotalPaidOut(agentID string) (int64, error) {
	return s.payoutRepo.SumByAgent(agentID)
}

func isValidPayoutMethod(method string) bool {
	switch method {
	case constants.PayoutMethodACH, constants.PayoutMethodCheck, constants.PayoutMethodWire:
		return true
	}
	return false
}
