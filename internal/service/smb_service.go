package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/fintechful/agent-portal/internal/commission"
	"github.com/fintechful/agent-portal/internal/constants"
	"github.com/fintechful/agent-portal/internal/logger"
	"github.com/fintechful/agent-portal/internal/models"
	"github.com/fintechful/agent-portal/internal/repository"
)

// SMBService 商户推荐业务服务
type SMBService struct {
	smbRepo        repository.SMBRepository
	profileRepo    repository.ProfileRepository
	commissionRepo repository.CommissionRepository
}

// NewSMBService 创建商户推荐服务
func NewSMBService(smbRepo repository.SMBRepository, profileRepo repository.ProfileRepository, commissionRepo repository.CommissionRepository) *SMBService {
	return &SMBService{
		smbRepo:        smbRepo,
		profileRepo:    profileRepo,
		commissionRepo: commissionRepo,
	}
}

// RegisterSMBInput 登记商户推荐输入
type RegisterSMBInput struct {
	AgentID             string
	BusinessName        string
	OwnerName           string
	OwnerEmail          string
	OwnerPhone          string
	Tier                string
	Location            string
	MonthlyRevenueCents int64
}

// UpdateSMBInput 更新商户推荐输入（nil 表示不修改）
type UpdateSMBInput struct {
	BusinessName        *string
	OwnerName           *string
	OwnerEmail          *string
	OwnerPhone          *string
	Tier                *string
	Location            *string
	MonthlyRevenueCents *int64
	Status              *string
}

// Register 登记一条商户推荐
func (s *SMBService) Register(input RegisterSMBInput) (*models.SMBReferral, error) {
	businessName := strings.TrimSpace(input.BusinessName)
	if businessName == "" {
		return nil, ErrInvalidInput
	}
	if input.MonthlyRevenueCents < 0 {
		return nil, ErrInvalidInput
	}
	agent, err := s.profileRepo.GetByClerkUserID(strings.TrimSpace(input.AgentID))
	if err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, ErrNotFound
	}
	tier := strings.TrimSpace(input.Tier)
	if tier != "" && !isValidSMBTier(tier) {
		return nil, ErrInvalidInput
	}

	referral := &models.SMBReferral{
		AgentID:             agent.ClerkUserID,
		BusinessName:        businessName,
		OwnerName:           strings.TrimSpace(input.OwnerName),
		OwnerEmail:          strings.TrimSpace(input.OwnerEmail),
		OwnerPhone:          strings.TrimSpace(input.OwnerPhone),
		Tier:                tier,
		Location:            strings.TrimSpace(input.Location),
		MonthlyRevenueCents: input.MonthlyRevenueCents,
		Status:              constants.SMBStatusActive,
	}
	if err := s.smbRepo.Create(referral); err != nil {
		return nil, err
	}
	return referral, nil
}

// Update 更新商户推荐
func (s *SMBService) Update(id uint, input UpdateSMBInput) (*models.SMBReferral, error) {
	referral, err := s.smbRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if referral == nil {
		return nil, ErrNotFound
	}

	if input.BusinessName != nil {
		if strings.TrimSpace(*input.BusinessName) == "" {
			return nil, ErrInvalidInput
		}
		referral.BusinessName = strings.TrimSpace(*input.BusinessName)
	}
	if input.OwnerName != nil {
		referral.OwnerName = strings.TrimSpace(*input.OwnerName)
	}
	if input.OwnerEmail != nil {
		referral.OwnerEmail = strings.TrimSpace(*input.OwnerEmail)
	}
	if input.OwnerPhone != nil {
		referral.OwnerPhone = strings.TrimSpace(*input.OwnerPhone)
	}
	if input.Tier != nil {
		tier := strings.TrimSpace(*input.Tier)
		if tier != "" && !isValidSMBTier(tier) {
			return nil, ErrInvalidInput
		}
		referral.Tier = tier
	}
	if input.Location != nil {
		referral.Location = strings.TrimSpace(*input.Location)
	}
	if input.MonthlyRevenueCents != nil {
		if *input.MonthlyRevenueCents < 0 {
			return nil, ErrInvalidInput
		}
		referral.MonthlyRevenueCents = *input.MonthlyRevenueCents
	}
	if input.Status != nil {
		status := strings.TrimSpace(*input.Status)
		if status != constants.SMBStatusActive && status != constants.SMBStatusChurned {
			return nil, ErrInvalidStatus
		}
		referral.Status = status
	}

	if err := s.smbRepo.Update(referral); err != nil {
		return nil, err
	}
	return referral, nil
}

// GetByID 根据主键获取商户推荐
func (s *SMBService) GetByID(id uint) (*models.SMBReferral, error) {
	referral, err := s.smbRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if referral == nil {
		return nil, ErrNotFound
	}
	return referral, nil
}

// List 查询商户推荐列表
func (s *SMBService) List(filter repository.SMBListFilter) ([]models.SMBReferral, int64, error) {
	return s.smbRepo.List(filter)
}

// RollRecurring 按活跃商户的月营收生成当月待结算佣金，
// 分成按归属代理当前推荐关系计算。返回生成条数。
func (s *SMBService) RollRecurring(month string, now time.Time) (int, error) {
	if month == "" {
		month = commission.MonthKey(now)
	}
	active, err := s.smbRepo.ListActive()
	if err != nil {
		return 0, err
	}

	created := 0
	for i := range active {
		referral := &active[i]
		if referral.MonthlyRevenueCents <= 0 {
			continue
		}
		agent, err := s.profileRepo.GetByClerkUserID(referral.AgentID)
		if err != nil {
			return created, err
		}
		if agent == nil {
			logger.Warnw("recurring_roll_agent_missing", "smb_id", referral.ID, "agent_id", referral.AgentID)
			continue
		}
		agentShare, overrideShare, err := commission.Split(referral.MonthlyRevenueCents, agent.HasReferrer())
		if err != nil {
			logger.Warnw("recurring_roll_split_failed", "smb_id", referral.ID, "error", err)
			continue
		}
		record := &models.Commission{
			AgentID:            agent.ClerkUserID,
			Provider:           referral.BusinessName,
			GrossCents:         referral.MonthlyRevenueCents,
			AgentShareCents:    agentShare,
			OverrideShareCents: overrideShare,
			Status:             constants.CommissionStatusPending,
			Notes:              fmt.Sprintf("recurring %s", month),
			Recurring:          true,
		}
		if err := s.commissionRepo.Create(record); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func isValidSMBTier(tier string) bool {
	switch tier {
	case constants.SMBTierStarter, constants.SMBTierGrowth, constants.SMBTierEnterprise:
		return true
	}
	return false
}
