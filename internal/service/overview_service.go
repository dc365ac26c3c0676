package service

import (
	"github.com/fintechful/agent-portal/internal/repository"
)

// OverviewService 平台全局概览服务
type OverviewService struct {
	commissionRepo repository.CommissionRepository
	profileRepo    repository.ProfileRepository
}

// NewOverviewService 创建平台概览服务
func NewOverviewService(commissionRepo repository.CommissionRepository, profileRepo repository.ProfileRepository) *OverviewService {
	return &OverviewService{
		commissionRepo: commissionRepo,
		profileRepo:    profileRepo,
	}
}

// PlatformOverview 平台概览数据
type PlatformOverview struct {
	AgentCount   int64                        `json:"agent_count"`
	StatusTotals []repository.StatusTotal     `json:"status_totals"`
	TopAgents    []repository.AgentShareTotal `json:"top_agents"`
}

// Overview 汇总平台概览：代理数、各状态台账合计、已支付分成排行
func (s *OverviewService) Overview(topN int) (*PlatformOverview, error) {
	if topN <= 0 {
		topN = 10
	}
	agentCount, err := s.profileRepo.Count()
	if err != nil {
		return nil, err
	}
	statusTotals, err := s.commissionRepo.StatusTotals()
	if err != nil {
		return nil, err
	}
	topAgents, err := s.commissionRepo.TopAgentsByPaidShare(topN)
	if err != nil {
		return nil, err
	}
	return &PlatformOverview{
		AgentCount:   agentCount,
		StatusTotals: statusTotals,
		TopAgents:    topAgents,
	}, nil
}
