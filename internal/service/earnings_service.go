package service

import (
	"time"

	"github.com/fintechful/agent-portal/internal/commission"
	"github.com/fintechful/agent-portal/internal/constants"
	"github.com/fintechful/agent-portal/internal/models"
	"github.com/fintechful/agent-portal/internal/repository"
)

// EarningsService 代理收益报表服务
type EarningsService struct {
	commissionRepo repository.CommissionRepository
	profileRepo    repository.ProfileRepository
}

// NewEarningsService 创建收益报表服务
func NewEarningsService(commissionRepo repository.CommissionRepository, profileRepo repository.ProfileRepository) *EarningsService {
	return &EarningsService{commissionRepo: commissionRepo, profileRepo: profileRepo}
}

// DashboardSummary 仪表盘汇总
type DashboardSummary struct {
	ThisMonthCents    int64               `json:"this_month_cents"`
	ThisMonthCount    int                 `json:"this_month_count"`
	PendingCents      int64               `json:"pending_cents"`
	YTDPaidCents      int64               `json:"ytd_paid_cents"`
	LifetimePaidCents int64               `json:"lifetime_paid_cents"`
	DownlineCount     int64               `json:"downline_count"`
	Recent            []models.Commission `json:"recent"`
}

// EarningsReport 时间窗口收益报表
type EarningsReport struct {
	Window     string                     `json:"window"`
	TotalCents int64                      `json:"total_cents"`
	Providers  []repository.ProviderTotal `json:"providers"`
}

// MonthlyPoint 月度收益序列中的一个点
type MonthlyPoint struct {
	Month         string `json:"month"` // 2006-01
	DirectCents   int64  `json:"direct_cents"`
	OverrideCents int64  `json:"override_cents"`
}

// Dashboard 代理仪表盘汇总：本月流水、待结算、年度与终身已支付
func (s *EarningsService) Dashboard(agentID string, now time.Time) (*DashboardSummary, error) {
	thisMonth, err := commission.ResolveWindow(constants.WindowThisMonth, now)
	if err != nil {
		return nil, err
	}
	monthRecords, err := s.commissionRepo.ListForWindow(agentID, thisMonth)
	if err != nil {
		return nil, err
	}
	var monthTotal int64
	for _, record := range monthRecords {
		monthTotal += record.AgentShareCents
	}

	pending, err := s.commissionRepo.SumAgentShareByStatus(agentID, constants.CommissionStatusPending)
	if err != nil {
		return nil, err
	}
	ytd, err := commission.ResolveWindow(constants.WindowYTD, now)
	if err != nil {
		return nil, err
	}
	ytdPaid, err := s.commissionRepo.SumAgentSharePaidBetween(agentID, ytd.Start, ytd.End)
	if err != nil {
		return nil, err
	}
	lifetimePaid, err := s.commissionRepo.SumAgentShareByStatus(agentID, constants.CommissionStatusPaid)
	if err != nil {
		return nil, err
	}

	downline, err := s.profileRepo.CountByReferrer(agentID)
	if err != nil {
		return nil, err
	}

	recent, _, err := s.commissionRepo.List(repository.CommissionListFilter{
		AgentID:  agentID,
		Page:     1,
		PageSize: 5,
	})
	if err != nil {
		return nil, err
	}

	return &DashboardSummary{
		ThisMonthCents:    monthTotal,
		ThisMonthCount:    len(monthRecords),
		PendingCents:      pending,
		YTDPaidCents:      ytdPaid,
		LifetimePaidCents: lifetimePaid,
		DownlineCount:     downline,
		Recent:            recent,
	}, nil
}

// Earnings 按时间窗口统计收益与服务商构成
func (s *EarningsService) Earnings(agentID, window string, now time.Time) (*EarningsReport, error) {
	wr, err := commission.ResolveWindow(window, now)
	if err != nil {
		return nil, ErrInvalidInput
	}
	providers, err := s.commissionRepo.ProviderTotals(agentID, wr)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, p := range providers {
		total += p.TotalCents
	}
	return &EarningsReport{
		Window:     window,
		TotalCents: total,
		Providers:  providers,
	}, nil
}

// MonthlySeries 最近 12 个自然月的收益序列，按是否带推荐分成拆分，
// 月份升序且补齐空月。
func (s *EarningsService) MonthlySeries(agentID string, now time.Time) ([]MonthlyPoint, error) {
	wr, err := commission.ResolveWindow(constants.WindowLast12Months, now)
	if err != nil {
		return nil, err
	}
	records, err := s.commissionRepo.ListForWindow(agentID, wr)
	if err != nil {
		return nil, err
	}

	keys := commission.TrailingMonthKeys(now, 12)
	buckets := make(map[string]*MonthlyPoint, len(keys))
	series := make([]MonthlyPoint, len(keys))
	for i, key := range keys {
		series[i] = MonthlyPoint{Month: key}
		buckets[key] = &series[i]
	}

	for _, record := range records {
		point, ok := buckets[commission.MonthKey(record.CreatedAt)]
		if !ok {
			continue
		}
		if record.OverrideShareCents > 0 {
			point.OverrideCents += record.AgentShareCents
		} else {
			point.DirectCents += record.AgentShareCents
		}
	}
	return series, nil
}
