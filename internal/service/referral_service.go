package service

import (
	"time"

	"github.com/fintechful/agent-portal/internal/commission"
	"github.com/fintechful/agent-portal/internal/constants"
	"github.com/fintechful/agent-portal/internal/repository"
)

// ReferralService 推荐关系报表服务，只统计一层下线
type ReferralService struct {
	profileRepo    repository.ProfileRepository
	commissionRepo repository.CommissionRepository
}

// NewReferralService 创建推荐关系服务
func NewReferralService(profileRepo repository.ProfileRepository, commissionRepo repository.CommissionRepository) *ReferralService {
	return &ReferralService{
		profileRepo:    profileRepo,
		commissionRepo: commissionRepo,
	}
}

// DownlineEntry 下线代理及其带来的推荐分成
type DownlineEntry struct {
	ClerkUserID        string    `json:"clerk_user_id"`
	FullName           string    `json:"full_name"`
	Subdomain          string    `json:"subdomain"`
	JoinedAt           time.Time `json:"joined_at"`
	LifetimeCents      int64     `json:"lifetime_cents"`
	LastMonthPaidCents int64     `json:"last_month_paid_cents"`
	PendingCents       int64     `json:"pending_cents"`
}

// ReferralReport 推荐关系报表
type ReferralReport struct {
	DownlineCount      int             `json:"downline_count"`
	LifetimeCents      int64           `json:"lifetime_cents"`
	LastMonthPaidCents int64           `json:"last_month_paid_cents"`
	PendingCents       int64           `json:"pending_cents"`
	Downlines          []DownlineEntry `json:"downlines"`
}

// Report 统计某代理的一层下线与各自带来的推荐分成
func (s *ReferralService) Report(uplineID string, now time.Time) (*ReferralReport, error) {
	downlines, err := s.profileRepo.ListByReferrer(uplineID)
	if err != nil {
		return nil, err
	}

	report := &ReferralReport{
		DownlineCount: len(downlines),
		Downlines:     make([]DownlineEntry, 0, len(downlines)),
	}
	if len(downlines) == 0 {
		return report, nil
	}

	lastMonth, err := commission.ResolveWindow(constants.WindowLastMonth, now)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(downlines))
	for _, downline := range downlines {
		ids = append(ids, downline.ClerkUserID)
	}
	stats, err := s.commissionRepo.OverrideStatsBatch(ids, lastMonth.Start, lastMonth.End)
	if err != nil {
		return nil, err
	}

	for _, downline := range downlines {
		entry := DownlineEntry{
			ClerkUserID: downline.ClerkUserID,
			FullName:    downline.FullName,
			Subdomain:   downline.Subdomain,
			JoinedAt:    downline.CreatedAt,
		}
		if stat, ok := stats[downline.ClerkUserID]; ok && stat != nil {
			entry.LifetimeCents = stat.LifetimeCents
			entry.LastMonthPaidCents = stat.LastMonthPaidCents
			entry.PendingCents = stat.PendingCents
		}
		report.LifetimeCents += entry.LifetimeCents
		report.LastMonthPaidCents += entry.LastMonthPaidCents
		report.PendingCents += entry.PendingCents
		report.Downlines = append(report.Downlines, entry)
	}
	return report, nil
}
