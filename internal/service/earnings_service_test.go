package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/fintechful/agent-portal/internal/constants"
	"github.com/fintechful/agent-portal/internal/models"
	"github.com/fintechful/agent-portal/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupEarningsServiceTest(t *testing.T) (*EarningsService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:earnings_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Profile{}, &models.Commission{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewEarningsService(repository.NewCommissionRepository(db), repository.NewProfileRepository(db)), db
}

func insertEarningsRecord(t *testing.T, db *gorm.DB, agentID, provider string, agentShare, override int64, status string, createdAt time.Time, paidAt *time.Time) {
	t.Helper()

	record := models.Commission{
		AgentID:            agentID,
		Provider:           provider,
		GrossCents:         agentShare * 2,
		AgentShareCents:    agentShare,
		OverrideShareCents: override,
		Status:             status,
		PaidAt:             paidAt,
	}
	if err := db.Create(&record).Error; err != nil {
		t.Fatalf("insert commission failed: %v", err)
	}
	// CreatedAt 由 GORM 自动填充，窗口测试需要手工回填
	if err := db.Model(&models.Commission{}).Where("id = ?", record.ID).Update("created_at", createdAt).Error; err != nil {
		t.Fatalf("backdate commission failed: %v", err)
	}
}

func TestDashboardSummaryWindows(t *testing.T) {
	svc, db := setupEarningsServiceTest(t)
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	// 本月：不限状态
	insertEarningsRecord(t, db, "usr_a", "Acme", 1000, 0, constants.CommissionStatusPending, now.AddDate(0, 0, -1), nil)
	paidAt := now.AddDate(0, 0, -2)
	insertEarningsRecord(t, db, "usr_a", "Acme", 2000, 0, constants.CommissionStatusPaid, now.AddDate(0, 0, -3), &paidAt)
	// 上月已支付：进年度口径，不进本月
	lastMonthPaid := now.AddDate(0, -1, 0)
	insertEarningsRecord(t, db, "usr_a", "Acme", 4000, 0, constants.CommissionStatusPaid, lastMonthPaid, &lastMonthPaid)
	// 去年已支付：只进终身口径
	lastYear := now.AddDate(-1, 0, 0)
	insertEarningsRecord(t, db, "usr_a", "Acme", 8000, 0, constants.CommissionStatusPaid, lastYear, &lastYear)
	// 其他代理不计
	insertEarningsRecord(t, db, "usr_other", "Acme", 50000, 0, constants.CommissionStatusPaid, now, &now)

	// 直接下线两人，下线的下线不计
	referrer := "usr_a"
	childID := "usr_child_1"
	for i, clerkID := range []string{"usr_child_1", "usr_child_2"} {
		profile := models.Profile{
			ClerkUserID: clerkID,
			FullName:    fmt.Sprintf("Child %d", i+1),
			Email:       fmt.Sprintf("child%d@example.com", i+1),
			Subdomain:   fmt.Sprintf("child%d", i+1),
			Role:        constants.RoleAgent,
			ReferredBy:  &referrer,
		}
		if err := db.Create(&profile).Error; err != nil {
			t.Fatalf("create downline profile failed: %v", err)
		}
	}
	grandchild := models.Profile{
		ClerkUserID: "usr_grandchild",
		FullName:    "Grand Child",
		Email:       "grandchild@example.com",
		Subdomain:   "grandchild",
		Role:        constants.RoleAgent,
		ReferredBy:  &childID,
	}
	if err := db.Create(&grandchild).Error; err != nil {
		t.Fatalf("create grandchild profile failed: %v", err)
	}

	summary, err := svc.Dashboard("usr_a", now)
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	if summary.ThisMonthCents != 3000 {
		t.Fatalf("expected this month 3000, got %d", summary.ThisMonthCents)
	}
	if summary.ThisMonthCount != 2 {
		t.Fatalf("expected 2 records this month, got %d", summary.ThisMonthCount)
	}
	if summary.PendingCents != 1000 {
		t.Fatalf("expected pending 1000, got %d", summary.PendingCents)
	}
	if summary.YTDPaidCents != 6000 {
		t.Fatalf("expected ytd paid 6000, got %d", summary.YTDPaidCents)
	}
	if summary.LifetimePaidCents != 14000 {
		t.Fatalf("expected lifetime paid 14000, got %d", summary.LifetimePaidCents)
	}
	if summary.DownlineCount != 2 {
		t.Fatalf("expected 2 direct downline agents, got %d", summary.DownlineCount)
	}
}

func TestEarningsProviderBreakdownOrdering(t *testing.T) {
	svc, db := setupEarningsServiceTest(t)
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	insertEarningsRecord(t, db, "usr_a", "Acme", 1000, 0, constants.CommissionStatusPending, now, nil)
	insertEarningsRecord(t, db, "usr_a", "Beta", 5000, 0, constants.CommissionStatusPending, now, nil)
	// 大小写不同视为不同服务商
	insertEarningsRecord(t, db, "usr_a", "acme", 300, 0, constants.CommissionStatusPending, now, nil)

	report, err := svc.Earnings("usr_a", constants.WindowThisMonth, now)
	if err != nil {
		t.Fatalf("earnings failed: %v", err)
	}
	if report.TotalCents != 6300 {
		t.Fatalf("expected total 6300, got %d", report.TotalCents)
	}
	if len(report.Providers) != 3 {
		t.Fatalf("expected 3 providers, got %d", len(report.Providers))
	}
	if report.Providers[0].Provider != "Beta" || report.Providers[0].TotalCents != 5000 {
		t.Fatalf("unexpected top provider: %+v", report.Providers[0])
	}
	if report.Providers[2].Provider != "acme" {
		t.Fatalf("expected case-sensitive grouping, got: %+v", report.Providers)
	}
}

func TestEarningsLastMonthPaidOnly(t *testing.T) {
	svc, db := setupEarningsServiceTest(t)
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	lastMonth := time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC)
	insertEarningsRecord(t, db, "usr_a", "Acme", 1000, 0, constants.CommissionStatusPaid, lastMonth, &lastMonth)
	// 上月 pending 不进已支付口径
	insertEarningsRecord(t, db, "usr_a", "Acme", 2000, 0, constants.CommissionStatusPending, lastMonth, nil)
	// 缺 paid_at 的已支付记录按创建时间归属
	insertEarningsRecord(t, db, "usr_a", "Acme", 4000, 0, constants.CommissionStatusPaid, lastMonth, nil)

	report, err := svc.Earnings("usr_a", constants.WindowLastMonth, now)
	if err != nil {
		t.Fatalf("earnings failed: %v", err)
	}
	if report.TotalCents != 5000 {
		t.Fatalf("expected last month paid 5000, got %d", report.TotalCents)
	}
}

func TestEarningsUnknownWindow(t *testing.T) {
	svc, _ := setupEarningsServiceTest(t)

	if _, err := svc.Earnings("usr_a", "lastCentury", time.Now()); err == nil {
		t.Fatalf("expected error for unknown window")
	}
}

func TestMonthlySeriesBucketsAndSplitsByOverride(t *testing.T) {
	svc, db := setupEarningsServiceTest(t)
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	insertEarningsRecord(t, db, "usr_a", "Acme", 1000, 0, constants.CommissionStatusPending, now, nil)
	insertEarningsRecord(t, db, "usr_a", "Acme", 2000, 100, constants.CommissionStatusPending, now, nil)
	twoMonthsAgo := now.AddDate(0, -2, 0)
	insertEarningsRecord(t, db, "usr_a", "Acme", 4000, 0, constants.CommissionStatusPaid, twoMonthsAgo, &twoMonthsAgo)
	// 窗口之外的记录不进序列
	old := now.AddDate(-2, 0, 0)
	insertEarningsRecord(t, db, "usr_a", "Acme", 8000, 0, constants.CommissionStatusPaid, old, &old)

	series, err := svc.MonthlySeries("usr_a", now)
	if err != nil {
		t.Fatalf("monthly series failed: %v", err)
	}
	if len(series) != 12 {
		t.Fatalf("expected 12 points, got %d", len(series))
	}
	if series[0].Month != "2025-04" || series[11].Month != "2026-03" {
		t.Fatalf("unexpected month range: %s .. %s", series[0].Month, series[11].Month)
	}
	last := series[11]
	if last.DirectCents != 1000 || last.OverrideCents != 2000 {
		t.Fatalf("unexpected current month point: %+v", last)
	}
	if series[9].DirectCents != 4000 {
		t.Fatalf("expected 4000 direct two months ago, got %+v", series[9])
	}
	for _, point := range series[:9] {
		if point.DirectCents != 0 || point.OverrideCents != 0 {
			t.Fatalf("expected empty month %s, got %+v", point.Month, point)
		}
	}
}
