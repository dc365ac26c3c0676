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

func setupReferralServiceTest(t *testing.T) (*ReferralService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:referral_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Profile{}, &models.Commission{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewReferralService(repository.NewProfileRepository(db), repository.NewCommissionRepository(db)), db
}

func insertReferralCommission(t *testing.T, db *gorm.DB, agentID string, override int64, status string, paidAt *time.Time) {
	t.Helper()

	record := models.Commission{
		AgentID:            agentID,
		Provider:           "Acme",
		GrossCents:         override * 20,
		AgentShareCents:    override * 11,
		OverrideShareCents: override,
		Status:             status,
		PaidAt:             paidAt,
	}
	if err := db.Create(&record).Error; err != nil {
		t.Fatalf("insert commission failed: %v", err)
	}
}

func TestReferralReportCountsOneHopOnly(t *testing.T) {
	svc, db := setupReferralServiceTest(t)
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	upline := createCommissionTestAgent(t, db, "usr_up", "upline", nil)
	direct := createCommissionTestAgent(t, db, "usr_d1", "direct1", &upline.ClerkUserID)
	createCommissionTestAgent(t, db, "usr_d2", "direct2", &upline.ClerkUserID)
	// 二层下线不计入
	createCommissionTestAgent(t, db, "usr_gc", "grandchild", &direct.ClerkUserID)

	lastMonthPaid := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	insertReferralCommission(t, db, "usr_d1", 100, constants.CommissionStatusPaid, &lastMonthPaid)
	insertReferralCommission(t, db, "usr_d1", 50, constants.CommissionStatusPending, nil)
	insertReferralCommission(t, db, "usr_d2", 30, constants.CommissionStatusPending, nil)
	// 非下线的分成不计
	insertReferralCommission(t, db, "usr_gc", 999, constants.CommissionStatusPending, nil)

	report, err := svc.Report(upline.ClerkUserID, now)
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if report.DownlineCount != 2 {
		t.Fatalf("expected 2 downlines, got %d", report.DownlineCount)
	}
	if report.LifetimeCents != 180 {
		t.Fatalf("expected lifetime 180, got %d", report.LifetimeCents)
	}
	if report.LastMonthPaidCents != 100 {
		t.Fatalf("expected last month paid 100, got %d", report.LastMonthPaidCents)
	}
	if report.PendingCents != 80 {
		t.Fatalf("expected pending 80, got %d", report.PendingCents)
	}

	var d1 *DownlineEntry
	for i := range report.Downlines {
		if report.Downlines[i].ClerkUserID == "usr_d1" {
			d1 = &report.Downlines[i]
		}
	}
	if d1 == nil {
		t.Fatalf("downline usr_d1 missing from report")
	}
	if d1.LifetimeCents != 150 || d1.LastMonthPaidCents != 100 || d1.PendingCents != 50 {
		t.Fatalf("unexpected downline stats: %+v", d1)
	}
}

func TestReferralReportEmptyDownlines(t *testing.T) {
	svc, db := setupReferralServiceTest(t)
	upline := createCommissionTestAgent(t, db, "usr_solo", "solo", nil)

	report, err := svc.Report(upline.ClerkUserID, time.Now())
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if report.DownlineCount != 0 || len(report.Downlines) != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
}
