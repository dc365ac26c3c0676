package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fintechful/agent-portal/internal/constants"
	"github.com/fintechful/agent-portal/internal/models"
	"github.com/fintechful/agent-portal/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupSMBServiceTest(t *testing.T) (*SMBService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:smb_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Profile{}, &models.Commission{}, &models.SMBReferral{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	svc := NewSMBService(
		repository.NewSMBRepository(db),
		repository.NewProfileRepository(db),
		repository.NewCommissionRepository(db),
	)
	return svc, db
}

func TestRegisterSMB(t *testing.T) {
	svc, db := setupSMBServiceTest(t)
	createCommissionTestAgent(t, db, "usr_a", "alice", nil)

	referral, err := svc.Register(RegisterSMBInput{
		AgentID:             "usr_a",
		BusinessName:        "Corner Bakery",
		OwnerName:           "Pat Doe",
		Tier:                constants.SMBTierGrowth,
		MonthlyRevenueCents: 120000,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if referral.Status != constants.SMBStatusActive {
		t.Fatalf("expected active status, got %s", referral.Status)
	}
	if referral.AgentID != "usr_a" {
		t.Fatalf("unexpected agent id: %s", referral.AgentID)
	}
}

func TestRegisterSMBValidation(t *testing.T) {
	svc, db := setupSMBServiceTest(t)
	createCommissionTestAgent(t, db, "usr_a", "alice", nil)

	if _, err := svc.Register(RegisterSMBInput{AgentID: "usr_a", BusinessName: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty name, got: %v", err)
	}
	if _, err := svc.Register(RegisterSMBInput{AgentID: "usr_a", BusinessName: "Shop", Tier: "platinum"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown tier, got: %v", err)
	}
	if _, err := svc.Register(RegisterSMBInput{AgentID: "usr_missing", BusinessName: "Shop"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown agent, got: %v", err)
	}
}

func TestUpdateSMBStatus(t *testing.T) {
	svc, db := setupSMBServiceTest(t)
	createCommissionTestAgent(t, db, "usr_a", "alice", nil)
	referral, err := svc.Register(RegisterSMBInput{AgentID: "usr_a", BusinessName: "Shop", MonthlyRevenueCents: 1000})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	churned := constants.SMBStatusChurned
	updated, err := svc.Update(referral.ID, UpdateSMBInput{Status: &churned})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Status != constants.SMBStatusChurned {
		t.Fatalf("expected churned, got %s", updated.Status)
	}

	bad := "frozen"
	if _, err := svc.Update(referral.ID, UpdateSMBInput{Status: &bad}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got: %v", err)
	}
}

func TestRollRecurringCreatesPendingCommissions(t *testing.T) {
	svc, db := setupSMBServiceTest(t)
	upline := createCommissionTestAgent(t, db, "usr_up", "upline", nil)
	createCommissionTestAgent(t, db, "usr_b", "bob", &upline.ClerkUserID)
	createCommissionTestAgent(t, db, "usr_a", "alice", nil)

	if _, err := svc.Register(RegisterSMBInput{AgentID: "usr_b", BusinessName: "Corner Bakery", MonthlyRevenueCents: 520000}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	// 流失商户不参与续期
	churnedRef, err := svc.Register(RegisterSMBInput{AgentID: "usr_a", BusinessName: "Closed Shop", MonthlyRevenueCents: 100000})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	churned := constants.SMBStatusChurned
	if _, err := svc.Update(churnedRef.ID, UpdateSMBInput{Status: &churned}); err != nil {
		t.Fatalf("churn failed: %v", err)
	}
	// 零营收商户跳过
	if _, err := svc.Register(RegisterSMBInput{AgentID: "usr_a", BusinessName: "Idle Shop"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	now := time.Date(2026, 4, 1, 3, 0, 0, 0, time.UTC)
	created, err := svc.RollRecurring("", now)
	if err != nil {
		t.Fatalf("roll recurring failed: %v", err)
	}
	if created != 1 {
		t.Fatalf("expected 1 commission created, got %d", created)
	}

	var record models.Commission
	if err := db.First(&record).Error; err != nil {
		t.Fatalf("load commission failed: %v", err)
	}
	if record.AgentID != "usr_b" || !record.Recurring {
		t.Fatalf("unexpected record: %+v", record)
	}
	if record.Status != constants.CommissionStatusPending {
		t.Fatalf("expected pending record, got %s", record.Status)
	}
	if record.AgentShareCents != 286000 || record.OverrideShareCents != 14300 {
		t.Fatalf("unexpected shares: %+v", record)
	}
	if record.Notes != "recurring 2026-04" {
		t.Fatalf("unexpected notes: %s", record.Notes)
	}
}
