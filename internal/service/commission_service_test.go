package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fintechful/agent-portal/internal/constants"
	"github.com/fintechful/agent-portal/internal/models"
	"github.com/fintechful/agent-portal/internal/queue"
	"github.com/fintechful/agent-portal/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupCommissionServiceTest(t *testing.T) (*CommissionService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:commission_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Profile{}, &models.Commission{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}
	svc := NewCommissionService(repository.NewCommissionRepository(db), repository.NewProfileRepository(db), queueClient)
	return svc, db
}

func createCommissionTestAgent(t *testing.T, db *gorm.DB, clerkID, subdomain string, referredBy *string) models.Profile {
	t.Helper()

	profile := models.Profile{
		ClerkUserID: clerkID,
		FullName:    "Agent " + subdomain,
		Email:       subdomain + "@example.com",
		Subdomain:   subdomain,
		Role:        constants.RoleAgent,
		ReferredBy:  referredBy,
	}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("create profile failed: %v", err)
	}
	return profile
}

func TestCreateCommissionSplitsWithoutReferrer(t *testing.T) {
	svc, db := setupCommissionServiceTest(t)
	createCommissionTestAgent(t, db, "usr_a", "alice", nil)

	record, err := svc.Create(CreateCommissionInput{
		AgentID:    "usr_a",
		Provider:   "Acme Payments",
		GrossCents: 520000,
	})
	if err != nil {
		t.Fatalf("create commission failed: %v", err)
	}
	if record.AgentShareCents != 286000 {
		t.Fatalf("expected agent share 286000, got %d", record.AgentShareCents)
	}
	if record.OverrideShareCents != 0 {
		t.Fatalf("expected zero override share, got %d", record.OverrideShareCents)
	}
	if record.Status != constants.CommissionStatusPending {
		t.Fatalf("expected pending status, got %s", record.Status)
	}
	if record.PaidAt != nil {
		t.Fatalf("expected nil paid_at on pending record")
	}
}

func TestCreateCommissionSplitsWithReferrer(t *testing.T) {
	svc, db := setupCommissionServiceTest(t)
	upline := createCommissionTestAgent(t, db, "usr_up", "upline", nil)
	createCommissionTestAgent(t, db, "usr_b", "bob", &upline.ClerkUserID)

	record, err := svc.Create(CreateCommissionInput{
		AgentID:    "usr_b",
		Provider:   "Acme Payments",
		GrossCents: 520000,
	})
	if err != nil {
		t.Fatalf("create commission failed: %v", err)
	}
	if record.AgentShareCents != 286000 {
		t.Fatalf("expected agent share 286000, got %d", record.AgentShareCents)
	}
	if record.OverrideShareCents != 14300 {
		t.Fatalf("expected override share 14300, got %d", record.OverrideShareCents)
	}
}

func TestCreateCommissionRejectsUnknownAgent(t *testing.T) {
	svc, _ := setupCommissionServiceTest(t)

	if _, err := svc.Create(CreateCommissionInput{
		AgentID:    "usr_missing",
		Provider:   "Acme Payments",
		GrossCents: 100,
	}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestUpdateStatusPendingToPaidSetsPaidAt(t *testing.T) {
	svc, db := setupCommissionServiceTest(t)
	createCommissionTestAgent(t, db, "usr_a", "alice", nil)

	record, err := svc.Create(CreateCommissionInput{AgentID: "usr_a", Provider: "Acme", GrossCents: 333})
	if err != nil {
		t.Fatalf("create commission failed: %v", err)
	}
	if record.AgentShareCents != 183 {
		t.Fatalf("expected agent share 183, got %d", record.AgentShareCents)
	}

	updated, err := svc.UpdateStatus(record.ID, constants.CommissionStatusPaid)
	if err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if updated.Status != constants.CommissionStatusPaid {
		t.Fatalf("expected paid status, got %s", updated.Status)
	}
	if updated.PaidAt == nil {
		t.Fatalf("expected paid_at to be set")
	}

	if _, err := svc.UpdateStatus(record.ID, constants.CommissionStatusRejected); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for paid record, got: %v", err)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc, db := setupCommissionServiceTest(t)
	createCommissionTestAgent(t, db, "usr_a", "alice", nil)
	record, err := svc.Create(CreateCommissionInput{AgentID: "usr_a", Provider: "Acme", GrossCents: 100})
	if err != nil {
		t.Fatalf("create commission failed: %v", err)
	}

	if _, err := svc.UpdateStatus(record.ID, "archived"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got: %v", err)
	}
}

func TestBulkUpdateStatusOnlyMovesPending(t *testing.T) {
	svc, db := setupCommissionServiceTest(t)
	createCommissionTestAgent(t, db, "usr_a", "alice", nil)

	first, err := svc.Create(CreateCommissionInput{AgentID: "usr_a", Provider: "Acme", GrossCents: 1000})
	if err != nil {
		t.Fatalf("create commission failed: %v", err)
	}
	second, err := svc.Create(CreateCommissionInput{AgentID: "usr_a", Provider: "Acme", GrossCents: 2000})
	if err != nil {
		t.Fatalf("create commission failed: %v", err)
	}
	if _, err := svc.UpdateStatus(first.ID, constants.CommissionStatusRejected); err != nil {
		t.Fatalf("reject first failed: %v", err)
	}

	affected, err := svc.BulkUpdateStatus([]uint{first.ID, second.ID}, constants.CommissionStatusPaid)
	if err != nil {
		t.Fatalf("bulk update failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 affected row, got %d", affected)
	}

	reloaded, err := svc.GetByID(second.ID)
	if err != nil {
		t.Fatalf("reload second failed: %v", err)
	}
	if reloaded.Status != constants.CommissionStatusPaid || reloaded.PaidAt == nil {
		t.Fatalf("expected second record paid with paid_at, got %+v", reloaded)
	}
}

func TestUpdatePaidCommissionRecomputesShares(t *testing.T) {
	svc, db := setupCommissionServiceTest(t)
	upline := createCommissionTestAgent(t, db, "usr_up", "upline", nil)
	createCommissionTestAgent(t, db, "usr_b", "bob", &upline.ClerkUserID)

	record, err := svc.Create(CreateCommissionInput{AgentID: "usr_b", Provider: "Acme", GrossCents: 1000})
	if err != nil {
		t.Fatalf("create commission failed: %v", err)
	}
	if _, err := svc.UpdateStatus(record.ID, constants.CommissionStatusPaid); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}

	newGross := int64(520000)
	updated, err := svc.Update(record.ID, UpdateCommissionInput{GrossCents: &newGross})
	if err != nil {
		t.Fatalf("update paid record failed: %v", err)
	}
	if updated.GrossCents != 520000 || updated.AgentShareCents != 286000 || updated.OverrideShareCents != 14300 {
		t.Fatalf("unexpected recomputed shares: %+v", updated)
	}
}

func TestBulkDeleteCommissions(t *testing.T) {
	svc, db := setupCommissionServiceTest(t)
	createCommissionTestAgent(t, db, "usr_a", "alice", nil)

	first, err := svc.Create(CreateCommissionInput{AgentID: "usr_a", Provider: "Acme", GrossCents: 1000})
	if err != nil {
		t.Fatalf("create commission failed: %v", err)
	}
	second, err := svc.Create(CreateCommissionInput{AgentID: "usr_a", Provider: "Acme", GrossCents: 2000})
	if err != nil {
		t.Fatalf("create commission failed: %v", err)
	}

	deleted, err := svc.BulkDelete([]uint{first.ID, second.ID})
	if err != nil {
		t.Fatalf("bulk delete failed: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted rows, got %d", deleted)
	}
	if _, err := svc.GetByID(first.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got: %v", err)
	}
}
