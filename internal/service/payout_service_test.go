package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/fintechful/agent-portal/internal/constants"
	"github.com/fintechful/agent-portal/internal/models"
	"github.com/fintechful/agent-portal/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupPayoutServiceTest(t *testing.T) (*PayoutService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:payout_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Profile{}, &models.Payout{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewPayoutService(repository.NewPayoutRepository(db), repository.NewProfileRepository(db)), db
}

func TestRecordPayout(t *testing.T) {
	svc, db := setupPayoutServiceTest(t)
	createCommissionTestAgent(t, db, "usr_a", "alice", nil)

	payout, err := svc.Record(RecordPayoutInput{
		AgentID:     "usr_a",
		AmountCents: 286000,
		Method:      constants.PayoutMethodACH,
		Notes:       "march disbursement",
	})
	if err != nil {
		t.Fatalf("record payout failed: %v", err)
	}
	if !strings.HasPrefix(payout.Reference, "po_") {
		t.Fatalf("expected generated reference, got %s", payout.Reference)
	}
	if payout.PaidAt.IsZero() {
		t.Fatalf("expected paid_at default to now")
	}

	total, err := svc.TotalPaidOut("usr_a")
	if err != nil {
		t.Fatalf("total paid out failed: %v", err)
	}
	if total != 286000 {
		t.Fatalf("expected total 286000, got %d", total)
	}
}

func TestRecordPayoutValidation(t *testing.T) {
	svc, db := setupPayoutServiceTest(t)
	createCommissionTestAgent(t, db, "usr_a", "alice", nil)

	if _, err := svc.Record(RecordPayoutInput{AgentID: "usr_a", AmountCents: 0, Method: constants.PayoutMethodACH}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero amount, got: %v", err)
	}
	if _, err := svc.Record(RecordPayoutInput{AgentID: "usr_a", AmountCents: 100, Method: "crypto"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown method, got: %v", err)
	}
	if _, err := svc.Record(RecordPayoutInput{AgentID: "usr_ghost", AmountCents: 100, Method: constants.PayoutMethodWire}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown agent, got: %v", err)
	}
}
