package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fintechful/agent-portal/internal/config"
	"github.com/fintechful/agent-portal/internal/models"
	"github.com/fintechful/agent-portal/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupStorefrontServiceTest(t *testing.T) (*StorefrontService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:storefront_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Profile{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewStorefrontService(repository.NewProfileRepository(db), &config.Config{}), db
}

func TestResolveStorefront(t *testing.T) {
	svc, db := setupStorefrontServiceTest(t)
	profile := createCommissionTestAgent(t, db, "usr_a", "alice", nil)

	snapshot, err := svc.Resolve(context.Background(), "Alice")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if snapshot.Subdomain != "alice" || snapshot.FullName != profile.FullName {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}
}

func TestResolveStorefrontUnknown(t *testing.T) {
	svc, _ := setupStorefrontServiceTest(t)

	if _, err := svc.Resolve(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
	if _, err := svc.Resolve(context.Background(), "  "); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for blank subdomain, got: %v", err)
	}
}
